package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID    string `json:"category_id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	CategoryID  string `json:"category,omitempty"`
	Slug        string `json:"slug"`
	// NUMERIC in Postgres; decimal avoids float rounding on totals.
	Price     decimal.Decimal `json:"price"`
	Inventory int             `json:"inventory"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Review struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"date_created"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	Q      string    `json:"q,omitempty"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Items  []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name"        example:"Mechanical Keyboard"`
	Description string `json:"description" example:"RGB 60%"`
	Image       string `json:"image"`
	CategoryID  string `json:"category"`
	Slug        string `json:"slug"        example:"mechanical-keyboard"`
	Price       string `json:"price"       example:"199.90"`
	Inventory   int    `json:"inventory"   example:"10"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	CategoryID  string `json:"category"`
	Slug        string `json:"slug"`
	Price       string `json:"price"`
	Inventory   *int   `json:"inventory"`
}

// CreateReviewRequest payload of a product review.
// swagger:model CreateReviewRequest
type CreateReviewRequest struct {
	Name        string `json:"name"        example:"Ada"`
	Description string `json:"description" example:"Great keyboard"`
}
