// Package catalog provides the repositories for categories, products and
// product reviews backed by PostgreSQL.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrReviewNotFound   = errors.New("review not found")
)

type Query struct {
	Q            string
	CategoryID   string
	MinPrice     string // empty = unset, else a decimal literal
	MaxPrice     string
	OrderByPrice string // "", "asc" or "desc"
	Limit        int
	Offset       int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Update(ctx context.Context, p *Product, updatePrice bool) error
	Delete(ctx context.Context, id string) (bool, error)
	GroupedByCategory(ctx context.Context) (map[string][]Product, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) (bool, error)
}

type ReviewRepository interface {
	ListReviews(ctx context.Context, productID string) ([]Review, error)
	CreateReview(ctx context.Context, r *Review) error
	DeleteReview(ctx context.Context, productID, reviewID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productCols = `id, name, description, image, COALESCE(category_id::text,''), slug, price::text, inventory, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.CategoryID, &p.Slug,
		&price, &p.Inventory, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	p.Price = d
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, image, category_id, slug, price, inventory, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NULLIF($5,'')::uuid,$6,$7::numeric,$8,NOW(),NOW())
	`, p.ID, p.Name, p.Description, p.Image, p.CategoryID, p.Slug, p.Price.String(), p.Inventory)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	order := "created_at DESC"
	switch q.OrderByPrice {
	case "asc":
		order = "price ASC"
	case "desc":
		order = "price DESC"
	}

	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+`
		FROM products
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR category_id::text = $2)
		  AND ($3 = '' OR price >= $3::numeric)
		  AND ($4 = '' OR price <= $4::numeric)
		ORDER BY `+order+`
		LIMIT $5 OFFSET $6
	`, search, q.CategoryID, q.MinPrice, q.MaxPrice, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product, updatePrice bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePrice {
		_, err := r.db.Exec(ctx, `
			UPDATE products
			SET name = COALESCE(NULLIF($2,''), name),
			    description = COALESCE(NULLIF($3,''), description),
			    image = COALESCE(NULLIF($4,''), image),
			    category_id = COALESCE(NULLIF($5,'')::uuid, category_id),
			    slug = COALESCE(NULLIF($6,''), slug),
			    price = $7::numeric,
			    inventory = $8,
			    updated_at = NOW()
			WHERE id = $1
		`, p.ID, p.Name, p.Description, p.Image, p.CategoryID, p.Slug, p.Price.String(), p.Inventory)
		return err
	}

	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = COALESCE(NULLIF($2,''), name),
		    description = COALESCE(NULLIF($3,''), description),
		    image = COALESCE(NULLIF($4,''), image),
		    category_id = COALESCE(NULLIF($5,'')::uuid, category_id),
		    slug = COALESCE(NULLIF($6,''), slug),
		    inventory = $7,
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Image, p.CategoryID, p.Slug, p.Inventory)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) GroupedByCategory(ctx context.Context) (map[string][]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT c.title, p.id, p.name, p.description, p.image, COALESCE(p.category_id::text,''),
		       p.slug, p.price::text, p.inventory, p.created_at, p.updated_at
		FROM categories c
		JOIN products p ON p.category_id = c.id
		ORDER BY c.title, p.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]Product)
	for rows.Next() {
		var title string
		var p Product
		var price string
		if err := rows.Scan(&title, &p.ID, &p.Name, &p.Description, &p.Image, &p.CategoryID,
			&p.Slug, &price, &p.Inventory, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		p.Price = d
		out[title] = append(out[title], p)
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, title, slug) VALUES ($1,$2,$3)
	`, c.ID, c.Title, c.Slug)
	return err
}

func (r *PGRepo) GetCategory(ctx context.Context, id string) (*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Category
	if err := r.db.QueryRow(ctx, `SELECT id, title, slug FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Title, &c.Slug); err != nil {
		return nil, ErrCategoryNotFound
	}
	return &c, nil
}

func (r *PGRepo) ListCategories(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, title, slug FROM categories ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET title = COALESCE(NULLIF($2,''), title),
		    slug  = COALESCE(NULLIF($3,''), slug)
		WHERE id = $1
	`, c.ID, c.Title, c.Slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *PGRepo) DeleteCategory(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) ListReviews(ctx context.Context, productID string) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, name, description, created_at
		FROM reviews WHERE product_id=$1
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Name, &rv.Description, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateReview(ctx context.Context, rv *Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (id, product_id, name, description, created_at)
		VALUES ($1,$2,$3,$4,NOW())
	`, rv.ID, rv.ProductID, rv.Name, rv.Description)
	return err
}

func (r *PGRepo) DeleteReview(ctx context.Context, productID, reviewID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1 AND product_id=$2`, reviewID, productID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
