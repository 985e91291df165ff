package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeapp/ecommerce-api/internal/catalog"
)

// listProductsHandler godoc
// @Summary List products
// @Param q query string false "free-text search over name/description"
// @Param category query string false "category id"
// @Param min_price query string false "minimum price"
// @Param max_price query string false "maximum price"
// @Param order query string false "price ordering: asc or desc"
// @Success 200 {object} catalog.ListResponse
// @Router /products [get]
func listProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pageParams(c)
		q := catalog.Query{
			Q:            c.Query("q"),
			CategoryID:   c.Query("category"),
			MinPrice:     c.Query("min_price"),
			MaxPrice:     c.Query("max_price"),
			OrderByPrice: c.Query("order"),
			Limit:        limit,
			Offset:       offset,
		}
		if q.OrderByPrice != "" && q.OrderByPrice != "asc" && q.OrderByPrice != "desc" {
			abortError(c, http.StatusBadRequest, "order must be asc or desc")
			return
		}
		for _, p := range []string{q.MinPrice, q.MaxPrice} {
			if p == "" {
				continue
			}
			if _, err := decimal.NewFromString(p); err != nil {
				abortError(c, http.StatusBadRequest, "invalid price filter")
				return
			}
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "list products failed")
			return
		}
		if items == nil {
			items = []catalog.Product{}
		}
		c.JSON(http.StatusOK, catalog.ListResponse{Q: q.Q, Limit: limit, Offset: offset, Items: items})
	}
}

// getProductHandler godoc
// @Summary Get a product
// @Param id path string true "product id"
// @Success 200 {object} catalog.Product
// @Failure 404 {object} catalog.HTTPError
// @Router /products/{id} [get]
func getProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, "product not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler godoc
// @Summary Create a product (staff)
// @Param body body catalog.CreateProductRequest true "product"
// @Success 201 {object} catalog.Product
// @Router /products [post]
func createProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Name == "" || req.Price == "" {
			abortError(c, http.StatusBadRequest, "name and price are required")
			return
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			abortError(c, http.StatusBadRequest, "invalid price")
			return
		}
		if req.Inventory < 0 {
			abortError(c, http.StatusBadRequest, "inventory must be non-negative")
			return
		}
		p := &catalog.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			CategoryID:  req.CategoryID,
			Slug:        req.Slug,
			Price:       price,
			Inventory:   req.Inventory,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			abortError(c, http.StatusInternalServerError, "create product failed")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		cur, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, "product not found")
			return
		}

		updatePrice := false
		price := cur.Price
		if req.Price != "" {
			d, err := decimal.NewFromString(req.Price)
			if err != nil || d.IsNegative() {
				abortError(c, http.StatusBadRequest, "invalid price")
				return
			}
			price = d
			updatePrice = true
		}
		inventory := cur.Inventory
		if req.Inventory != nil {
			if *req.Inventory < 0 {
				abortError(c, http.StatusBadRequest, "inventory must be non-negative")
				return
			}
			inventory = *req.Inventory
		}

		p := &catalog.Product{
			ID:          cur.ID,
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			CategoryID:  req.CategoryID,
			Slug:        req.Slug,
			Price:       price,
			Inventory:   inventory,
		}
		if err := repo.Update(c.Request.Context(), p, updatePrice); err != nil {
			abortError(c, http.StatusInternalServerError, "update product failed")
			return
		}
		out, err := repo.GetByID(c.Request.Context(), cur.ID)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "refetch failed")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "delete product failed")
			return
		}
		if !ok {
			abortError(c, http.StatusNotFound, "product not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// groupedByCategoryHandler godoc
// @Summary Products grouped by category title
// @Success 200 {object} map[string][]catalog.Product
// @Router /products/grouped-by-category [get]
func groupedByCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		grouped, err := repo.GroupedByCategory(c.Request.Context())
		if err != nil {
			abortError(c, http.StatusInternalServerError, "grouping failed")
			return
		}
		c.JSON(http.StatusOK, grouped)
	}
}

func listCategoriesHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := repo.ListCategories(c.Request.Context())
		if err != nil {
			abortError(c, http.StatusInternalServerError, "list categories failed")
			return
		}
		if cats == nil {
			cats = []catalog.Category{}
		}
		c.JSON(http.StatusOK, cats)
	}
}

func getCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, err := repo.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, "category not found")
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func createCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title string `json:"title"`
			Slug  string `json:"slug"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
			abortError(c, http.StatusBadRequest, "title is required")
			return
		}
		cat := &catalog.Category{ID: uuid.NewString(), Title: req.Title, Slug: req.Slug}
		if err := repo.CreateCategory(c.Request.Context(), cat); err != nil {
			abortError(c, http.StatusInternalServerError, "create category failed")
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func updateCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title string `json:"title"`
			Slug  string `json:"slug"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		cat := &catalog.Category{ID: c.Param("id"), Title: req.Title, Slug: req.Slug}
		if err := repo.UpdateCategory(c.Request.Context(), cat); err != nil {
			if errors.Is(err, catalog.ErrCategoryNotFound) {
				abortError(c, http.StatusNotFound, "category not found")
				return
			}
			abortError(c, http.StatusInternalServerError, "update category failed")
			return
		}
		out, err := repo.GetCategory(c.Request.Context(), cat.ID)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "refetch failed")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.DeleteCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "delete category failed")
			return
		}
		if !ok {
			abortError(c, http.StatusNotFound, "category not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listReviewsHandler(repo catalog.ReviewRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := repo.ListReviews(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "list reviews failed")
			return
		}
		if reviews == nil {
			reviews = []catalog.Review{}
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// createReviewHandler godoc
// @Summary Add a review under a product
// @Param id path string true "product id"
// @Param body body catalog.CreateReviewRequest true "review"
// @Success 201 {object} catalog.Review
// @Router /products/{id}/reviews [post]
func createReviewHandler(products catalog.Repository, repo catalog.ReviewRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			abortError(c, http.StatusBadRequest, "name is required")
			return
		}
		productID := c.Param("id")
		if _, err := products.GetByID(c.Request.Context(), productID); err != nil {
			abortError(c, http.StatusNotFound, "product not found")
			return
		}
		rv := &catalog.Review{
			ID:          uuid.NewString(),
			ProductID:   productID,
			Name:        req.Name,
			Description: req.Description,
		}
		if err := repo.CreateReview(c.Request.Context(), rv); err != nil {
			abortError(c, http.StatusInternalServerError, "create review failed")
			return
		}
		c.JSON(http.StatusCreated, rv)
	}
}

func deleteReviewHandler(repo catalog.ReviewRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.DeleteReview(c.Request.Context(), c.Param("id"), c.Param("review_id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "delete review failed")
			return
		}
		if !ok {
			abortError(c, http.StatusNotFound, "review not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
