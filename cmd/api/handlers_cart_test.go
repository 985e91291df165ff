package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeapp/ecommerce-api/internal/cart"
)

// stubCartRepo implements cart.Repository in memory, including the
// insert-or-increment merge keyed by (cart, product).
type stubCartRepo struct {
	carts    map[string]*cart.Cart
	products map[string]decimal.Decimal // known product ids -> price
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts:    map[string]*cart.Cart{},
		products: map[string]decimal.Decimal{},
	}
}

func (s *stubCartRepo) CreateCart(ctx context.Context) (*cart.Cart, error) {
	c := &cart.Cart{ID: uuid.NewString(), Items: []cart.Item{}}
	s.carts[c.ID] = c
	return c, nil
}

func (s *stubCartRepo) GetCart(ctx context.Context, id string) (*cart.Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	cp := *c
	cp.GrandTotal = decimal.Zero
	cp.Items = append([]cart.Item(nil), c.Items...)
	for i := range cp.Items {
		it := &cp.Items[i]
		it.SubTotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		cp.GrandTotal = cp.GrandTotal.Add(it.SubTotal)
	}
	return &cp, nil
}

func (s *stubCartRepo) DeleteCart(ctx context.Context, id string) (bool, error) {
	_, ok := s.carts[id]
	delete(s.carts, id)
	return ok, nil
}

func (s *stubCartRepo) AddItem(ctx context.Context, cartID, productID string, quantity int) (*cart.Item, error) {
	c, ok := s.carts[cartID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	price, ok := s.products[productID]
	if !ok {
		return nil, cart.ErrProductNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			cp := c.Items[i]
			return &cp, nil
		}
	}
	it := cart.Item{
		ID:        uuid.NewString(),
		CartID:    cartID,
		ProductID: productID,
		UnitPrice: price,
		Quantity:  quantity,
	}
	c.Items = append(c.Items, it)
	return &it, nil
}

func (s *stubCartRepo) UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*cart.Item, error) {
	c, ok := s.carts[cartID]
	if !ok {
		return nil, cart.ErrItemNotFound
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			cp := c.Items[i]
			return &cp, nil
		}
	}
	return nil, cart.ErrItemNotFound
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, cartID, itemID string) (bool, error) {
	c, ok := s.carts[cartID]
	if !ok {
		return false, nil
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func TestAddCartItem_MergesDuplicateProduct(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	ct, _ := repo.CreateCart(context.Background())
	prodID := uuid.NewString()
	repo.products[prodID] = decimal.RequireFromString("10.00")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/carts/:id/items", addCartItemHandler(repo))
	r.GET("/carts/:id", getCartHandler(repo))

	post := func(quantity string) *httptest.ResponseRecorder {
		body := `{"product_id":"` + prodID + `","quantity":` + quantity + `}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/carts/"+ct.ID+"/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	if w := post("1"); w.Code != http.StatusCreated {
		t.Fatalf("first add status=%d body=%s", w.Code, w.Body.String())
	}
	if w := post("2"); w.Code != http.StatusCreated {
		t.Fatalf("second add status=%d body=%s", w.Code, w.Body.String())
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/carts/"+ct.ID, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart status=%d body=%s", w.Code, w.Body.String())
	}

	var got cart.Cart
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("items len=%d, want 1 merged row", len(got.Items))
	}
	if got.Items[0].Quantity != 3 {
		t.Fatalf("quantity=%d, want 3", got.Items[0].Quantity)
	}
	if !got.GrandTotal.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("grand_total=%s, want 30.00", got.GrandTotal)
	}
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	ct, _ := repo.CreateCart(context.Background())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/carts/:id/items", addCartItemHandler(repo))

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/carts/"+ct.ID+"/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestAddCartItem_RejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	ct, _ := repo.CreateCart(context.Background())
	prodID := uuid.NewString()
	repo.products[prodID] = decimal.RequireFromString("10.00")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/carts/:id/items", addCartItemHandler(repo))

	for _, q := range []string{"0", "-2"} {
		body := `{"product_id":"` + prodID + `","quantity":` + q + `}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/carts/"+ct.ID+"/items", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("quantity=%s: status=%d body=%s (want 400)", q, w.Code, w.Body.String())
		}
	}
}

func TestUpdateCartItem_ReplacesQuantity(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()
	ct, _ := repo.CreateCart(context.Background())
	prodID := uuid.NewString()
	repo.products[prodID] = decimal.RequireFromString("4.00")
	it, _ := repo.AddItem(context.Background(), ct.ID, prodID, 2)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PATCH("/carts/:id/items/:item_id", updateCartItemHandler(repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/carts/"+ct.ID+"/items/"+it.ID, bytes.NewBufferString(`{"quantity":5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got cart.Item
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Quantity != 5 {
		t.Fatalf("quantity=%d, want 5 (replace, not merge)", got.Quantity)
	}
}

func TestDeleteCart_NotFound(t *testing.T) {
	t.Parallel()

	repo := newStubCartRepo()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/carts/:id", deleteCartHandler(repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/carts/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (want 404)", w.Code, w.Body.String())
	}
}
