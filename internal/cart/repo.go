// Package cart implements the cart store: anonymous carts with
// insert-or-increment item semantics keyed by (cart, product).
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
)

type Repository interface {
	CreateCart(ctx context.Context) (*Cart, error)
	GetCart(ctx context.Context, id string) (*Cart, error)
	DeleteCart(ctx context.Context, id string) (bool, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*Item, error)
	UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*Item, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) CreateCart(ctx context.Context) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := &Cart{ID: uuid.NewString(), Items: []Item{}, GrandTotal: decimal.Zero}
	if err := r.db.QueryRow(ctx, `
		INSERT INTO carts (id, created_at) VALUES ($1, NOW())
		RETURNING created_at
	`, c.ID).Scan(&c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PGRepo) GetCart(ctx context.Context, id string) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Cart
	if err := r.db.QueryRow(ctx, `SELECT id, created_at FROM carts WHERE id=$1`, id).
		Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, ErrNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.price::text, ci.quantity
		FROM cartitems ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.Items = []Item{}
	c.GrandTotal = decimal.Zero
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &price, &it.Quantity); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		it.UnitPrice = d
		it.SubTotal = d.Mul(decimal.NewFromInt(int64(it.Quantity)))
		c.GrandTotal = c.GrandTotal.Add(it.SubTotal)
		c.Items = append(c.Items, it)
	}
	return &c, rows.Err()
}

func (r *PGRepo) DeleteCart(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// AddItem inserts a cart item, or increments the quantity when the cart
// already holds the product. The UNIQUE (cart_id, product_id) constraint plus
// ON CONFLICT make the merge a single atomic statement, so two concurrent
// adds cannot produce duplicate rows.
func (r *PGRepo) AddItem(ctx context.Context, cartID, productID string, quantity int) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	it := &Item{CartID: cartID, ProductID: productID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO cartitems (id, cart_id, product_id, quantity, created_at)
		VALUES ($1,$2,$3,$4,NOW())
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cartitems.quantity + EXCLUDED.quantity
		RETURNING id, quantity
	`, uuid.NewString(), cartID, productID, quantity).Scan(&it.ID, &it.Quantity)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			if pgErr.ConstraintName == "cartitems_cart_id_fkey" {
				return nil, ErrNotFound
			}
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return r.fillItem(ctx, it)
}

func (r *PGRepo) UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	it := &Item{ID: itemID, CartID: cartID}
	err := r.db.QueryRow(ctx, `
		UPDATE cartitems SET quantity = $3
		WHERE id = $1 AND cart_id = $2
		RETURNING product_id, quantity
	`, itemID, cartID, quantity).Scan(&it.ProductID, &it.Quantity)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return r.fillItem(ctx, it)
}

func (r *PGRepo) RemoveItem(ctx context.Context, cartID, itemID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM cartitems WHERE id=$1 AND cart_id=$2`, itemID, cartID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) fillItem(ctx context.Context, it *Item) (*Item, error) {
	var price string
	if err := r.db.QueryRow(ctx, `SELECT name, price::text FROM products WHERE id=$1`, it.ProductID).
		Scan(&it.ProductName, &price); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	it.UnitPrice = d
	it.SubTotal = d.Mul(decimal.NewFromInt(int64(it.Quantity)))
	return it, nil
}
