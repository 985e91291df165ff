// Package order implements the cart -> order commitment flow and the payment
// state transition.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrCartNotFound      = errors.New("cart not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("confirmed orders cannot go back to pending")
)

type Repository interface {
	Create(ctx context.Context, cartID, ownerID string) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ConfirmPayment(ctx context.Context, id string) (*Order, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct {
	db          *pgxpool.Pool
	deliveryFee decimal.Decimal
}

func NewPGRepo(db *pgxpool.Pool, deliveryFee decimal.Decimal) *PGRepo {
	return &PGRepo{db: db, deliveryFee: deliveryFee}
}

// Create commits the cart in a single transaction: the order row, one order
// item per cart item, and the cart deletion are all-or-nothing. The cart
// items are locked first so a concurrent add cannot slip between the read
// and the copy.
func (r *PGRepo) Create(ctx context.Context, cartID, ownerID string) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the cart row itself: a concurrent AddItem holds a KEY SHARE on it
	// through the FK, so it either lands before the item read below or waits
	// until the cart is gone.
	var one int
	if err := tx.QueryRow(ctx, `SELECT 1 FROM carts WHERE id=$1 FOR UPDATE`, cartID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT product_id, quantity FROM cartitems
		WHERE cart_id = $1
		ORDER BY created_at
		FOR UPDATE
	`, cartID)
	if err != nil {
		return nil, err
	}
	type line struct {
		productID string
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	orderID := uuid.NewString()
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, owner_id, pending_status, placed_at)
		VALUES ($1,$2,$3,NOW())
	`, orderID, ownerID, StatusPending); err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, quantity)
			VALUES ($1,$2,$3,$4)
		`, uuid.NewString(), orderID, l.productID, l.quantity)
	}
	br := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return nil, err
		}
	}
	if err := br.Close(); err != nil {
		return nil, err
	}

	// The source cart is consumed by the commitment; items cascade.
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id=$1`, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	if err := r.db.QueryRow(ctx, `
		SELECT id, owner_id, pending_status, placed_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.OwnerID, &o.PendingStatus, &o.PlacedAt); err != nil {
		return nil, ErrNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, p.price::text, oi.quantity
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Subtotal = decimal.Zero
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &price, &it.Quantity); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		it.UnitPrice = d
		o.Subtotal = o.Subtotal.Add(d.Mul(decimal.NewFromInt(int64(it.Quantity))))
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	o.DeliveryPrice = r.deliveryFee
	o.TotalPrice = o.Subtotal.Add(o.DeliveryPrice)
	return &o, nil
}

const listCols = `
	o.id, o.owner_id, o.pending_status, o.placed_at,
	(SELECT COALESCE(SUM(oi.quantity * p.price), 0)
	 FROM order_items oi JOIN products p ON p.id = oi.product_id
	 WHERE oi.order_id = o.id)::text AS subtotal`

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit, offset = clampPage(limit, offset)
	rows, err := r.db.Query(ctx, `
		SELECT `+listCols+`
		FROM orders o WHERE o.owner_id=$1
		ORDER BY o.placed_at DESC LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PGRepo) ListAll(ctx context.Context, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit, offset = clampPage(limit, offset)
	rows, err := r.db.Query(ctx, `
		SELECT `+listCols+`
		FROM orders o
		ORDER BY o.placed_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PGRepo) collect(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		var o Order
		var sub string
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.PendingStatus, &o.PlacedAt, &sub); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(sub)
		if err != nil {
			return nil, fmt.Errorf("parse subtotal: %w", err)
		}
		o.Subtotal = d
		o.DeliveryPrice = r.deliveryFee
		o.TotalPrice = d.Add(r.deliveryFee)
		out = append(out, o)
	}
	return out, rows.Err()
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET pending_status = $2
		WHERE id = $1 AND NOT (pending_status = 'C' AND $2 = 'P')
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrInvalidTransition
		}
		return ErrNotFound
	}
	return nil
}

// ConfirmPayment marks the order paid. Confirming an already-confirmed order
// is a no-op success.
func (r *PGRepo) ConfirmPayment(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE orders SET pending_status = 'C' WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
