package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed Store. It holds the shared pool injected at
// startup and opens a transaction only inside PlaceOrder.
type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

const orderCols = `id, user_id, product_id, qty, total_cents, address, phone,
	COALESCE(color_id, ''), COALESCE(size_id, ''), status, created_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Qty, &o.TotalCents,
		&o.Address, &o.Phone, &o.ColorID, &o.SizeID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// PlaceOrder locks the product row, re-checks every precondition that
// depends on current state, then inserts the order and debits stock before
// committing. The row lock serializes concurrent placements against the
// same product, so the stock check holds at commit time.
func (r *Repo) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var priceCents, stock int
	err = tx.QueryRow(ctx,
		`SELECT price_cents, stock FROM products WHERE id=$1 AND NOT is_deleted FOR UPDATE`,
		in.ProductID).Scan(&priceCents, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.ColorID != "" {
		var ok bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM product_colors WHERE product_id=$1 AND color_id=$2)`,
			in.ProductID, in.ColorID).Scan(&ok); err != nil {
			return nil, err
		}
		if !ok {
			return nil, validation("selection not available for this product")
		}
	}
	if in.SizeID != "" {
		var ok bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM product_sizes WHERE product_id=$1 AND size_id=$2)`,
			in.ProductID, in.SizeID).Scan(&ok); err != nil {
			return nil, err
		}
		if !ok {
			return nil, validation("selection not available for this product")
		}
	}

	if stock < in.Qty {
		return nil, ErrInsufficientStock
	}

	o := Order{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		ProductID:  in.ProductID,
		Qty:        in.Qty,
		TotalCents: priceCents * in.Qty,
		Address:    in.Address,
		Phone:      in.Phone,
		ColorID:    in.ColorID,
		SizeID:     in.SizeID,
		Status:     StatusPending,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, product_id, qty, total_cents, address, phone, color_id, size_id, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		o.ID, o.UserID, o.ProductID, o.Qty, o.TotalCents, o.Address, o.Phone,
		nullable(o.ColorID), nullable(o.SizeID), o.Status).Scan(&o.CreatedAt)
	if err != nil {
		return nil, err
	}

	ct, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - $2 WHERE id=$1`, in.ProductID, in.Qty)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() != 1 {
		return nil, ErrProductNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (*Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
}

func (r *Repo) ListOrders(ctx context.Context, f ListFilter) ([]Order, error) {
	f.Normalize()

	where := ``
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if f.UserID != "" {
		add(`user_id=$%d`, f.UserID)
	}
	if f.ProductID != "" {
		add(`product_id=$%d`, f.ProductID)
	}
	if f.Status != "" {
		add(`status=$%d`, f.Status)
	}
	args = append(args, f.Limit, f.Offset())
	q := fmt.Sprintf(`SELECT `+orderCols+` FROM orders`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Qty, &o.TotalCents,
			&o.Address, &o.Phone, &o.ColorID, &o.SizeID, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`UPDATE orders SET status=$2 WHERE id=$1 RETURNING `+orderCols, id, status))
}

// DeleteOrder removes the row. Decremented stock is not restored; see the
// service-level notes.
func (r *Repo) DeleteOrder(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
