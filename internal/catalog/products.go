package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const productCols = `id, name, category_id, price_cents, stock, target_gender,
	material, description, cover_image, is_deleted, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.PriceCents, &p.Stock,
		&p.TargetGender, &p.Material, &p.Description, &p.CoverImage,
		&p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts the product row plus its color/size links and image
// rows as one transaction; a bad association id fails the whole insert.
func (r *Repo) CreateProduct(ctx context.Context, in NewProduct) (*Product, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.NewString()
	row := tx.QueryRow(ctx, `
		INSERT INTO products(id, name, category_id, price_cents, stock,
			target_gender, material, description, cover_image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+productCols,
		id, in.Name, in.CategoryID, in.PriceCents, in.Stock,
		in.TargetGender, in.Material, in.Description, in.CoverImage)
	p, err := scanProduct(row)
	if err != nil {
		return nil, err
	}

	for _, colorID := range in.ColorIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_colors(product_id, color_id) VALUES ($1,$2)`,
			id, colorID); err != nil {
			return nil, err
		}
	}
	for _, sizeID := range in.SizeIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_sizes(product_id, size_id) VALUES ($1,$2)`,
			id, sizeID); err != nil {
			return nil, err
		}
	}
	for _, url := range in.ImageURLs {
		img := ProductImage{ID: uuid.NewString(), ProductID: id, URL: url}
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_images(id, product_id, url) VALUES ($1,$2,$3)`,
			img.ID, img.ProductID, img.URL); err != nil {
			return nil, err
		}
		p.Images = append(p.Images, img)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	if p.Colors, p.Sizes, err = r.associations(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1 AND NOT is_deleted`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attach(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts excludes soft-deleted rows and pages the rest.
func (r *Repo) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	f.Normalize()

	where := ` WHERE NOT is_deleted`
	args := []any{}
	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		where += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where += fmt.Sprintf(` AND category_id=$%d`, len(args))
	}
	args = append(args, f.Limit, f.Offset())
	q := fmt.Sprintf(`SELECT `+productCols+` FROM products`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.PriceCents, &p.Stock,
			&p.TargetGender, &p.Material, &p.Description, &p.CoverImage,
			&p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.attach(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, id string, u ProductUpdate) (*Product, error) {
	set := `updated_at=now()`
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		set += fmt.Sprintf(`, %s=$%d`, col, len(args))
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.CategoryID != nil {
		add("category_id", *u.CategoryID)
	}
	if u.PriceCents != nil {
		add("price_cents", *u.PriceCents)
	}
	if u.Stock != nil {
		add("stock", *u.Stock)
	}
	if u.TargetGender != nil {
		add("target_gender", *u.TargetGender)
	}
	if u.Material != nil {
		add("material", *u.Material)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}

	p, err := scanProduct(r.DB.QueryRow(ctx,
		`UPDATE products SET `+set+` WHERE id=$1 RETURNING `+productCols, args...))
	if err != nil {
		return nil, err
	}
	if err := r.attach(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SoftDeleteProduct hides the product from listings; rows referencing it
// (orders, images) stay intact.
func (r *Repo) SoftDeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE products SET is_deleted=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) attach(ctx context.Context, p *Product) error {
	var err error
	if p.Colors, p.Sizes, err = r.associations(ctx, p.ID); err != nil {
		return err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, product_id, url FROM product_images WHERE product_id=$1`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	p.Images = []ProductImage{}
	for rows.Next() {
		var img ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL); err != nil {
			return err
		}
		p.Images = append(p.Images, img)
	}
	return rows.Err()
}

func (r *Repo) associations(ctx context.Context, productID string) ([]Color, []Size, error) {
	colors := []Color{}
	rows, err := r.DB.Query(ctx, `
		SELECT c.id, c.name, c.hex FROM colors c
		JOIN product_colors pc ON pc.color_id = c.id
		WHERE pc.product_id=$1`, productID)
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var c Color
		if err := rows.Scan(&c.ID, &c.Name, &c.Hex); err != nil {
			rows.Close()
			return nil, nil, err
		}
		colors = append(colors, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	sizes := []Size{}
	rows, err = r.DB.Query(ctx, `
		SELECT s.id, s.label FROM sizes s
		JOIN product_sizes ps ON ps.size_id = s.id
		WHERE ps.product_id=$1`, productID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s Size
		if err := rows.Scan(&s.ID, &s.Label); err != nil {
			return nil, nil, err
		}
		sizes = append(sizes, s)
	}
	return colors, sizes, rows.Err()
}
