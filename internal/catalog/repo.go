package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repo struct{ DB *pgxpool.Pool }

// ---- categories ----

func (r *Repo) CreateCategory(ctx context.Context, name, image string) (*Category, error) {
	c := Category{ID: uuid.NewString(), Name: name, Image: image}
	_, err := r.DB.Exec(ctx, `INSERT INTO categories(id, name, image) VALUES ($1,$2,$3)`,
		c.ID, c.Name, c.Image)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) UpdateCategory(ctx context.Context, id, name, image string) (*Category, error) {
	q := `UPDATE categories SET name=$2 WHERE id=$1 RETURNING id, name, image`
	args := []any{id, name}
	if image != "" {
		q = `UPDATE categories SET name=$2, image=$3 WHERE id=$1 RETURNING id, name, image`
		args = append(args, image)
	}
	var c Category
	err := r.DB.QueryRow(ctx, q, args...).Scan(&c.ID, &c.Name, &c.Image)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context, id, name string) ([]Category, error) {
	q := `SELECT id, name, image FROM categories`
	args := []any{}
	switch {
	case id != "":
		q += ` WHERE id=$1`
		args = append(args, id)
	case name != "":
		q += ` WHERE name ILIKE $1`
		args = append(args, "%"+name+"%")
	}
	rows, err := r.DB.Query(ctx, q+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Image); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- colors ----

func (r *Repo) CreateColor(ctx context.Context, name, hex string) (*Color, error) {
	c := Color{ID: uuid.NewString(), Name: name, Hex: hex}
	_, err := r.DB.Exec(ctx, `INSERT INTO colors(id, name, hex) VALUES ($1,$2,$3)`,
		c.ID, c.Name, c.Hex)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) UpdateColor(ctx context.Context, id, name, hex string) (*Color, error) {
	var c Color
	err := r.DB.QueryRow(ctx,
		`UPDATE colors SET name=$2, hex=$3 WHERE id=$1 RETURNING id, name, hex`,
		id, name, hex).Scan(&c.ID, &c.Name, &c.Hex)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListColors(ctx context.Context, id, name string) ([]Color, error) {
	q := `SELECT id, name, hex FROM colors`
	args := []any{}
	switch {
	case id != "":
		q += ` WHERE id=$1`
		args = append(args, id)
	case name != "":
		q += ` WHERE name ILIKE $1`
		args = append(args, "%"+name+"%")
	}
	rows, err := r.DB.Query(ctx, q+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Color{}
	for rows.Next() {
		var c Color
		if err := rows.Scan(&c.ID, &c.Name, &c.Hex); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteColor(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM colors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- sizes ----

func (r *Repo) CreateSize(ctx context.Context, label string) (*Size, error) {
	s := Size{ID: uuid.NewString(), Label: label}
	_, err := r.DB.Exec(ctx, `INSERT INTO sizes(id, label) VALUES ($1,$2)`, s.ID, s.Label)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) UpdateSize(ctx context.Context, id, label string) (*Size, error) {
	var s Size
	err := r.DB.QueryRow(ctx,
		`UPDATE sizes SET label=$2 WHERE id=$1 RETURNING id, label`,
		id, label).Scan(&s.ID, &s.Label)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) ListSizes(ctx context.Context, id, label string) ([]Size, error) {
	q := `SELECT id, label FROM sizes`
	args := []any{}
	switch {
	case id != "":
		q += ` WHERE id=$1`
		args = append(args, id)
	case label != "":
		q += ` WHERE label ILIKE $1`
		args = append(args, "%"+label+"%")
	}
	rows, err := r.DB.Query(ctx, q+` ORDER BY label`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Size{}
	for rows.Next() {
		var s Size
		if err := rows.Scan(&s.ID, &s.Label); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteSize(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM sizes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
