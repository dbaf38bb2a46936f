package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/shoply/internal/model"
)

// ProductRepo is the MySQL-backed product catalog.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,name,description,price,category,stock,image_url,created_by,created_at,updated_at"

// Create inserts a product and returns its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, description, price, category, stock, image_url, created_by) VALUES (?,?,?,?,?,?,?)",
		p.Name, p.Description, p.Price, p.Category, p.Stock, p.ImageURL, p.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns products newest first, optionally filtered by a substring
// match on name or category.
func (r *ProductRepo) List(ctx context.Context, search string) ([]model.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	var args []any
	if search != "" {
		query += " WHERE name LIKE ? OR category LIKE ?"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update rewrites a product row; ErrNotFound when the id does not exist.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?, description=?, price=?, category=?, stock=?, image_url=? WHERE id=?",
		p.Name, p.Description, p.Price, p.Category, p.Stock, p.ImageURL, p.ID)
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows both for a missing id and for a no-op
	// update, so check existence explicitly only when nothing changed.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product row.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(s scanner) (*model.Product, error) {
	var (
		p        model.Product
		desc     sql.NullString
		imageURL sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Category, &p.Stock,
		&imageURL, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return &p, nil
}
