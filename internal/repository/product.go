package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	productsTable  = "products"
	productColumns = `id, name, calories_per_100g, protein_per_100g, fat_per_100g, carbs_per_100g`
)

// ProductRepository stores the product catalog in the products table.
type ProductRepository struct {
	pool *pgxpool.Pool
}

var _ Repository[model.Product] = (*ProductRepository)(nil)

// NewProductRepository builds the repository on pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Save inserts product when its id is zero and updates it otherwise.
// Updating an id that does not exist returns a sqlerr.NotFoundError.
func (r *ProductRepository) Save(ctx context.Context, product *model.Product) (*model.Product, error) {
	saved := *product
	args := []any{saved.Name, saved.CaloriesPer100g, saved.ProteinPer100g, saved.FatPer100g, saved.CarbsPer100g}

	if saved.ID == 0 {
		err := r.pool.QueryRow(ctx, `
			INSERT INTO products (name, calories_per_100g, protein_per_100g, fat_per_100g, carbs_per_100g)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			args...,
		).Scan(&saved.ID)
		if err != nil {
			return nil, fmt.Errorf("insert product: %w", err)
		}
		return &saved, nil
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $1, calories_per_100g = $2, protein_per_100g = $3, fat_per_100g = $4, carbs_per_100g = $5
		WHERE id = $6`,
		append(args, saved.ID)...,
	)
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", saved.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, sqlerr.NotFound(productsTable, saved.ID)
	}
	return &saved, nil
}

// FindByID returns the product with id, or a sqlerr.NotFoundError.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query product %d: %w", id, err)
	}

	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.Product])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NotFound(productsTable, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan product %d: %w", id, err)
	}
	return &product, nil
}

// FindAllByID returns the products whose ids are in ids. Unknown ids are skipped.
func (r *ProductRepository) FindAllByID(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Product])
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	return products, nil
}
