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

const interestsTable = "interests"

// InterestRepository stores interests in the interests table.
type InterestRepository struct {
	pool *pgxpool.Pool
}

var _ Repository[model.Interest] = (*InterestRepository)(nil)

// NewInterestRepository builds the repository on pool.
func NewInterestRepository(pool *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{pool: pool}
}

// Save inserts interest when its id is zero and updates it otherwise.
// Updating an id that does not exist returns a sqlerr.NotFoundError.
func (r *InterestRepository) Save(ctx context.Context, interest *model.Interest) (*model.Interest, error) {
	saved := *interest

	if saved.ID == 0 {
		err := r.pool.QueryRow(ctx,
			`INSERT INTO interests (name) VALUES ($1) RETURNING id`,
			saved.Name,
		).Scan(&saved.ID)
		if err != nil {
			return nil, fmt.Errorf("insert interest: %w", err)
		}
		return &saved, nil
	}

	tag, err := r.pool.Exec(ctx, `UPDATE interests SET name = $2 WHERE id = $1`, saved.ID, saved.Name)
	if err != nil {
		return nil, fmt.Errorf("update interest %d: %w", saved.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, sqlerr.NotFound(interestsTable, saved.ID)
	}
	return &saved, nil
}

// FindByID returns the interest with id, or a sqlerr.NotFoundError.
func (r *InterestRepository) FindByID(ctx context.Context, id int64) (*model.Interest, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM interests WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query interest %d: %w", id, err)
	}

	interest, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.Interest])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NotFound(interestsTable, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan interest %d: %w", id, err)
	}
	return &interest, nil
}

// FindAllByID returns the interests whose ids are in ids, ordered by id.
// Unknown ids are skipped.
func (r *InterestRepository) FindAllByID(ctx context.Context, ids []int64) ([]model.Interest, error) {
	if len(ids) == 0 {
		return []model.Interest{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name FROM interests WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("query interests: %w", err)
	}

	interests, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Interest])
	if err != nil {
		return nil, fmt.Errorf("scan interests: %w", err)
	}
	return interests, nil
}
