// Package repository persists the pantry entities in PostgreSQL.
//
// Every store implements Repository[T]. The pgx implementations are used
// by the server, the Memory* ones by tests that do not need a database.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository is the storage contract shared by all entities.
//
// Save inserts when the id is zero and updates otherwise, returning the
// stored entity with its identity. FindByID returns a *sqlerr.NotFoundError
// when the id does not exist. FindAllByID skips ids that do not exist.
type Repository[T any] interface {
	Save(ctx context.Context, entity *T) (*T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	FindAllByID(ctx context.Context, ids []int64) ([]T, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// nullableID maps the zero id onto SQL NULL.
func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
