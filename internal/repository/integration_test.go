//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/pantry/internal/database"
	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("pantry"),
		postgres.WithUsername("pantry"),
		postgres.WithPassword("pantry"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.MigrateURL(ctx, &logger, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	interests := NewInterestRepository(pool)
	products := NewProductRepository(pool)

	cooking, err := interests.Save(ctx, &model.Interest{Name: "cooking"})
	require.NoError(t, err)
	milk, err := products.Save(ctx, &model.Product{Name: ptr("milk"), CaloriesPer100g: ptr(42.0)})
	require.NoError(t, err)

	t.Run("catalog lookups", func(t *testing.T) {
		found, err := interests.FindAllByID(ctx, []int64{cooking.ID, 999})
		require.NoError(t, err)
		assert.Equal(t, []model.Interest{*cooking}, found)

		_, err = products.FindByID(ctx, 999)
		var nf *sqlerr.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "products", nf.Table)
	})

	t.Run("user aggregate round trip", func(t *testing.T) {
		expires := model.NewDate(2026, time.November, 2)
		created, err := users.Save(ctx, &model.User{
			Email:     ptr("a@x.com"),
			Name:      ptr("A"),
			Interests: []model.Interest{{ID: cooking.ID}},
			Fridge: &model.Fridge{Items: []model.FridgeItem{
				{Quantity: ptr(2), ExpirationDate: &expires, Product: &model.Product{ID: milk.ID}},
				{Quantity: ptr(1)},
			}},
		})
		require.NoError(t, err)

		assert.NotZero(t, created.ID)
		assert.Equal(t, []model.Interest{*cooking}, created.Interests)
		require.NotNil(t, created.Fridge)
		assert.Equal(t, created.ID, created.Fridge.UserID)
		require.Len(t, created.Fridge.Items, 2)
		assert.Equal(t, "milk", *created.Fridge.Items[0].Product.Name)
		assert.Equal(t, expires, *created.Fridge.Items[0].ExpirationDate)
		assert.Nil(t, created.Fridge.Items[1].Product)

		loaded, err := users.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, loaded)

		// Replacing the fridge removes the previous one and its items.
		loaded.Fridge = &model.Fridge{Items: []model.FridgeItem{{Quantity: ptr(7)}}}
		loaded.Interests = nil
		replaced, err := users.Save(ctx, loaded)
		require.NoError(t, err)
		assert.NotEqual(t, created.Fridge.ID, replaced.Fridge.ID)
		assert.Empty(t, replaced.Interests)

		var fridges int
		require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM fridges`).Scan(&fridges))
		assert.Equal(t, 1, fridges)
	})

	t.Run("unknown product is a foreign key violation", func(t *testing.T) {
		_, err := users.Save(ctx, &model.User{
			Fridge: &model.Fridge{Items: []model.FridgeItem{{Product: &model.Product{ID: 999}}}},
		})
		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, sqlerr.ForeignKeyViolation, sqlerr.ConvertPgError(pgErr).Code)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := users.FindByID(ctx, 12345)
		assert.True(t, sqlerr.IsNotFound(err))

		_, err = users.Save(ctx, &model.User{ID: 12345})
		assert.True(t, sqlerr.IsNotFound(err))
	})
}
