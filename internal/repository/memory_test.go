package repository

import (
	"context"
	"testing"

	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMemoryInterestRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryInterestRepository()

	cooking, err := repo.Save(ctx, &model.Interest{Name: "cooking"})
	require.NoError(t, err)
	hiking, err := repo.Save(ctx, &model.Interest{Name: "hiking"})
	require.NoError(t, err)
	assert.NotZero(t, cooking.ID)
	assert.NotEqual(t, cooking.ID, hiking.ID)

	found, err := repo.FindAllByID(ctx, []int64{hiking.ID, 404, cooking.ID, hiking.ID})
	require.NoError(t, err)
	assert.Equal(t, []model.Interest{*cooking, *hiking}, found)

	_, err = repo.FindByID(ctx, 404)
	assert.True(t, sqlerr.IsNotFound(err))

	_, err = repo.Save(ctx, &model.Interest{ID: 404, Name: "ghost"})
	assert.True(t, sqlerr.IsNotFound(err))
}

func TestMemoryUserRepository_SaveAggregate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository(NewMemoryProductRepository())

	created, err := repo.Save(ctx, &model.User{
		Name:      ptr("A"),
		Interests: []model.Interest{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}},
		Fridge: &model.Fridge{Items: []model.FridgeItem{
			{Quantity: ptr(1)},
			{Quantity: ptr(2)},
		}},
	})
	require.NoError(t, err)

	require.NotNil(t, created.Fridge)
	assert.Equal(t, created.ID, created.Fridge.UserID)
	assert.Equal(t, []int64{1, 2}, created.InterestIDs())
	for _, item := range created.Fridge.Items {
		assert.NotZero(t, item.ID)
		assert.Equal(t, created.Fridge.ID, item.FridgeID)
	}

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	// Same fridge: the first item keeps its id, the second is dropped.
	loaded.Fridge.Items = loaded.Fridge.Items[:1]
	loaded.Fridge.Items[0].Quantity = ptr(5)
	updated, err := repo.Save(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, created.Fridge.ID, updated.Fridge.ID)
	require.Len(t, updated.Fridge.Items, 1)
	assert.Equal(t, created.Fridge.Items[0].ID, updated.Fridge.Items[0].ID)
	assert.Equal(t, 5, *updated.Fridge.Items[0].Quantity)

	// A different fridge replaces the current one.
	updated.Fridge = &model.Fridge{}
	replaced, err := repo.Save(ctx, updated)
	require.NoError(t, err)
	assert.NotEqual(t, created.Fridge.ID, replaced.Fridge.ID)
	assert.Empty(t, replaced.Fridge.Items)

	// No fridge in the payload keeps the stored one.
	replaced.Fridge = nil
	kept, err := repo.Save(ctx, replaced)
	require.NoError(t, err)
	require.NotNil(t, kept.Fridge)
}

func TestMemoryUserRepository_Isolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository(NewMemoryProductRepository())

	created, err := repo.Save(ctx, &model.User{Fridge: &model.Fridge{Items: []model.FridgeItem{{}}}})
	require.NoError(t, err)

	created.Fridge.Items[0].Quantity = ptr(99)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Fridge.Items[0].Quantity)
}

func TestNewMemoryRepositories(t *testing.T) {
	repos := NewMemoryRepositories()
	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.Interests)
	assert.NotNil(t, repos.Products)
}

func TestMemoryUserRepository_Products(t *testing.T) {
	ctx := context.Background()
	products := NewMemoryProductRepository()
	repo := NewMemoryUserRepository(products)

	milk, err := products.Save(ctx, &model.Product{Name: ptr("Milk"), CaloriesPer100g: ptr(42.0)})
	require.NoError(t, err)

	t.Run("items join the stored product", func(t *testing.T) {
		created, err := repo.Save(ctx, &model.User{Fridge: &model.Fridge{Items: []model.FridgeItem{
			{Quantity: ptr(1), Product: &model.Product{ID: milk.ID, Name: ptr("stale")}},
			{Quantity: ptr(2), Product: &model.Product{}},
		}}})
		require.NoError(t, err)

		require.Len(t, created.Fridge.Items, 2)
		assert.Equal(t, milk, created.Fridge.Items[0].Product)
		assert.Nil(t, created.Fridge.Items[1].Product)

		renamed := *milk
		renamed.Name = ptr("Oat milk")
		_, err = products.Save(ctx, &renamed)
		require.NoError(t, err)

		loaded, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Oat milk", *loaded.Fridge.Items[0].Product.Name)
	})

	t.Run("unknown product violates the foreign key", func(t *testing.T) {
		_, err := repo.Save(ctx, &model.User{Fridge: &model.Fridge{Items: []model.FridgeItem{
			{Product: &model.Product{ID: 999}},
		}}})

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, sqlerr.ForeignKeyViolation, sqlerr.ConvertPgError(pgErr).Code)
		assert.Equal(t, "fridge_items_product_id_fkey", pgErr.ConstraintName)
	})
}
