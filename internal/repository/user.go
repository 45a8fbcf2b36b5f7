package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usersTable = "users"

// UserRepository stores the user aggregate: the users row, its
// user_interest links, and the owned fridge with its items.
type UserRepository struct {
	pool *pgxpool.Pool
}

var _ Repository[model.User] = (*UserRepository)(nil)

// NewUserRepository builds the repository on pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Save writes the whole aggregate in one transaction and returns it as
// stored, with products joined onto the fridge items.
//
// The interest links are replaced by user.Interests. A fridge whose id is
// the user's current fridge is updated in place; any other fridge replaces
// the current one, which is deleted along with its items. A nil fridge
// leaves the stored one untouched.
func (r *UserRepository) Save(ctx context.Context, user *model.User) (*model.User, error) {
	var saved *model.User

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		id, err := saveUserRow(ctx, tx, user)
		if err != nil {
			return err
		}

		if err := replaceInterests(ctx, tx, id, user.InterestIDs()); err != nil {
			return err
		}

		if user.Fridge != nil {
			if err := saveFridge(ctx, tx, id, user.Fridge); err != nil {
				return err
			}
		}

		saved, err = loadUser(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// FindByID loads the user with its interests, fridge, items and the
// product of each item. A missing user is a sqlerr.NotFoundError.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return loadUser(ctx, r.pool, id)
}

// FindAllByID loads every user in ids. Unknown ids are skipped.
func (r *UserRepository) FindAllByID(ctx context.Context, ids []int64) ([]model.User, error) {
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		user, err := loadUser(ctx, r.pool, id)
		if sqlerr.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func saveUserRow(ctx context.Context, q querier, user *model.User) (int64, error) {
	args := []any{user.Email, user.Password, user.Name, user.Weight, user.Height, user.Gender}

	if user.ID == 0 {
		var id int64
		err := q.QueryRow(ctx, `
			INSERT INTO users (email, password, name, weight, height, gender)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			args...,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert user: %w", err)
		}
		return id, nil
	}

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET email = $1, password = $2, name = $3, weight = $4, height = $5, gender = $6
		WHERE id = $7`,
		append(args, user.ID)...,
	)
	if err != nil {
		return 0, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, sqlerr.NotFound(usersTable, user.ID)
	}
	return user.ID, nil
}

func replaceInterests(ctx context.Context, tx pgx.Tx, userID int64, interestIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_interest WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear interests of user %d: %w", userID, err)
	}

	if len(interestIDs) == 0 {
		return nil
	}

	rows := make([][]any, len(interestIDs))
	for i, interestID := range interestIDs {
		rows[i] = []any{userID, interestID}
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"user_interest"},
		[]string{"user_id", "interest_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("link interests of user %d: %w", userID, err)
	}
	return nil
}

func saveFridge(ctx context.Context, q querier, userID int64, fridge *model.Fridge) error {
	var currentID int64
	err := q.QueryRow(ctx, `SELECT id FROM fridges WHERE user_id = $1`, userID).Scan(&currentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("query fridge of user %d: %w", userID, err)
	}

	if currentID != 0 && fridge.ID == currentID {
		return saveFridgeItems(ctx, q, currentID, fridge.Items)
	}

	if currentID != 0 {
		if _, err := q.Exec(ctx, `DELETE FROM fridges WHERE id = $1`, currentID); err != nil {
			return fmt.Errorf("delete fridge %d: %w", currentID, err)
		}
	}

	var fridgeID int64
	if err := q.QueryRow(ctx, `INSERT INTO fridges (user_id) VALUES ($1) RETURNING id`, userID).Scan(&fridgeID); err != nil {
		return fmt.Errorf("insert fridge for user %d: %w", userID, err)
	}

	fresh := make([]model.FridgeItem, len(fridge.Items))
	for i, item := range fridge.Items {
		item.ID = 0
		fresh[i] = item
	}
	return saveFridgeItems(ctx, q, fridgeID, fresh)
}

// saveFridgeItems makes the stored items of fridgeID match items. Items
// whose id already belongs to the fridge are updated, the rest inserted,
// and stored items missing from items are deleted.
func saveFridgeItems(ctx context.Context, q querier, fridgeID int64, items []model.FridgeItem) error {
	kept := make([]int64, 0, len(items))

	for _, item := range items {
		args := []any{fridgeID, nullableID(item.ProductID()), item.Quantity, model.PgDate(item.ExpirationDate)}

		if item.ID != 0 {
			tag, err := q.Exec(ctx, `
				UPDATE fridge_items
				SET product_id = $2, quantity = $3, expiration_date = $4
				WHERE fridge_id = $1 AND id = $5`,
				append(args, item.ID)...,
			)
			if err != nil {
				return fmt.Errorf("update fridge item %d: %w", item.ID, err)
			}
			if tag.RowsAffected() == 1 {
				kept = append(kept, item.ID)
				continue
			}
		}

		var id int64
		err := q.QueryRow(ctx, `
			INSERT INTO fridge_items (fridge_id, product_id, quantity, expiration_date)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			args...,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert fridge item: %w", err)
		}
		kept = append(kept, id)
	}

	_, err := q.Exec(ctx, `DELETE FROM fridge_items WHERE fridge_id = $1 AND NOT (id = ANY($2))`, fridgeID, kept)
	if err != nil {
		return fmt.Errorf("prune items of fridge %d: %w", fridgeID, err)
	}
	return nil
}

func loadUser(ctx context.Context, q querier, id int64) (*model.User, error) {
	user := &model.User{}
	err := q.QueryRow(ctx,
		`SELECT id, email, password, name, weight, height, gender FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.Weight, &user.Height, &user.Gender)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NotFound(usersTable, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}

	rows, err := q.Query(ctx, `
		SELECT i.id, i.name
		FROM interests i
		JOIN user_interest ui ON ui.interest_id = i.id
		WHERE ui.user_id = $1
		ORDER BY i.id`, id)
	if err != nil {
		return nil, fmt.Errorf("query interests of user %d: %w", id, err)
	}
	user.Interests, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.Interest])
	if err != nil {
		return nil, fmt.Errorf("scan interests of user %d: %w", id, err)
	}

	user.Fridge, err = loadFridge(ctx, q, id)
	if err != nil {
		return nil, err
	}

	user.Normalize()
	return user, nil
}

func loadFridge(ctx context.Context, q querier, userID int64) (*model.Fridge, error) {
	fridge := &model.Fridge{UserID: userID}
	err := q.QueryRow(ctx, `SELECT id FROM fridges WHERE user_id = $1`, userID).Scan(&fridge.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fridge of user %d: %w", userID, err)
	}

	rows, err := q.Query(ctx, `
		SELECT fi.id, fi.quantity, fi.expiration_date,
		       p.id, p.name, p.calories_per_100g, p.protein_per_100g, p.fat_per_100g, p.carbs_per_100g
		FROM fridge_items fi
		LEFT JOIN products p ON p.id = fi.product_id
		WHERE fi.fridge_id = $1
		ORDER BY fi.id`, fridge.ID)
	if err != nil {
		return nil, fmt.Errorf("query items of fridge %d: %w", fridge.ID, err)
	}

	fridge.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.FridgeItem, error) {
		item := model.FridgeItem{FridgeID: fridge.ID}
		var (
			expiration pgtype.Date
			productID  *int64
			product    model.Product
		)
		err := row.Scan(&item.ID, &item.Quantity, &expiration,
			&productID, &product.Name, &product.CaloriesPer100g, &product.ProteinPer100g, &product.FatPer100g, &product.CarbsPer100g)
		if err != nil {
			return item, err
		}

		item.ExpirationDate = model.DateFromPg(expiration)
		if productID != nil {
			product.ID = *productID
			item.Product = &product
		}
		return item, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan items of fridge %d: %w", fridge.ID, err)
	}

	return fridge, nil
}
