package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/pantry/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestNotFound(t *testing.T) {
	err := fmt.Errorf("load user: %w", NotFound("users", 42))

	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "users", nf.Table)
	assert.EqualValues(t, 42, nf.ID)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "http error passes through",
			err:        errs.NewForbiddenError("nope", true),
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
			wantMsg:    "nope",
		},
		{
			name:       "not found by id",
			err:        NotFound("products", 7),
			wantStatus: http.StatusNotFound,
			wantCode:   "PRODUCT_NOT_FOUND",
			wantMsg:    "Product not found with ID: 7",
		},
		{
			name:       "bare no rows",
			err:        pgx.ErrNoRows,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Resource not found",
		},
		{
			name: "foreign key violation",
			err: &pgconn.PgError{
				Code:           "23503",
				TableName:      "fridge_items",
				ConstraintName: "fridge_items_product_id_fkey",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "PRODUCT_NOT_FOUND",
			wantMsg:    "The referenced product does not exist",
		},
		{
			name: "unique violation",
			err: &pgconn.PgError{
				Code:           "23505",
				TableName:      "interests",
				ConstraintName: "interests_name_key",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INTEREST_ALREADY_EXISTS",
			wantMsg:    "A interest with this name already exists",
		},
		{
			name: "not null violation",
			err: &pgconn.PgError{
				Code:       "23502",
				TableName:  "fridge_items",
				ColumnName: "fridge_id",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "FRIDGE_ITEM_REQUIRED",
			wantMsg:    "The Fridge Id is required",
		},
		{
			name:       "unknown postgres error",
			err:        &pgconn.PgError{Code: "XX000"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "unrelated error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *errs.HTTPError
			require.ErrorAs(t, HandleError(tt.err), &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, httpErr.Message)
			}
		})
	}
}
