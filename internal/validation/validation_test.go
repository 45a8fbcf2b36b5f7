package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/pantry/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type getRequest struct {
	ID   int64  `param:"id" validate:"gt=0"`
	Name string `json:"name" validate:"omitempty,max=5"`
}

func (r *getRequest) Validate() error { return Struct(r) }

type customRequest struct{}

func (customRequest) Validate() error {
	return CustomValidationErrors{{Field: "fridge", Message: "must not be empty"}}
}

func newContext(method, target, body string, params ...string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return c
}

func TestBindAndValidate_OK(t *testing.T) {
	req := &getRequest{}
	c := newContext(http.MethodPost, "/things/4", `{"name":"abc"}`, "id", "4")

	require.NoError(t, BindAndValidate(c, req))
	assert.EqualValues(t, 4, req.ID)
	assert.Equal(t, "abc", req.Name)
}

func TestBindAndValidate_BindError(t *testing.T) {
	tests := []struct {
		name string
		c    echo.Context
	}{
		{name: "non numeric id", c: newContext(http.MethodGet, "/things/abc", "", "id", "abc")},
		{name: "malformed json", c: newContext(http.MethodPost, "/things/1", `{"name":`, "id", "1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BindAndValidate(tt.c, &getRequest{})

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		})
	}
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodPost, "/things/0", `{"name":"too long"}`, "id", "0"), &getRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "id", Error: "must be greater than 0"},
		{Field: "name", Error: "must not exceed 5 characters"},
	}, httpErr.Errors)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodGet, "/", ""), &customRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "fridge", Error: "must not be empty"}}, httpErr.Errors)
}
