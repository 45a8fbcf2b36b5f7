package handler

import (
	"github.com/deppfellow/pantry/internal/errs"
	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/server"
	"github.com/deppfellow/pantry/internal/service"
	"github.com/labstack/echo/v4"
)

// UserHandler serves the /users endpoints.
type UserHandler struct {
	Handler
	users *service.UserService
}

// NewUserHandler wires the user endpoints to the user service.
func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// Test handles POST /users/test with a fixed text body, for checking that
// POST requests reach the service.
func (h *UserHandler) Test(c echo.Context, _ *EmptyRequest) (string, error) {
	return "POST works!", nil
}

// CreateUser handles POST /users/create.
//
// The body is a full user. Interests are matched by id against existing
// records, the fridge is linked to the new user, and the stored user is
// returned with 200. Unknown product ids on fridge items fail with 400
// PRODUCT_NOT_FOUND.
func (h *UserHandler) CreateUser(c echo.Context, req *UserRequest) (*model.User, error) {
	return h.users.CreateUser(c.Request().Context(), &req.User)
}

// UpdateUser handles PUT /users/update/:id.
//
// Keys present in the body overwrite the stored profile, an explicit null
// included; missing keys keep their value. A non-empty interest list
// replaces the stored one and a fridge replaces the stored fridge. An
// unknown id is a 404 USER_NOT_FOUND.
func (h *UserHandler) UpdateUser(c echo.Context, req *UpdateUserRequest) (*model.User, error) {
	return h.users.UpdateUser(c.Request().Context(), req.UserID, &req.User)
}

// GetUser handles GET /users/get/:id and returns the user with its
// interests, fridge and joined products, or 404 USER_NOT_FOUND.
func (h *UserHandler) GetUser(c echo.Context, req *IDRequest) (*model.User, error) {
	user, found, err := h.users.GetUser(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NotFoundf("USER_NOT_FOUND", "User not found with ID: %d", req.ID)
	}
	return user, nil
}
