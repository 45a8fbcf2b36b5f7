package handler

import (
	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/server"
	"github.com/deppfellow/pantry/internal/service"
	"github.com/labstack/echo/v4"
)

// InterestHandler serves the /interests endpoints.
type InterestHandler struct {
	Handler
	interests *service.InterestService
}

// NewInterestHandler wires the interest endpoints to the interest service.
func NewInterestHandler(s *server.Server, interests *service.InterestService) *InterestHandler {
	return &InterestHandler{
		Handler:   NewHandler(s),
		interests: interests,
	}
}

// CreateInterest handles POST /interests/create.
func (h *InterestHandler) CreateInterest(c echo.Context, req *InterestRequest) (*model.Interest, error) {
	return h.interests.CreateInterest(c.Request().Context(), &req.Interest)
}

// GetInterest handles GET /interests/get/:id; an unknown id is a 404 INTEREST_NOT_FOUND.
func (h *InterestHandler) GetInterest(c echo.Context, req *IDRequest) (*model.Interest, error) {
	return h.interests.GetInterest(c.Request().Context(), req.ID)
}

// ProductHandler serves the /products endpoints.
type ProductHandler struct {
	Handler
	products *service.ProductService
}

// NewProductHandler wires the product endpoints to the product service.
func NewProductHandler(s *server.Server, products *service.ProductService) *ProductHandler {
	return &ProductHandler{
		Handler:  NewHandler(s),
		products: products,
	}
}

// CreateProduct handles POST /products/create.
func (h *ProductHandler) CreateProduct(c echo.Context, req *ProductRequest) (*model.Product, error) {
	return h.products.CreateProduct(c.Request().Context(), &req.Product)
}

// GetProduct handles GET /products/get/:id; an unknown id is a 404 PRODUCT_NOT_FOUND.
func (h *ProductHandler) GetProduct(c echo.Context, req *IDRequest) (*model.Product, error) {
	return h.products.GetProduct(c.Request().Context(), req.ID)
}
