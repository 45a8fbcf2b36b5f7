package handler

import (
	"github.com/deppfellow/pantry/internal/server"
	"github.com/deppfellow/pantry/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Users     *UserHandler
	Interests *InterestHandler
	Products  *ProductHandler
}

// NewHandlers builds every handler from the server and its services.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Users:     NewUserHandler(s, services.Users),
		Interests: NewInterestHandler(s, services.Interests),
		Products:  NewProductHandler(s, services.Products),
	}
}
