package repository

import (
	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/server"
)

// Repositories groups the stores handed to the service layer.
type Repositories struct {
	Users     Repository[model.User]
	Interests Repository[model.Interest]
	Products  Repository[model.Product]
}

// NewRepositories builds the PostgreSQL backed stores on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(s.DB.Pool),
		Interests: NewInterestRepository(s.DB.Pool),
		Products:  NewProductRepository(s.DB.Pool),
	}
}

// NewMemoryRepositories builds in-memory stores. The user store joins
// fridge item products from the product store it is built with.
func NewMemoryRepositories() *Repositories {
	products := NewMemoryProductRepository()

	return &Repositories{
		Users:     NewMemoryUserRepository(products),
		Interests: NewMemoryInterestRepository(),
		Products:  products,
	}
}
