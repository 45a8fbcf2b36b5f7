package service

import (
	"context"

	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/repository"
)

// InterestService manages the shared interest tags.
type InterestService struct {
	interests repository.Repository[model.Interest]
}

// NewInterestService builds the service on the interest store of repos.
func NewInterestService(repos *repository.Repositories) *InterestService {
	return &InterestService{interests: repos.Interests}
}

// CreateInterest stores a new interest and returns it with its id.
//
// Any id carried by the input is discarded. A duplicate name surfaces as
// the store's unique violation, which the error handler turns into a 400
// INTEREST_ALREADY_EXISTS.
func (s *InterestService) CreateInterest(ctx context.Context, interest *model.Interest) (*model.Interest, error) {
	interest.ID = 0
	return s.interests.Save(ctx, interest)
}

// GetInterest returns the interest with the given id. A missing id is
// returned as a sqlerr.NotFoundError and rendered as a 404.
func (s *InterestService) GetInterest(ctx context.Context, id int64) (*model.Interest, error) {
	return s.interests.FindByID(ctx, id)
}

// ProductService manages the product catalog referenced by fridge items.
type ProductService struct {
	products repository.Repository[model.Product]
}

// NewProductService builds the service on the product store of repos.
func NewProductService(repos *repository.Repositories) *ProductService {
	return &ProductService{products: repos.Products}
}

// CreateProduct stores a new catalog product and returns it with its id.
// Any id carried by the input is discarded; nutrition values may be null.
func (s *ProductService) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	product.ID = 0
	return s.products.Save(ctx, product)
}

// GetProduct returns the product with the given id. A missing id is
// returned as a sqlerr.NotFoundError and rendered as a 404.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}
