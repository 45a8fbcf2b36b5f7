package handler

import (
	"github.com/deppfellow/pantry/internal/model"
	"github.com/deppfellow/pantry/internal/validation"
)

// EmptyRequest is bound by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

// IDRequest carries the :id path parameter.
type IDRequest struct {
	ID int64 `param:"id" json:"-" validate:"gt=0"`
}

func (r *IDRequest) Validate() error { return validation.Struct(r) }

// UserRequest is a user payload. Fields are not validated beyond decoding.
type UserRequest struct {
	model.User
}

func (r *UserRequest) Validate() error { return nil }

// UpdateUserRequest is a user payload addressed by the :id path parameter.
type UpdateUserRequest struct {
	UserID int64 `param:"id" json:"-" validate:"gt=0"`
	model.User
}

func (r *UpdateUserRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return nil
}

// InterestRequest is an interest payload.
type InterestRequest struct {
	model.Interest
}

func (r *InterestRequest) Validate() error { return nil }

// ProductRequest is a product payload.
type ProductRequest struct {
	model.Product
}

func (r *ProductRequest) Validate() error { return nil }
