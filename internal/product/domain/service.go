package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/pulse/pkg/db/pagination"
)

type ListProductRequest struct {
	PageToken   string
	PageSize    int32
	Name        string
	PaymentType string
	ActiveOnly  bool
}

type ListProductFilter struct {
	Name        string
	PaymentType PaymentType
	ActiveOnly  bool
}

type ListProductResponse struct {
	pagination.PageInfo
	Products []Product `json:"products"`
}

type CreateProductRequest struct {
	Name          string
	Description   string
	PriceCents    int64
	Currency      string
	BillingPeriod string
	PaymentType   string
}

type UpdateProductRequest struct {
	ID            string
	Name          *string
	Description   *string
	PriceCents    *int64
	BillingPeriod *string
	PaymentType   *string
	Active        *bool
}

type GetProductRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateProductRequest) (Product, error)
	List(context.Context, ListProductRequest) (ListProductResponse, error)
	GetByID(context.Context, GetProductRequest) (Product, error)
	Update(context.Context, UpdateProductRequest) (Product, error)
}

var (
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidPrice         = errors.New("invalid_price")
	ErrInvalidBillingPeriod = errors.New("invalid_billing_period")
	ErrInvalidPaymentType   = errors.New("invalid_payment_type")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
)
