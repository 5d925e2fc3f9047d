package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// PlanStore is the persistence boundary for plans. Keeping it an injected
// interface lets callers swap storage without touching plan semantics.
type PlanStore interface {
	Get(ctx context.Context, orgID, id snowflake.ID) (*Plan, error)
	Save(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, orgID, id snowflake.ID) error
	ListByStatus(ctx context.Context, orgID snowflake.ID, status PlanStatus) ([]*Plan, error)
}

type CreatePlanRequest struct {
	Name          string
	PriceCents    int64
	Currency      string
	BillingPeriod string
	PaymentType   string
	Notes         string
}

type UpdatePlanRequest struct {
	ID            string
	Name          *string
	PriceCents    *int64
	BillingPeriod *string
	PaymentType   *string
	Status        *string
	Notes         *string
}

type GetPlanRequest struct {
	ID string
}

type DeletePlanRequest struct {
	ID string
}

// ListPlanRequest filters by status; empty means every status.
type ListPlanRequest struct {
	Status string
}

type Service interface {
	Create(context.Context, CreatePlanRequest) (Plan, error)
	Update(context.Context, UpdatePlanRequest) (Plan, error)
	GetByID(context.Context, GetPlanRequest) (Plan, error)
	Delete(context.Context, DeletePlanRequest) error
	List(context.Context, ListPlanRequest) ([]Plan, error)
}

var (
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidPrice         = errors.New("invalid_price")
	ErrInvalidBillingPeriod = errors.New("invalid_billing_period")
	ErrInvalidPaymentType   = errors.New("invalid_payment_type")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
)
