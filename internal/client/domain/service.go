package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/pulse/pkg/db/pagination"
)

type ListClientRequest struct {
	PageToken string
	PageSize  int32
	Status    string
	Name      string
}

type ListClientFilter struct {
	Status ClientStatus
	Name   string
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type CreateClientRequest struct {
	Name      string
	Email     string
	ProductID string
	StartDate *time.Time
}

type UpdateClientRequest struct {
	ID        string
	Name      *string
	Email     *string
	ProductID *string
	StartDate *time.Time
}

type GetClientRequest struct {
	ID string
}

// ChurnClientRequest marks a client churned. ChurnDate defaults to today and
// becomes the first day of inactivity.
type ChurnClientRequest struct {
	ID        string
	ChurnDate *time.Time
}

// ReactivateClientRequest flips a churned client back to active. The engine
// treats the result as a fresh active client with no memory of the prior
// churn.
type ReactivateClientRequest struct {
	ID string
}

type AddAddonRequest struct {
	ClientID  string
	ProductID string
	Quantity  int
	StartDate *time.Time
}

type ListAddonsRequest struct {
	ClientID string
}

type CancelAddonRequest struct {
	ClientID string
	AddonID  string
	EndDate  *time.Time
}

type ReactivateAddonRequest struct {
	ClientID string
	AddonID  string
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	List(context.Context, ListClientRequest) (ListClientResponse, error)
	GetByID(context.Context, GetClientRequest) (Client, error)
	Update(context.Context, UpdateClientRequest) (Client, error)
	Churn(context.Context, ChurnClientRequest) (Client, error)
	Reactivate(context.Context, ReactivateClientRequest) (Client, error)

	AddAddon(context.Context, AddAddonRequest) (ClientAddon, error)
	ListAddons(context.Context, ListAddonsRequest) ([]ClientAddon, error)
	CancelAddon(context.Context, CancelAddonRequest) (ClientAddon, error)
	ReactivateAddon(context.Context, ReactivateAddonRequest) (ClientAddon, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidStartDate    = errors.New("invalid_start_date")
	ErrInvalidChurnDate    = errors.New("invalid_churn_date")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidProduct      = errors.New("invalid_product")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyChurned      = errors.New("already_churned")
	ErrNotChurned          = errors.New("not_churned")
	ErrAddonNotFound       = errors.New("addon_not_found")
	ErrAddonNotCancelled   = errors.New("addon_not_cancelled")
	ErrAddonCancelled      = errors.New("addon_cancelled")
)
