package domain

import (
	"context"
	"errors"
	"time"
)

type OverviewRequest struct {
	Start *time.Time
	End   *time.Time
}

type MRRRequest struct {
	At *time.Time
}

type HistoryRequest struct {
	Start *time.Time
	End   *time.Time
}

const (
	SortByLTV    = "ltv"
	SortByTenure = "tenure"
)

type RankRequest struct {
	Status string // "", "active" or "churned"
	SortBy string // "ltv" (default) or "tenure"
}

type Service interface {
	GetOverview(context.Context, OverviewRequest) (Bundle, error)
	GetMRR(context.Context, MRRRequest) (MRRSnapshot, error)
	GetMRRHistory(context.Context, HistoryRequest) ([]MRRPoint, error)
	GetChurnHistory(context.Context, HistoryRequest) ([]ChurnPoint, error)
	GetRevenueHistory(context.Context, HistoryRequest) ([]RevenuePoint, error)
	RankClientsByLTV(context.Context, RankRequest) ([]RankedClient, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidRange        = errors.New("invalid_range")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidSort         = errors.New("invalid_sort")
)
