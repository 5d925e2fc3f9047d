package domain

import (
	"context"
	"errors"
	"time"
)

type CreateTransactionRequest struct {
	Type        string
	Category    string
	Description string
	AmountCents int64
	IsCAC       bool
	OccurredAt  *time.Time
}

type ListTransactionRequest struct {
	Type  string
	IsCAC *bool
	From  *time.Time
	To    *time.Time
}

type DeleteTransactionRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateTransactionRequest) (Transaction, error)
	List(context.Context, ListTransactionRequest) ([]Transaction, error)
	Delete(context.Context, DeleteTransactionRequest) error
	ListExpenses(context.Context) ([]Expense, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidType         = errors.New("invalid_type")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
