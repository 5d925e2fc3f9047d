package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListTransactionFilter struct {
	Type    TransactionType
	IsCAC   *bool
	From    *time.Time
	To      *time.Time
	Maximum int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, transaction *Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Transaction, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListTransactionFilter) ([]*Transaction, error)
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error

	ListExpenses(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*Expense, error)
}
