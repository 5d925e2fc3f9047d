package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pulse/internal/clock"
	"github.com/smallbiznis/pulse/internal/orgcontext"
	"github.com/smallbiznis/pulse/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("transaction.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTransactionRequest) (domain.Transaction, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Transaction{}, domain.ErrInvalidOrganization
	}

	transactionType := domain.TransactionType(strings.TrimSpace(req.Type))
	if transactionType == "" {
		if req.AmountCents < 0 {
			transactionType = domain.TypeExpense
		} else {
			transactionType = domain.TypeRevenue
		}
	}
	if !domain.ValidType(transactionType) {
		return domain.Transaction{}, domain.ErrInvalidType
	}
	if req.AmountCents == 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = domain.CategoryOther
	}

	occurredAt := s.clock.Now()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	now := s.clock.Now()
	transaction := domain.Transaction{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Type:        transactionType,
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		AmountCents: req.AmountCents,
		IsCAC:       req.IsCAC,
		OccurredAt:  occurredAt,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &transaction); err != nil {
		return domain.Transaction{}, err
	}

	return transaction, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTransactionRequest) ([]domain.Transaction, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	filter := domain.ListTransactionFilter{
		IsCAC: req.IsCAC,
		From:  req.From,
		To:    req.To,
	}
	if transactionType := strings.TrimSpace(req.Type); transactionType != "" {
		typed := domain.TransactionType(transactionType)
		if !domain.ValidType(typed) {
			return nil, domain.ErrInvalidType
		}
		filter.Type = typed
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter)
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		transactions = append(transactions, *item)
	}
	return transactions, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteTransactionRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, orgID, id)
}

func (s *Service) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.ListExpenses(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	expenses := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}
	return expenses, nil
}
