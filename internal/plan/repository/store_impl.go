package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pulse/internal/plan/domain"
	"github.com/smallbiznis/pulse/pkg/db/option"
	"github.com/smallbiznis/pulse/pkg/repository"
	"gorm.io/gorm"
)

type store struct {
	db      *gorm.DB
	records repository.Repository[domain.Plan]
}

func Provide(db *gorm.DB) domain.PlanStore {
	return &store{
		db:      db,
		records: repository.ProvideStore[domain.Plan](db),
	}
}

func (s *store) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Plan, error) {
	return s.records.FindOne(ctx, &domain.Plan{ID: id, OrgID: orgID})
}

func (s *store) Save(ctx context.Context, plan *domain.Plan) error {
	return s.db.WithContext(ctx).Save(plan).Error
}

func (s *store) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	plan, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if plan == nil {
		return domain.ErrNotFound
	}
	return s.records.Delete(ctx, id.String())
}

func (s *store) ListByStatus(ctx context.Context, orgID snowflake.ID, status domain.PlanStatus) ([]*domain.Plan, error) {
	query := &domain.Plan{OrgID: orgID}
	if status != "" {
		query.Status = status
	}
	return s.records.Find(ctx, query, option.WithOrderBy("created_at desc, id desc"))
}
