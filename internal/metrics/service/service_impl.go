package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pulse/internal/cache"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/smallbiznis/pulse/internal/clock"
	"github.com/smallbiznis/pulse/internal/config"
	"github.com/smallbiznis/pulse/internal/metrics/domain"
	"github.com/smallbiznis/pulse/internal/metrics/engine"
	obsmetrics "github.com/smallbiznis/pulse/internal/observability/metrics"
	"github.com/smallbiznis/pulse/internal/orgcontext"
	transactiondomain "github.com/smallbiznis/pulse/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Assumptions *config.AssumptionsHolder
	Cache       *cache.Cache        `optional:"true"`
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

// Service derives every dashboard figure from a per-organization snapshot of
// the raw records. It holds no derived state of its own; the redis cache is
// the only memoization layer.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	assumptions *config.AssumptionsHolder
	cache       *cache.Cache
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("metrics.service"),
		clock:       p.Clock,
		assumptions: p.Assumptions,
		cache:       p.Cache,
		metrics:     p.Metrics,
	}
}

func (s *Service) GetOverview(ctx context.Context, req domain.OverviewRequest) (domain.Bundle, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Bundle{}, domain.ErrInvalidOrganization
	}

	now := s.clock.Now()
	end := endOfDay(now)
	if req.End != nil {
		end = endOfDay(req.End.UTC())
	}
	start := startOfDay(end.AddDate(0, 0, -29))
	if req.Start != nil {
		start = startOfDay(req.Start.UTC())
	}
	if start.After(end) {
		return domain.Bundle{}, domain.ErrInvalidRange
	}

	key := fmt.Sprintf("pulse:metrics:%s:overview:%s:%s",
		orgID.String(), start.Format("2006-01-02"), end.Format("2006-01-02"))
	var cached domain.Bundle
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		s.metrics.RecordCacheHit(ctx, orgID.String())
		return cached, nil
	}
	s.metrics.RecordCacheMiss(ctx, orgID.String())

	snap, err := s.loadSnapshot(ctx, orgID)
	if err != nil {
		return domain.Bundle{}, err
	}

	bundle := engine.ComputePeriod(snap, engine.Period{Start: start, End: end}, s.engineAssumptions())
	s.cache.SetJSON(ctx, key, bundle)

	s.log.Debug("overview computed",
		zap.String("org_id", orgID.String()),
		zap.Time("start", start),
		zap.Time("end", end),
	)
	return bundle, nil
}

func (s *Service) GetMRR(ctx context.Context, req domain.MRRRequest) (domain.MRRSnapshot, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.MRRSnapshot{}, domain.ErrInvalidOrganization
	}

	at := s.clock.Now()
	if req.At != nil {
		at = req.At.UTC()
	}

	clients, addons, err := s.loadClients(ctx, orgID)
	if err != nil {
		return domain.MRRSnapshot{}, err
	}

	return engine.SnapshotMRR(clients, addons, at), nil
}

func (s *Service) GetMRRHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.MRRPoint, error) {
	orgID, start, end, err := s.historyRange(ctx, req)
	if err != nil {
		return nil, err
	}

	clients, addons, err := s.loadClients(ctx, orgID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSeriesBuilt(ctx, "mrr")
	return engine.MRRHistory(clients, addons, start, end), nil
}

func (s *Service) GetChurnHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.ChurnPoint, error) {
	orgID, start, end, err := s.historyRange(ctx, req)
	if err != nil {
		return nil, err
	}

	clients, _, err := s.loadClients(ctx, orgID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSeriesBuilt(ctx, "churn")
	return engine.ChurnHistory(clients, start, end), nil
}

func (s *Service) GetRevenueHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.RevenuePoint, error) {
	orgID, start, end, err := s.historyRange(ctx, req)
	if err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, orgID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSeriesBuilt(ctx, "revenue")
	return engine.RevenueHistory(snap, start, end), nil
}

func (s *Service) RankClientsByLTV(ctx context.Context, req domain.RankRequest) ([]domain.RankedClient, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	var status clientdomain.ClientStatus
	switch req.Status {
	case "":
	case string(clientdomain.ClientActive), string(clientdomain.ClientChurned):
		status = clientdomain.ClientStatus(req.Status)
	default:
		return nil, domain.ErrInvalidStatus
	}

	sortBy := req.SortBy
	switch sortBy {
	case "":
		sortBy = domain.SortByLTV
	case domain.SortByLTV, domain.SortByTenure:
	default:
		return nil, domain.ErrInvalidSort
	}

	clients, addons, err := s.loadClients(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return engine.RankClients(clients, addons, s.clock.Now(), status, sortBy), nil
}

// historyRange resolves a chart range: explicit bounds win, otherwise the
// series trails the configured number of months up to now. A start past the
// end is not an error; the engine emits an empty series for it.
func (s *Service) historyRange(ctx context.Context, req domain.HistoryRequest) (snowflake.ID, time.Time, time.Time, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return 0, time.Time{}, time.Time{}, domain.ErrInvalidOrganization
	}

	now := s.clock.Now()
	end := endOfDay(now)
	if req.End != nil {
		end = endOfDay(req.End.UTC())
	}

	months := s.assumptions.Get().HistoryMonths
	if months <= 0 {
		months = config.DefaultAssumptions().HistoryMonths
	}
	start := startOfDay(end.AddDate(0, -(months - 1), 0))
	if req.Start != nil {
		start = startOfDay(req.Start.UTC())
	}

	return orgID, start, end, nil
}

func (s *Service) engineAssumptions() engine.Assumptions {
	return engine.Assumptions{LifetimeCapMonths: s.assumptions.Get().LifetimeCapMonths}
}

// loadSnapshot reads all four record collections for the organization in one
// pass. Products come preloaded so the engine never touches the database.
func (s *Service) loadSnapshot(ctx context.Context, orgID snowflake.ID) (engine.Snapshot, error) {
	clients, addons, err := s.loadClients(ctx, orgID)
	if err != nil {
		return engine.Snapshot{}, err
	}

	var transactions []transactiondomain.Transaction
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Find(&transactions).Error; err != nil {
		return engine.Snapshot{}, err
	}

	var expenses []transactiondomain.Expense
	if err := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Find(&expenses).Error; err != nil {
		return engine.Snapshot{}, err
	}

	s.metrics.RecordSnapshotLoaded(ctx, orgID.String())
	return engine.Snapshot{
		Clients:      clients,
		Addons:       addons,
		Transactions: transactions,
		Expenses:     expenses,
	}, nil
}

func (s *Service) loadClients(ctx context.Context, orgID snowflake.ID) ([]clientdomain.Client, []clientdomain.ClientAddon, error) {
	var clients []clientdomain.Client
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Where("org_id = ?", orgID).
		Find(&clients).Error; err != nil {
		return nil, nil, err
	}

	var addons []clientdomain.ClientAddon
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Where("org_id = ?", orgID).
		Find(&addons).Error; err != nil {
		return nil, nil, err
	}

	return clients, addons, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
