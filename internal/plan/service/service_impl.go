package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pulse/internal/clock"
	"github.com/smallbiznis/pulse/internal/orgcontext"
	"github.com/smallbiznis/pulse/internal/plan/domain"
	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Store domain.PlanStore
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	store domain.PlanStore
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		clock: p.Clock,
		store: p.Store,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.Plan, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Plan{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Plan{}, domain.ErrInvalidName
	}
	if req.PriceCents < 0 {
		return domain.Plan{}, domain.ErrInvalidPrice
	}

	billingPeriod := productdomain.BillingPeriod(strings.TrimSpace(req.BillingPeriod))
	if billingPeriod == "" {
		billingPeriod = productdomain.BillingMonthly
	}
	if !productdomain.ValidBillingPeriod(billingPeriod) {
		return domain.Plan{}, domain.ErrInvalidBillingPeriod
	}

	paymentType := productdomain.PaymentType(strings.TrimSpace(req.PaymentType))
	if paymentType == "" {
		paymentType = productdomain.PaymentRecurring
	}
	if !productdomain.ValidPaymentType(paymentType) {
		return domain.Plan{}, domain.ErrInvalidPaymentType
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := s.clock.Now()
	plan := domain.Plan{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		Name:          name,
		PriceCents:    req.PriceCents,
		Currency:      currency,
		BillingPeriod: billingPeriod,
		PaymentType:   paymentType,
		Status:        domain.PlanDraft,
		Notes:         strings.TrimSpace(req.Notes),
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Save(ctx, &plan); err != nil {
		return domain.Plan{}, err
	}

	return plan, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePlanRequest) (domain.Plan, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Plan{}, domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Plan{}, err
	}

	plan, err := s.store.Get(ctx, orgID, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if plan == nil {
		return domain.Plan{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Plan{}, domain.ErrInvalidName
		}
		plan.Name = name
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return domain.Plan{}, domain.ErrInvalidPrice
		}
		plan.PriceCents = *req.PriceCents
	}
	if req.BillingPeriod != nil {
		billingPeriod := productdomain.BillingPeriod(strings.TrimSpace(*req.BillingPeriod))
		if !productdomain.ValidBillingPeriod(billingPeriod) {
			return domain.Plan{}, domain.ErrInvalidBillingPeriod
		}
		plan.BillingPeriod = billingPeriod
	}
	if req.PaymentType != nil {
		paymentType := productdomain.PaymentType(strings.TrimSpace(*req.PaymentType))
		if !productdomain.ValidPaymentType(paymentType) {
			return domain.Plan{}, domain.ErrInvalidPaymentType
		}
		plan.PaymentType = paymentType
	}
	if req.Status != nil {
		status := domain.PlanStatus(strings.TrimSpace(*req.Status))
		if !domain.ValidPlanStatus(status) {
			return domain.Plan{}, domain.ErrInvalidStatus
		}
		plan.Status = status
	}
	if req.Notes != nil {
		plan.Notes = strings.TrimSpace(*req.Notes)
	}

	plan.UpdatedAt = s.clock.Now()
	if err := s.store.Save(ctx, plan); err != nil {
		return domain.Plan{}, err
	}

	return *plan, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPlanRequest) (domain.Plan, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Plan{}, domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Plan{}, err
	}

	plan, err := s.store.Get(ctx, orgID, id)
	if err != nil {
		return domain.Plan{}, err
	}
	if plan == nil {
		return domain.Plan{}, domain.ErrNotFound
	}

	return *plan, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeletePlanRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return err
	}

	return s.store.Delete(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, req domain.ListPlanRequest) ([]domain.Plan, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	var status domain.PlanStatus
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.PlanStatus(raw)
		if !domain.ValidPlanStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
	}

	items, err := s.store.ListByStatus(ctx, orgID, status)
	if err != nil {
		return nil, err
	}

	plans := make([]domain.Plan, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		plans = append(plans, *item)
	}
	return plans, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
