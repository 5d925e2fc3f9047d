package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/smallbiznis/pulse/internal/clock"
	"github.com/smallbiznis/pulse/internal/orgcontext"
	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
	"github.com/smallbiznis/pulse/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Products productdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	products productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("client.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		products: p.Products,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Client{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}

	var productID *snowflake.ID
	if raw := strings.TrimSpace(req.ProductID); raw != "" {
		id, err := s.resolveProduct(ctx, orgID, raw)
		if err != nil {
			return domain.Client{}, err
		}
		productID = &id
	}

	startDate := s.clock.Now().Truncate(24 * time.Hour)
	if req.StartDate != nil {
		startDate = req.StartDate.UTC()
	}

	now := s.clock.Now()
	client := domain.Client{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Status:    domain.ClientActive,
		ProductID: productID,
		StartDate: startDate,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return domain.Client{}, err
	}

	return client, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (domain.ListClientResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListClientResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListClientFilter{Name: strings.TrimSpace(req.Name)}
	if status := strings.TrimSpace(req.Status); status != "" {
		typed := domain.ClientStatus(status)
		if typed != domain.ClientActive && typed != domain.ClientChurned {
			return domain.ListClientResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = typed
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListClientResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(client *domain.Client) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        client.ID.String(),
			CreatedAt: client.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		clients = append(clients, *item)
	}

	resp := domain.ListClientResponse{Clients: clients}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetClientRequest) (domain.Client, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Client{}, domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClientRequest) (domain.Client, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Client{}, domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Client{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Email != nil {
		item.Email = strings.TrimSpace(*req.Email)
	}
	if req.ProductID != nil {
		if raw := strings.TrimSpace(*req.ProductID); raw == "" {
			item.ProductID = nil
			item.Product = nil
		} else {
			productID, err := s.resolveProduct(ctx, orgID, raw)
			if err != nil {
				return domain.Client{}, err
			}
			item.ProductID = &productID
			item.Product = nil
		}
	}
	if req.StartDate != nil {
		item.StartDate = req.StartDate.UTC()
	}

	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Client{}, err
	}

	return *item, nil
}

func (s *Service) Churn(ctx context.Context, req domain.ChurnClientRequest) (domain.Client, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Client{}, domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	if item.Status == domain.ClientChurned {
		return domain.Client{}, domain.ErrAlreadyChurned
	}

	churnDate := s.clock.Now().Truncate(24 * time.Hour)
	if req.ChurnDate != nil {
		churnDate = req.ChurnDate.UTC()
	}
	if churnDate.Before(item.StartDate) {
		return domain.Client{}, domain.ErrInvalidChurnDate
	}

	item.Status = domain.ClientChurned
	item.ChurnDate = &churnDate
	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Client{}, err
	}

	s.log.Info("client churned",
		zap.String("client_id", item.ID.String()),
		zap.Time("churn_date", churnDate),
	)
	return *item, nil
}

func (s *Service) Reactivate(ctx context.Context, req domain.ReactivateClientRequest) (domain.Client, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Client{}, domain.ErrInvalidOrganization
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	if item.Status != domain.ClientChurned {
		return domain.Client{}, domain.ErrNotChurned
	}

	item.Status = domain.ClientActive
	item.ChurnDate = nil
	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Client{}, err
	}

	return *item, nil
}

func (s *Service) AddAddon(ctx context.Context, req domain.AddAddonRequest) (domain.ClientAddon, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ClientAddon{}, domain.ErrInvalidOrganization
	}

	clientID, err := parseID(req.ClientID)
	if err != nil {
		return domain.ClientAddon{}, err
	}
	client, err := s.repo.FindByID(ctx, s.db, orgID, clientID)
	if err != nil {
		return domain.ClientAddon{}, err
	}
	if client == nil {
		return domain.ClientAddon{}, domain.ErrNotFound
	}

	productID, err := s.resolveProduct(ctx, orgID, req.ProductID)
	if err != nil {
		return domain.ClientAddon{}, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return domain.ClientAddon{}, domain.ErrInvalidQuantity
	}

	startDate := s.clock.Now().Truncate(24 * time.Hour)
	if req.StartDate != nil {
		startDate = req.StartDate.UTC()
	}

	now := s.clock.Now()
	addon := domain.ClientAddon{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		ClientID:  clientID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    domain.AddonActive,
		StartDate: startDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertAddon(ctx, s.db, &addon); err != nil {
		return domain.ClientAddon{}, err
	}

	return addon, nil
}

func (s *Service) ListAddons(ctx context.Context, req domain.ListAddonsRequest) ([]domain.ClientAddon, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	clientID, err := parseID(req.ClientID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListAddons(ctx, s.db, orgID, clientID)
	if err != nil {
		return nil, err
	}

	addons := make([]domain.ClientAddon, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		addons = append(addons, *item)
	}
	return addons, nil
}

func (s *Service) CancelAddon(ctx context.Context, req domain.CancelAddonRequest) (domain.ClientAddon, error) {
	addon, err := s.findAddon(ctx, req.ClientID, req.AddonID)
	if err != nil {
		return domain.ClientAddon{}, err
	}
	if addon.Status == domain.AddonCancelled {
		return domain.ClientAddon{}, domain.ErrAddonCancelled
	}

	endDate := s.clock.Now().Truncate(24 * time.Hour)
	if req.EndDate != nil {
		endDate = req.EndDate.UTC()
	}

	addon.Status = domain.AddonCancelled
	addon.EndDate = &endDate
	addon.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateAddon(ctx, s.db, addon); err != nil {
		return domain.ClientAddon{}, err
	}

	return *addon, nil
}

func (s *Service) ReactivateAddon(ctx context.Context, req domain.ReactivateAddonRequest) (domain.ClientAddon, error) {
	addon, err := s.findAddon(ctx, req.ClientID, req.AddonID)
	if err != nil {
		return domain.ClientAddon{}, err
	}
	if addon.Status != domain.AddonCancelled {
		return domain.ClientAddon{}, domain.ErrAddonNotCancelled
	}

	addon.Status = domain.AddonActive
	addon.EndDate = nil
	addon.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateAddon(ctx, s.db, addon); err != nil {
		return domain.ClientAddon{}, err
	}

	return *addon, nil
}

func (s *Service) findAddon(ctx context.Context, clientID, addonID string) (*domain.ClientAddon, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	cid, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	aid, err := parseID(addonID)
	if err != nil {
		return nil, err
	}

	addon, err := s.repo.FindAddonByID(ctx, s.db, orgID, aid)
	if err != nil {
		return nil, err
	}
	if addon == nil || addon.ClientID != cid {
		return nil, domain.ErrAddonNotFound
	}
	return addon, nil
}

func (s *Service) resolveProduct(ctx context.Context, orgID snowflake.ID, raw string) (snowflake.ID, error) {
	id, err := parseID(raw)
	if err != nil {
		return 0, domain.ErrInvalidProduct
	}
	product, err := s.products.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrInvalidProduct
	}
	return id, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
