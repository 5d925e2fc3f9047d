package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/smallbiznis/pulse/pkg/db/option"
	"github.com/smallbiznis/pulse/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).
		Preload("Product").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListClientFilter, page pagination.Pagination) ([]*domain.Client, error) {
	var clients []*domain.Client
	stmt := db.WithContext(ctx).
		Model(&domain.Client{}).
		Preload("Product").
		Where("org_id = ?", orgID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Save(client).Error
}

func (r *repo) InsertAddon(ctx context.Context, db *gorm.DB, addon *domain.ClientAddon) error {
	return db.WithContext(ctx).Create(addon).Error
}

func (r *repo) FindAddonByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.ClientAddon, error) {
	var addon domain.ClientAddon
	err := db.WithContext(ctx).
		Preload("Product").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&addon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &addon, nil
}

func (r *repo) ListAddons(ctx context.Context, db *gorm.DB, orgID snowflake.ID, clientID snowflake.ID) ([]*domain.ClientAddon, error) {
	var addons []*domain.ClientAddon
	stmt := db.WithContext(ctx).
		Model(&domain.ClientAddon{}).
		Preload("Product").
		Where("org_id = ?", orgID)
	if clientID != 0 {
		stmt = stmt.Where("client_id = ?", clientID)
	}
	err := stmt.
		Order("start_date asc, id asc").
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	return addons, nil
}

func (r *repo) UpdateAddon(ctx context.Context, db *gorm.DB, addon *domain.ClientAddon) error {
	return db.WithContext(ctx).Save(addon).Error
}
