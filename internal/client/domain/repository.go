package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pulse/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListClientFilter, page pagination.Pagination) ([]*Client, error)
	Update(ctx context.Context, db *gorm.DB, client *Client) error

	InsertAddon(ctx context.Context, db *gorm.DB, addon *ClientAddon) error
	FindAddonByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*ClientAddon, error)
	ListAddons(ctx context.Context, db *gorm.DB, orgID snowflake.ID, clientID snowflake.ID) ([]*ClientAddon, error)
	UpdateAddon(ctx context.Context, db *gorm.DB, addon *ClientAddon) error
}
