package migration

import (
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/smallbiznis/pulse/internal/config"
	organizationdomain "github.com/smallbiznis/pulse/internal/organization/domain"
	plandomain "github.com/smallbiznis/pulse/internal/plan/domain"
	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
	"github.com/smallbiznis/pulse/internal/seed"
	transactiondomain "github.com/smallbiznis/pulse/internal/transaction/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite are development targets; the versioned
			// migrations are written for postgres.
			if err := conn.AutoMigrate(
				&organizationdomain.Organization{},
				&productdomain.Product{},
				&clientdomain.Client{},
				&clientdomain.ClientAddon{},
				&transactiondomain.Transaction{},
				&transactiondomain.Expense{},
				&plandomain.Plan{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaultOrg(conn, cfg.DefaultOrgID)
	}),
)
