package migration

import (
	"github.com/dlsistemas/comisiones/internal/config"
	"github.com/dlsistemas/comisiones/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, holder *config.CommissionConfigHolder) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		return seed.EnsureDefaults(conn, holder.Get())
	}),
)
