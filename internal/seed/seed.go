package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/config"
	productdomain "github.com/dlsistemas/comisiones/internal/product/domain"
	settingsdomain "github.com/dlsistemas/comisiones/internal/settings/domain"
	"gorm.io/gorm"
)

var defaultProducts = []struct {
	Name       string
	Percentage float64
	Color      string
}{
	{Name: "Suplementos", Percentage: 20, Color: "#2563eb"},
	{Name: "Cosméticos", Percentage: 15, Color: "#db2777"},
	{Name: "Medicamentos", Percentage: 10, Color: "#16a34a"},
}

// EnsureDefaults seeds the singleton settings row and the built-in product
// catalog on first boot. Existing data is left alone.
func EnsureDefaults(db *gorm.DB, cfg config.CommissionConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSettingsTx(tx, cfg); err != nil {
			return err
		}
		return ensureDefaultProductsTx(tx, node)
	})
}

func ensureSettingsTx(tx *gorm.DB, cfg config.CommissionConfig) error {
	var count int64
	if err := tx.Model(&settingsdomain.Settings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return tx.Create(&settingsdomain.Settings{
		ID:             settingsdomain.SettingsRowID,
		RestPercentage: cfg.DefaultRestPercentage,
		LastNCFNumber:  0,
		UpdatedAt:      time.Now().UTC(),
	}).Error
}

func ensureDefaultProductsTx(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&productdomain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, p := range defaultProducts {
		err := tx.Create(&productdomain.Product{
			ID:         node.Generate().Int64(),
			Name:       p.Name,
			Percentage: p.Percentage,
			Color:      p.Color,
			IsDefault:  true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
