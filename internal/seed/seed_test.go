package seed

import (
	"fmt"
	"testing"

	"github.com/dlsistemas/comisiones/internal/config"
	productdomain "github.com/dlsistemas/comisiones/internal/product/domain"
	settingsdomain "github.com/dlsistemas/comisiones/internal/settings/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&settingsdomain.Settings{}, &productdomain.Product{}))
	return db
}

func TestEnsureDefaultsSeedsOnce(t *testing.T) {
	db := newTestDB(t)
	cfg := config.DefaultCommissionConfig()

	assert.NoError(t, EnsureDefaults(db, cfg))
	assert.NoError(t, EnsureDefaults(db, cfg))

	var settings settingsdomain.Settings
	assert.NoError(t, db.First(&settings, "id = ?", settingsdomain.SettingsRowID).Error)
	assert.Equal(t, 25.0, settings.RestPercentage)
	assert.Equal(t, int64(0), settings.LastNCFNumber)

	var products []productdomain.Product
	assert.NoError(t, db.Find(&products).Error)
	assert.Len(t, products, 3)
	for _, p := range products {
		assert.True(t, p.IsDefault)
	}
}

func TestEnsureDefaultsKeepsExistingSettings(t *testing.T) {
	db := newTestDB(t)
	cfg := config.DefaultCommissionConfig()

	assert.NoError(t, db.Create(&settingsdomain.Settings{
		ID:             settingsdomain.SettingsRowID,
		RestPercentage: 30,
		LastNCFNumber:  12,
	}).Error)

	assert.NoError(t, EnsureDefaults(db, cfg))

	var settings settingsdomain.Settings
	assert.NoError(t, db.First(&settings, "id = ?", settingsdomain.SettingsRowID).Error)
	assert.Equal(t, 30.0, settings.RestPercentage)
	assert.Equal(t, int64(12), settings.LastNCFNumber)
}
