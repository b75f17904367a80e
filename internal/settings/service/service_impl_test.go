package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/dlsistemas/comisiones/internal/config"
	settingsdomain "github.com/dlsistemas/comisiones/internal/settings/domain"
	"github.com/dlsistemas/comisiones/internal/settings/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (settingsdomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&settingsdomain.Settings{}))

	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		Repo:   repository.Provide(),
		Holder: config.NewStaticCommissionConfigHolder(config.DefaultCommissionConfig()),
	})
	return svc, db
}

func TestGetReturnsDefaultsWhenEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 25.0, resp.RestPercentage)
	assert.Equal(t, int64(0), resp.LastNCFNumber)
	assert.Equal(t, "B010000001", resp.NextNCF)
	assert.Nil(t, resp.ActiveSellerID)
}

func TestSetRestPercentage(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.SetRestPercentage(context.Background(), 30)
	assert.NoError(t, err)
	assert.Equal(t, 30.0, resp.RestPercentage)

	resp, err = svc.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 30.0, resp.RestPercentage)
}

func TestSetRestPercentageRejectsOutOfRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetRestPercentage(context.Background(), 120)
	assert.ErrorIs(t, err, settingsdomain.ErrInvalidPercentage)

	_, err = svc.SetRestPercentage(context.Background(), -1)
	assert.ErrorIs(t, err, settingsdomain.ErrInvalidPercentage)
}

func TestNextNCFSuffixZeroPadded(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.AdvanceNCF(ctx, 41))

	next, err := svc.NextNCFSuffix(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "B010000042", next)
}

func TestAdvanceNCFNeverDecrements(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.AdvanceNCF(ctx, 100))
	assert.NoError(t, svc.AdvanceNCF(ctx, 7))

	resp, err := svc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), resp.LastNCFNumber)
}

func TestAdvanceNCFIgnoresNegative(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.AdvanceNCF(ctx, -5))

	resp, err := svc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), resp.LastNCFNumber)
}

func TestSetActiveSeller(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := "123456789"
	resp, err := svc.SetActiveSeller(ctx, &id)
	assert.NoError(t, err)
	assert.NotNil(t, resp.ActiveSellerID)
	assert.Equal(t, id, *resp.ActiveSellerID)

	resp, err = svc.SetActiveSeller(ctx, nil)
	assert.NoError(t, err)
	assert.Nil(t, resp.ActiveSellerID)
}
