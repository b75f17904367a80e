package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/config"
	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	"github.com/dlsistemas/comisiones/internal/invoice/repository"
	"github.com/dlsistemas/comisiones/internal/sellerctx"
	settingsdomain "github.com/dlsistemas/comisiones/internal/settings/domain"
	settingsrepo "github.com/dlsistemas/comisiones/internal/settings/repository"
	settingssvc "github.com/dlsistemas/comisiones/internal/settings/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (invoicedomain.Service, settingsdomain.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceProduct{},
		&settingsdomain.Settings{},
	))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	holder := config.NewStaticCommissionConfigHolder(config.DefaultCommissionConfig())
	settings := settingssvc.New(settingssvc.Params{
		DB:     db,
		Log:    zap.NewNop(),
		Repo:   settingsrepo.Provide(),
		Holder: holder,
	})

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.Provide(),
		Settings: settings,
		Holder:   holder,
	})
	return svc, settings
}

func sellerContext(t *testing.T) context.Context {
	t.Helper()
	return sellerctx.WithSellerID(context.Background(), snowflake.ID(42))
}

func TestSaveComputesCommission(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := sellerContext(t)

	resp, err := svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000001",
		Date:        "2026-03-15",
		TotalAmount: 1000,
		Lines: []invoicedomain.LineInput{
			{ProductName: "Suplementos", Amount: 400, Percentage: 20},
		},
	})
	assert.NoError(t, err)

	assert.Equal(t, "B010000001", resp.NCF)
	assert.Equal(t, "2026-03-15", resp.Date)
	assert.Equal(t, 600.0, resp.RestAmount)
	assert.Equal(t, 150.0, resp.RestCommission)
	assert.Equal(t, 230.0, resp.TotalCommission)
	assert.Len(t, resp.Lines, 1)
	assert.Equal(t, 80.0, resp.Lines[0].Commission)
}

func TestSaveDropsZeroAmountLines(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := sellerContext(t)

	resp, err := svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000002",
		Date:        "2026-03-15",
		TotalAmount: 1000,
		Lines: []invoicedomain.LineInput{
			{ProductName: "Suplementos", Amount: 400, Percentage: 20},
			{ProductName: "Cosmeticos", Amount: 0, Percentage: 15},
		},
	})
	assert.NoError(t, err)

	assert.Len(t, resp.Lines, 1)
	assert.Equal(t, "Suplementos", resp.Lines[0].ProductName)
	assert.Equal(t, 600.0, resp.RestAmount)

	fetched, err := svc.Get(ctx, resp.ID)
	assert.NoError(t, err)
	assert.Len(t, fetched.Lines, 1)
}

func TestSaveRejectsMalformedNCF(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := sellerContext(t)

	for _, ncf := range []string{"", "B01000001", "B010000001X", "X0100000001", "B01000ABCD"} {
		_, err := svc.Save(ctx, invoicedomain.SaveRequest{
			NCF:         ncf,
			Date:        "2026-03-15",
			TotalAmount: 100,
		})
		assert.ErrorIs(t, err, invoicedomain.ErrInvalidNCF, "ncf %q", ncf)
	}
}

func TestSaveRejectsDuplicateNCF(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := sellerContext(t)

	_, err := svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000007",
		Date:        "2026-03-15",
		TotalAmount: 100,
	})
	assert.NoError(t, err)

	_, err = svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000007",
		Date:        "2026-03-16",
		TotalAmount: 200,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrDuplicateNCF)
}

func TestSaveClampsOverEntry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := sellerContext(t)

	resp, err := svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000010",
		Date:        "2026-03-15",
		TotalAmount: 500,
		Lines: []invoicedomain.LineInput{
			{ProductName: "Suplementos", Amount: 700, Percentage: 10},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, resp.RestAmount)
	assert.Equal(t, 70.0, resp.TotalCommission)
}

func TestUpdateRejectsOverEntry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := sellerContext(t)

	saved, err := svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000011",
		Date:        "2026-03-15",
		TotalAmount: 1000,
		Lines: []invoicedomain.LineInput{
			{ProductName: "Suplementos", Amount: 400, Percentage: 20},
		},
	})
	assert.NoError(t, err)

	lower := 300.0
	_, err = svc.Update(ctx, invoicedomain.UpdateRequest{
		ID:          saved.ID,
		TotalAmount: &lower,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrAmountMismatch)
}

func TestUpdateRecomputesCommission(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := sellerContext(t)

	saved, err := svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000012",
		Date:        "2026-03-15",
		TotalAmount: 1000,
		Lines: []invoicedomain.LineInput{
			{ProductName: "Suplementos", Amount: 400, Percentage: 20},
		},
	})
	assert.NoError(t, err)

	updated, err := svc.Update(ctx, invoicedomain.UpdateRequest{
		ID: saved.ID,
		Lines: []invoicedomain.LineInput{
			{ProductName: "Suplementos", Amount: 400, Percentage: 10},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 40.0, updated.Lines[0].Commission)
	assert.Equal(t, 600.0, updated.RestAmount)
	assert.Equal(t, 190.0, updated.TotalCommission)
}

func TestSaveAdvancesNCFSequence(t *testing.T) {
	svc, settings := newTestService(t)
	ctx := sellerContext(t)

	_, err := svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000041",
		Date:        "2026-03-15",
		TotalAmount: 100,
	})
	assert.NoError(t, err)

	next, err := settings.NextNCFSuffix(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "B010000042", next)
}

func TestListScopedToSeller(t *testing.T) {
	svc, _ := newTestService(t)

	ctxA := sellerctx.WithSellerID(context.Background(), snowflake.ID(1))
	ctxB := sellerctx.WithSellerID(context.Background(), snowflake.ID(2))

	_, err := svc.Save(ctxA, invoicedomain.SaveRequest{
		NCF:         "B010000001",
		Date:        "2026-03-15",
		TotalAmount: 100,
	})
	assert.NoError(t, err)

	listA, err := svc.List(ctxA, invoicedomain.ListRequest{})
	assert.NoError(t, err)
	assert.Len(t, listA.Invoices, 1)

	listB, err := svc.List(ctxB, invoicedomain.ListRequest{})
	assert.NoError(t, err)
	assert.Empty(t, listB.Invoices)
}

func TestSaveRequiresSellerContext(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Save(context.Background(), invoicedomain.SaveRequest{
		NCF:         "B010000001",
		Date:        "2026-03-15",
		TotalAmount: 100,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidSeller)
}

func TestDeleteRemovesInvoice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := sellerContext(t)

	saved, err := svc.Save(ctx, invoicedomain.SaveRequest{
		NCF:         "B010000020",
		Date:        "2026-03-15",
		TotalAmount: 100,
	})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, saved.ID))

	_, err = svc.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)
}
