package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/clock"
	"github.com/dlsistemas/comisiones/internal/config"
	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	invoicerepo "github.com/dlsistemas/comisiones/internal/invoice/repository"
	invoicesvc "github.com/dlsistemas/comisiones/internal/invoice/service"
	productdomain "github.com/dlsistemas/comisiones/internal/product/domain"
	reportdomain "github.com/dlsistemas/comisiones/internal/report/domain"
	"github.com/dlsistemas/comisiones/internal/report/repository"
	"github.com/dlsistemas/comisiones/internal/sellerctx"
	settingsdomain "github.com/dlsistemas/comisiones/internal/settings/domain"
	settingsrepo "github.com/dlsistemas/comisiones/internal/settings/repository"
	settingssvc "github.com/dlsistemas/comisiones/internal/settings/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	invoices invoicedomain.Service
	reports  reportdomain.Service
	clock    *clock.FakeClock
	db       *gorm.DB
}

func newFixture(t *testing.T, updater invoicedomain.Updater) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceProduct{},
		&productdomain.Product{},
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
	invoices := invoicesvc.New(invoicesvc.Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     invoicerepo.Provide(),
		Settings: settings,
		Holder:   holder,
	})

	if updater == nil {
		updater = invoices
	}

	fake := clock.NewFakeClock(time.Date(2026, time.August, 28, 12, 0, 0, 0, time.Local))
	reports := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    repository.Provide(),
		Updater: updater,
		Holder:  holder,
		Clock:   fake,
	})

	return &fixture{invoices: invoices, reports: reports, clock: fake, db: db}
}

func sellerContext() context.Context {
	return sellerctx.WithSellerID(context.Background(), snowflake.ID(7))
}

func (f *fixture) save(t *testing.T, ctx context.Context, ncf, date string, total float64, lines ...invoicedomain.LineInput) *invoicedomain.Response {
	t.Helper()
	resp, err := f.invoices.Save(ctx, invoicedomain.SaveRequest{
		NCF:         ncf,
		Date:        date,
		TotalAmount: total,
		Lines:       lines,
	})
	assert.NoError(t, err)
	return resp
}

func TestBreakdownBuckets(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	f.save(t, ctx, "B010000001", "2026-03-10", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20})
	f.save(t, ctx, "B010000002", "2026-03-20", 500,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 100, Percentage: 15},
		invoicedomain.LineInput{ProductName: "Equipos", Amount: 300, Percentage: 10})

	report, err := f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{From: "2026-03-01", To: "2026-03-31"})
	assert.NoError(t, err)

	assert.Equal(t, 2, report.InvoiceCount)
	assert.Equal(t, 1500.0, report.TotalSales)

	assert.Len(t, report.Buckets, 2)
	assert.Equal(t, "Suplementos", report.Buckets[0].ProductName)
	assert.Equal(t, 500.0, report.Buckets[0].TotalAmount)
	assert.Equal(t, 95.0, report.Buckets[0].TotalCommission)
	// percentage follows the most recent entry
	assert.Equal(t, 15.0, report.Buckets[0].Percentage)
	assert.Len(t, report.Buckets[0].Entries, 2)

	assert.Equal(t, "Equipos", report.Buckets[1].ProductName)
	assert.Equal(t, 300.0, report.Buckets[1].TotalAmount)

	assert.Equal(t, reportdomain.RestBucketName, report.Rest.ProductName)
	assert.Equal(t, 700.0, report.Rest.TotalAmount)
	assert.Len(t, report.Rest.Entries, 2)
}

func TestBreakdownSkipsZeroAmountLines(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	saved := f.save(t, ctx, "B010000041", "2026-03-10", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20})

	// rows written before zero filtering existed
	invoiceID, err := snowflake.ParseString(saved.ID)
	assert.NoError(t, err)
	assert.NoError(t, f.db.Create(&invoicedomain.InvoiceProduct{
		ID:          2,
		InvoiceID:   invoiceID.Int64(),
		ProductName: "Cosmeticos",
		Amount:      0,
		Percentage:  15,
	}).Error)

	report, err := f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{From: "2026-03-01", To: "2026-03-31"})
	assert.NoError(t, err)

	assert.Len(t, report.Buckets, 1)
	assert.Equal(t, "Suplementos", report.Buckets[0].ProductName)
}

func TestBreakdownOmitsEmptyRest(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	f.save(t, ctx, "B010000042", "2026-03-10", 500,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 500, Percentage: 20})

	report, err := f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{From: "2026-03-01", To: "2026-03-31"})
	assert.NoError(t, err)

	assert.Empty(t, report.Rest.Entries)
	assert.Equal(t, 0.0, report.Rest.TotalAmount)
	assert.Equal(t, 1, report.InvoiceCount)
}

func TestBreakdownBucketColors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	assert.NoError(t, f.db.Create(&productdomain.Product{
		ID:         1,
		Name:       "Suplementos",
		Percentage: 20,
		Color:      "#e63946",
	}).Error)

	f.save(t, ctx, "B010000043", "2026-03-10", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20},
		invoicedomain.LineInput{ProductName: "Equipos", Amount: 100, Percentage: 10})

	report, err := f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{From: "2026-03-01", To: "2026-03-31"})
	assert.NoError(t, err)

	assert.Len(t, report.Buckets, 2)
	assert.Equal(t, "#e63946", report.Buckets[0].Color)
	// no catalog entry, no color
	assert.Empty(t, report.Buckets[1].Color)
	assert.Empty(t, report.Rest.Color)
}

func TestBreakdownCommissionRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	f.save(t, ctx, "B010000003", "2026-03-10", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20})

	report, err := f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{From: "2026-03-10", To: "2026-03-10"})
	assert.NoError(t, err)

	var sum float64
	for _, bucket := range report.Buckets {
		sum += bucket.TotalCommission
	}
	sum += report.Rest.TotalCommission
	assert.Equal(t, report.TotalCommission, sum)
}

func TestBreakdownRangeBoundaries(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	f.save(t, ctx, "B010000004", "2026-02-28", 100)
	f.save(t, ctx, "B010000005", "2026-03-01", 200)
	f.save(t, ctx, "B010000006", "2026-03-31", 300)
	f.save(t, ctx, "B010000007", "2026-04-01", 400)

	report, err := f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{From: "2026-03-01", To: "2026-03-31"})
	assert.NoError(t, err)
	assert.Equal(t, 2, report.InvoiceCount)
	assert.Equal(t, 500.0, report.TotalSales)
}

func TestBreakdownRejectsInvertedRange(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	_, err := f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{From: "2026-03-31", To: "2026-03-01"})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidRange)
}

func TestMonthlyDeltaAgainstPreviousMonth(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	f.save(t, ctx, "B010000008", "2026-02-10", 400)
	f.save(t, ctx, "B010000009", "2026-03-10", 1000)

	stats, err := f.reports.Monthly(ctx, 2026, 3)
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.InvoiceCount)
	assert.Equal(t, 1000.0, stats.TotalSales)
	assert.Equal(t, 600.0, stats.SalesDelta)
}

func TestMonthsOfYearZeroFilled(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	f.save(t, ctx, "B010000010", "2026-06-15", 900)

	months, err := f.reports.MonthsOfYear(ctx, 2026)
	assert.NoError(t, err)
	assert.Len(t, months, 12)

	for i, stats := range months {
		assert.Equal(t, i+1, stats.Month)
		if stats.Month == 6 {
			assert.Equal(t, 900.0, stats.TotalSales)
		} else {
			assert.Equal(t, 0.0, stats.TotalSales)
			assert.Equal(t, 0, stats.InvoiceCount)
		}
	}
}

func TestYearComparisonWindow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	years, err := f.reports.YearComparison(ctx)
	assert.NoError(t, err)
	assert.Len(t, years, 6)
	assert.Equal(t, 2021, years[0].Year)
	assert.Equal(t, 2026, years[5].Year)
}

func TestYearComparisonWidensToOldestData(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	f.save(t, ctx, "B010000031", "2019-06-15", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20})

	years, err := f.reports.YearComparison(ctx)
	assert.NoError(t, err)
	assert.Len(t, years, 8)
	assert.Equal(t, 2019, years[0].Year)
	assert.Equal(t, 1, years[0].InvoiceCount)
	assert.Equal(t, 2026, years[7].Year)
}

type mockUpdater struct {
	mock.Mock
}

func (m *mockUpdater) Update(ctx context.Context, req invoicedomain.UpdateRequest) (*invoicedomain.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicedomain.Response), args.Error(1)
}

func TestCorrectPercentageContinuesOnFailure(t *testing.T) {
	updater := &mockUpdater{}
	f := newFixture(t, updater)
	ctx := sellerContext()

	f.save(t, ctx, "B010000011", "2026-03-01", 500,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 100, Percentage: 20})
	failing := f.save(t, ctx, "B010000012", "2026-03-02", 500,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 100, Percentage: 20})
	f.save(t, ctx, "B010000013", "2026-03-03", 500,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 100, Percentage: 20})

	updater.On("Update", mock.Anything, mock.MatchedBy(func(req invoicedomain.UpdateRequest) bool {
		return req.ID == failing.ID
	})).Return(nil, gorm.ErrInvalidData)
	updater.On("Update", mock.Anything, mock.Anything).Return(&invoicedomain.Response{}, nil)

	result, err := f.reports.CorrectPercentage(ctx, reportdomain.CorrectionRequest{
		ProductName:   "Suplementos",
		NewPercentage: 25,
	})
	assert.NoError(t, err)
	assert.Len(t, result.Updated, 2)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, failing.ID, result.Failed[0].InvoiceID)
	assert.Equal(t, "B010000012", result.Failed[0].NCF)
	assert.NotEmpty(t, result.Failed[0].Error)
}

func TestCorrectPercentageAppliesNewRate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	saved := f.save(t, ctx, "B010000014", "2026-03-01", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20})

	result, err := f.reports.CorrectPercentage(ctx, reportdomain.CorrectionRequest{
		ProductName:   "Suplementos",
		NewPercentage: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{saved.ID}, result.Updated)
	assert.Empty(t, result.Failed)

	refreshed, err := f.invoices.Get(ctx, saved.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10.0, refreshed.Lines[0].Percentage)
	assert.Equal(t, 40.0, refreshed.Lines[0].Commission)
}

func TestCorrectPercentageHonorsMonthScope(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	inMonth := f.save(t, ctx, "B010000015", "2026-03-05", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20})
	outside := f.save(t, ctx, "B010000016", "2026-04-05", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20})

	result, err := f.reports.CorrectPercentage(ctx, reportdomain.CorrectionRequest{
		ProductName:   "Suplementos",
		NewPercentage: 10,
		Month:         "2026-03",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{inMonth.ID}, result.Updated)
	assert.Empty(t, result.Failed)

	untouched, err := f.invoices.Get(ctx, outside.ID)
	assert.NoError(t, err)
	assert.Equal(t, 20.0, untouched.Lines[0].Percentage)

	_, err = f.reports.CorrectPercentage(ctx, reportdomain.CorrectionRequest{
		ProductName:   "Suplementos",
		NewPercentage: 10,
		Month:         "not-a-month",
	})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidRange)
}

func TestCorrectPercentageValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	_, err := f.reports.CorrectPercentage(ctx, reportdomain.CorrectionRequest{ProductName: "", NewPercentage: 10})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidProduct)

	_, err = f.reports.CorrectPercentage(ctx, reportdomain.CorrectionRequest{ProductName: "Suplementos", NewPercentage: 150})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidPercentage)
}

func TestBreakdownMonthShorthand(t *testing.T) {
	f := newFixture(t, nil)
	ctx := sellerContext()

	f.save(t, ctx, "B010000021", "2026-03-10", 1000,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 400, Percentage: 20})
	f.save(t, ctx, "B010000022", "2026-04-01", 500,
		invoicedomain.LineInput{ProductName: "Suplementos", Amount: 100, Percentage: 20})

	report, err := f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{Month: "2026-03"})
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-01", report.From)
	assert.Equal(t, "2026-03-31", report.To)
	assert.Equal(t, 1, report.InvoiceCount)

	_, err = f.reports.Breakdown(ctx, reportdomain.BreakdownRequest{Month: "03-2026"})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidRange)
}
