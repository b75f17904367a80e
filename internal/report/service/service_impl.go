package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/clock"
	"github.com/dlsistemas/comisiones/internal/config"
	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	"github.com/dlsistemas/comisiones/internal/report/domain"
	"github.com/dlsistemas/comisiones/internal/sellerctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Updater invoicedomain.Updater
	Holder  *config.CommissionConfigHolder
	Clock   clock.Clock
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	updater invoicedomain.Updater
	holder  *config.CommissionConfigHolder
	clock   clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("report.service"),
		repo:    p.Repo,
		updater: p.Updater,
		holder:  p.Holder,
		clock:   p.Clock,
	}
}

func (s *Service) Breakdown(ctx context.Context, req domain.BreakdownRequest) (*domain.Report, error) {
	sellerID, ok := sellerctx.SellerIDFromContext(ctx)
	if !ok || sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}

	var from, to time.Time
	if month := strings.TrimSpace(req.Month); month != "" {
		var err error
		from, to, err = monthBounds(month)
		if err != nil {
			return nil, domain.ErrInvalidRange
		}
	} else {
		var err error
		from, err = invoicedomain.ParseDay(strings.TrimSpace(req.From))
		if err != nil {
			return nil, domain.ErrInvalidRange
		}
		to, err = invoicedomain.ParseDay(strings.TrimSpace(req.To))
		if err != nil {
			return nil, domain.ErrInvalidRange
		}
		if to.Before(from) {
			return nil, domain.ErrInvalidRange
		}
	}

	invoices, err := s.repo.FindRange(ctx, s.db, sellerID.Int64(), startOfDay(from), endOfDay(to))
	if err != nil {
		return nil, err
	}

	colors, err := s.repo.ProductColors(ctx, s.db)
	if err != nil {
		return nil, err
	}

	report := s.buildReport(invoices, colors)
	report.From = invoicedomain.FormatDay(from)
	report.To = invoicedomain.FormatDay(to)
	return report, nil
}

func (s *Service) Monthly(ctx context.Context, year, month int) (*domain.MonthStats, error) {
	sellerID, ok := sellerctx.SellerIDFromContext(ctx)
	if !ok || sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidRange
	}

	current, err := s.monthStats(ctx, sellerID.Int64(), year, month)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	previous, err := s.monthStats(ctx, sellerID.Int64(), prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	current.SalesDelta = round2(current.TotalSales - previous.TotalSales)
	current.CommissionDelta = round2(current.TotalCommission - previous.TotalCommission)
	return current, nil
}

func (s *Service) Yearly(ctx context.Context, year int) (*domain.YearStats, error) {
	sellerID, ok := sellerctx.SellerIDFromContext(ctx)
	if !ok || sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}

	current, err := s.yearStats(ctx, sellerID.Int64(), year)
	if err != nil {
		return nil, err
	}
	previous, err := s.yearStats(ctx, sellerID.Int64(), year-1)
	if err != nil {
		return nil, err
	}

	current.SalesDelta = round2(current.TotalSales - previous.TotalSales)
	current.CommissionDelta = round2(current.TotalCommission - previous.TotalCommission)
	return current, nil
}

// MonthsOfYear returns twelve entries, zero filled for months without sales.
func (s *Service) MonthsOfYear(ctx context.Context, year int) ([]domain.MonthStats, error) {
	sellerID, ok := sellerctx.SellerIDFromContext(ctx)
	if !ok || sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}

	months := make([]domain.MonthStats, 0, 12)
	for m := 1; m <= 12; m++ {
		stats, err := s.monthStats(ctx, sellerID.Int64(), year, m)
		if err != nil {
			return nil, err
		}
		if m > 1 {
			prev := months[m-2]
			stats.SalesDelta = round2(stats.TotalSales - prev.TotalSales)
			stats.CommissionDelta = round2(stats.TotalCommission - prev.TotalCommission)
		}
		months = append(months, *stats)
	}
	return months, nil
}

// YearComparison covers the current year and the configured number of
// preceding years, widened to the oldest year that has sales.
func (s *Service) YearComparison(ctx context.Context) ([]domain.YearStats, error) {
	sellerID, ok := sellerctx.SellerIDFromContext(ctx)
	if !ok || sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}

	span := s.holder.Get().ComparisonYears
	if span < 1 {
		span = 1
	}
	currentYear := s.clock.Now().In(time.Local).Year()
	firstYear := currentYear - span + 1
	if oldest, err := s.repo.OldestDate(ctx, s.db, sellerID.Int64()); err != nil {
		return nil, err
	} else if !oldest.IsZero() && oldest.Year() < firstYear {
		firstYear = oldest.Year()
	}

	years := make([]domain.YearStats, 0, currentYear-firstYear+1)
	for year := firstYear; year <= currentYear; year++ {
		stats, err := s.yearStats(ctx, sellerID.Int64(), year)
		if err != nil {
			return nil, err
		}
		if len(years) > 0 {
			prev := years[len(years)-1]
			stats.SalesDelta = round2(stats.TotalSales - prev.TotalSales)
			stats.CommissionDelta = round2(stats.TotalCommission - prev.TotalCommission)
		}
		years = append(years, *stats)
	}
	return years, nil
}

// CorrectPercentage rewrites the percentage on every line of the named
// product, invoice by invoice, optionally limited to one month. One failing
// invoice does not abort the rest.
func (s *Service) CorrectPercentage(ctx context.Context, req domain.CorrectionRequest) (*domain.CorrectionResult, error) {
	sellerID, ok := sellerctx.SellerIDFromContext(ctx)
	if !ok || sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}

	productName := strings.TrimSpace(req.ProductName)
	if productName == "" {
		return nil, domain.ErrInvalidProduct
	}
	if req.NewPercentage < 0 || req.NewPercentage > 100 {
		return nil, domain.ErrInvalidPercentage
	}

	var from, to time.Time
	if month := strings.TrimSpace(req.Month); month != "" {
		firstDay, lastDay, err := monthBounds(month)
		if err != nil {
			return nil, domain.ErrInvalidRange
		}
		from, to = startOfDay(firstDay), endOfDay(lastDay)
	}

	invoices, err := s.repo.FindByProductName(ctx, s.db, sellerID.Int64(), productName, from, to)
	if err != nil {
		return nil, err
	}

	result := &domain.CorrectionResult{
		Updated: []string{},
		Failed:  []domain.CorrectionFailure{},
	}
	for i := range invoices {
		inv := &invoices[i]
		id := snowflake.ID(inv.ID).String()

		lines := make([]invoicedomain.LineInput, 0, len(inv.Lines))
		for _, line := range inv.Lines {
			pct := line.Percentage
			if line.ProductName == productName {
				pct = req.NewPercentage
			}
			lines = append(lines, invoicedomain.LineInput{
				ProductName: line.ProductName,
				Amount:      line.Amount,
				Percentage:  pct,
			})
		}

		_, err := s.updater.Update(ctx, invoicedomain.UpdateRequest{
			ID:    id,
			Lines: lines,
		})
		if err != nil {
			result.Failed = append(result.Failed, domain.CorrectionFailure{
				InvoiceID: id,
				NCF:       inv.NCF,
				Error:     err.Error(),
			})
			s.log.Warn("percentage correction failed",
				zap.String("ncf", inv.NCF),
				zap.String("product", productName),
				zap.Error(err))
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result, nil
}

// monthBounds returns midday of the first and last day of a YYYY-MM month.
func monthBounds(month string) (time.Time, time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	first := time.Date(parsed.Year(), parsed.Month(), 1, 12, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

func (s *Service) monthStats(ctx context.Context, sellerID int64, year, month int) (*domain.MonthStats, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	invoices, err := s.repo.FindRange(ctx, s.db, sellerID, from, to)
	if err != nil {
		return nil, err
	}

	stats := &domain.MonthStats{Year: year, Month: month}
	for _, inv := range invoices {
		stats.InvoiceCount++
		stats.TotalSales += inv.TotalAmount
		stats.TotalCommission += inv.TotalCommission
	}
	stats.TotalSales = round2(stats.TotalSales)
	stats.TotalCommission = round2(stats.TotalCommission)
	return stats, nil
}

func (s *Service) yearStats(ctx context.Context, sellerID int64, year int) (*domain.YearStats, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(1, 0, 0).Add(-time.Second)

	invoices, err := s.repo.FindRange(ctx, s.db, sellerID, from, to)
	if err != nil {
		return nil, err
	}

	stats := &domain.YearStats{Year: year}
	for _, inv := range invoices {
		stats.InvoiceCount++
		stats.TotalSales += inv.TotalAmount
		stats.TotalCommission += inv.TotalCommission
	}
	stats.TotalSales = round2(stats.TotalSales)
	stats.TotalCommission = round2(stats.TotalCommission)
	return stats, nil
}

func (s *Service) buildReport(invoices []invoicedomain.Invoice, colors map[string]string) *domain.Report {
	report := &domain.Report{
		Rest: domain.Bucket{ProductName: domain.RestBucketName},
	}
	buckets := map[string]*domain.Bucket{}

	for i := range invoices {
		inv := &invoices[i]
		report.InvoiceCount++
		report.TotalSales += inv.TotalAmount
		report.TotalCommission += inv.TotalCommission

		day := invoicedomain.FormatDay(inv.Date)
		id := snowflake.ID(inv.ID).String()

		for _, line := range inv.Lines {
			if line.Amount <= 0 {
				continue
			}
			bucket, ok := buckets[line.ProductName]
			if !ok {
				bucket = &domain.Bucket{
					ProductName: line.ProductName,
					Color:       colors[line.ProductName],
				}
				buckets[line.ProductName] = bucket
			}
			bucket.Entries = append(bucket.Entries, domain.BucketEntry{
				InvoiceID:  id,
				NCF:        inv.NCF,
				Date:       day,
				Amount:     line.Amount,
				Percentage: line.Percentage,
				Commission: line.Commission,
			})
			bucket.TotalAmount += line.Amount
			bucket.TotalCommission += line.Commission
			// invoices arrive date-ascending, so the last entry wins
			bucket.Percentage = line.Percentage
		}

		if inv.RestAmount > 0 {
			report.Rest.Entries = append(report.Rest.Entries, domain.BucketEntry{
				InvoiceID:  id,
				NCF:        inv.NCF,
				Date:       day,
				Amount:     inv.RestAmount,
				Percentage: inv.RestPercentage,
				Commission: inv.RestCommission,
			})
			report.Rest.TotalAmount += inv.RestAmount
			report.Rest.TotalCommission += inv.RestCommission
			report.Rest.Percentage = inv.RestPercentage
		}
	}

	report.Buckets = make([]domain.Bucket, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.TotalAmount = round2(bucket.TotalAmount)
		bucket.TotalCommission = round2(bucket.TotalCommission)
		report.Buckets = append(report.Buckets, *bucket)
	}
	sort.Slice(report.Buckets, func(i, j int) bool {
		if report.Buckets[i].TotalAmount != report.Buckets[j].TotalAmount {
			return report.Buckets[i].TotalAmount > report.Buckets[j].TotalAmount
		}
		return report.Buckets[i].ProductName < report.Buckets[j].ProductName
	})

	report.Rest.TotalAmount = round2(report.Rest.TotalAmount)
	report.Rest.TotalCommission = round2(report.Rest.TotalCommission)
	report.TotalSales = round2(report.TotalSales)
	report.TotalCommission = round2(report.TotalCommission)
	return report
}

func startOfDay(midday time.Time) time.Time {
	return midday.Add(-12 * time.Hour)
}

func endOfDay(midday time.Time) time.Time {
	return midday.Add(12*time.Hour - time.Second)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
