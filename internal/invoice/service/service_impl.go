package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/commission"
	"github.com/dlsistemas/comisiones/internal/config"
	"github.com/dlsistemas/comisiones/internal/invoice/domain"
	settingsdomain "github.com/dlsistemas/comisiones/internal/settings/domain"
	"github.com/dlsistemas/comisiones/internal/sellerctx"
	"github.com/dlsistemas/comisiones/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Settings settingsdomain.Service
	Holder   *config.CommissionConfigHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	settings settingsdomain.Service
	holder   *config.CommissionConfigHolder
	genID    *snowflake.Node
	ncfRe    *regexp.Regexp
}

func New(p Params) domain.Service {
	cfg := p.Holder.Get()
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		repo:     p.Repo,
		settings: p.Settings,
		holder:   p.Holder,
		genID:    p.GenID,
		ncfRe:    regexp.MustCompile("^" + regexp.QuoteMeta(cfg.NCFPrefix) + `\d{4}$`),
	}
}

func (s *Service) Save(ctx context.Context, req domain.SaveRequest) (*domain.Response, error) {
	sellerID, ok := sellerctx.SellerIDFromContext(ctx)
	if !ok || sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}

	ncf := strings.TrimSpace(req.NCF)
	if !s.ncfRe.MatchString(ncf) {
		return nil, domain.ErrInvalidNCF
	}
	if req.TotalAmount < 0 {
		return nil, domain.ErrInvalidAmount
	}

	date, err := domain.ParseDay(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByNCF(ctx, s.db, ncf)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateNCF
	}

	restPct, err := s.restPercentage(ctx, req.RestPercentage)
	if err != nil {
		return nil, err
	}

	calc, err := commission.Compute(req.TotalAmount, toLines(req.Lines), restPct, s.holder.Get().SavePolicy)
	if err != nil {
		return nil, err
	}

	var clientID *int64
	if clientID, err = s.parseClientID(req.ClientID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		ID:              s.genID.Generate().Int64(),
		SellerID:        sellerID.Int64(),
		ClientID:        clientID,
		NCF:             ncf,
		Date:            date,
		TotalAmount:     req.TotalAmount,
		RestPercentage:  restPct,
		RestAmount:      calc.RestAmount,
		RestCommission:  calc.RestCommission,
		TotalCommission: calc.TotalCommission,
		Lines:           s.buildLines(0, calc),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range inv.Lines {
		inv.Lines[i].InvoiceID = inv.ID
	}

	if err := s.repo.Save(ctx, s.db, inv); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateNCF
		}
		return nil, err
	}

	s.advanceNCF(ctx, ncf)

	resp := toResponse(inv)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	inv, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.NCF != nil {
		ncf := strings.TrimSpace(*req.NCF)
		if !s.ncfRe.MatchString(ncf) {
			return nil, domain.ErrInvalidNCF
		}
		if ncf != inv.NCF {
			existing, err := s.repo.FindByNCF(ctx, s.db, ncf)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != inv.ID {
				return nil, domain.ErrDuplicateNCF
			}
		}
		inv.NCF = ncf
	}
	if req.Date != nil {
		date, err := domain.ParseDay(strings.TrimSpace(*req.Date))
		if err != nil {
			return nil, err
		}
		inv.Date = date
	}
	if req.TotalAmount != nil {
		if *req.TotalAmount < 0 {
			return nil, domain.ErrInvalidAmount
		}
		inv.TotalAmount = *req.TotalAmount
	}
	if req.RestPercentage != nil {
		if *req.RestPercentage < 0 || *req.RestPercentage > 100 {
			return nil, domain.ErrInvalidAmount
		}
		inv.RestPercentage = *req.RestPercentage
	}
	if req.ClientID != nil {
		clientID, err := s.parseClientID(req.ClientID)
		if err != nil {
			return nil, err
		}
		inv.ClientID = clientID
	}

	lines := req.Lines
	if lines == nil {
		lines = fromStored(inv.Lines)
	}

	calc, err := commission.Compute(inv.TotalAmount, toLines(lines), inv.RestPercentage, s.holder.Get().UpdatePolicy)
	if err != nil {
		return nil, err
	}

	inv.RestAmount = calc.RestAmount
	inv.RestCommission = calc.RestCommission
	inv.TotalCommission = calc.TotalCommission
	inv.Lines = s.buildLines(inv.ID, calc)
	inv.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, inv); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateNCF
		}
		return nil, err
	}

	s.advanceNCF(ctx, inv.NCF)

	resp := toResponse(inv)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	inv, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(inv)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	sellerID, ok := sellerctx.SellerIDFromContext(ctx)
	if !ok || sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}

	filter := domain.ListFilter{
		SellerID:  sellerID.Int64(),
		PageToken: req.PageToken,
		PageSize:  req.PageSize,
	}
	if trimmed := strings.TrimSpace(req.ClientID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		id := parsed.Int64()
		filter.ClientID = &id
	}
	if trimmed := strings.TrimSpace(req.From); trimmed != "" {
		from, err := domain.ParseDay(trimmed)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if trimmed := strings.TrimSpace(req.To); trimmed != "" {
		to, err := domain.ParseDay(trimmed)
		if err != nil {
			return nil, err
		}
		// inclusive upper bound on the calendar day
		end := to.Add(12 * time.Hour)
		filter.To = &end
	}

	items, next, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := &domain.ListResponse{
		Invoices:      make([]domain.Response, 0, len(items)),
		NextPageToken: next,
	}
	for i := range items {
		resp.Invoices = append(resp.Invoices, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	inv, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, inv.ID)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	inv, err := s.repo.FindByID(ctx, s.db, invoiceID.Int64())
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (s *Service) restPercentage(ctx context.Context, override *float64) (float64, error) {
	if override != nil {
		if *override < 0 || *override > 100 {
			return 0, domain.ErrInvalidAmount
		}
		return *override, nil
	}
	current, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	return current.RestPercentage, nil
}

// advanceNCF bumps the suggested sequence number after a successful write.
// Advisory state only, so a failure is logged and swallowed.
func (s *Service) advanceNCF(ctx context.Context, ncf string) {
	prefix := s.holder.Get().NCFPrefix
	suffix := strings.TrimPrefix(ncf, prefix)
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return
	}
	if err := s.settings.AdvanceNCF(ctx, n); err != nil {
		s.log.Warn("advance ncf sequence", zap.String("ncf", ncf), zap.Error(err))
	}
}

// buildLines materializes the computed lines, dropping zero-amount entries.
// The zero lines still participate in the over-entry math above; they just
// never reach storage.
func (s *Service) buildLines(invoiceID int64, calc commission.Calculation) []domain.InvoiceProduct {
	lines := make([]domain.InvoiceProduct, 0, len(calc.Lines))
	for _, line := range calc.Lines {
		if line.Amount <= 0 {
			continue
		}
		lines = append(lines, domain.InvoiceProduct{
			ID:          s.genID.Generate().Int64(),
			InvoiceID:   invoiceID,
			ProductName: line.ProductName,
			Amount:      line.Amount,
			Percentage:  line.Percentage,
			Commission:  line.Commission,
		})
	}
	return lines
}

func (s *Service) parseClientID(raw *string) (*int64, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	id := parsed.Int64()
	return &id, nil
}

func toLines(inputs []domain.LineInput) []commission.Line {
	lines := make([]commission.Line, 0, len(inputs))
	for _, in := range inputs {
		lines = append(lines, commission.Line{
			ProductName: strings.TrimSpace(in.ProductName),
			Amount:      in.Amount,
			Percentage:  in.Percentage,
		})
	}
	return lines
}

func fromStored(stored []domain.InvoiceProduct) []domain.LineInput {
	lines := make([]domain.LineInput, 0, len(stored))
	for _, line := range stored {
		lines = append(lines, domain.LineInput{
			ProductName: line.ProductName,
			Amount:      line.Amount,
			Percentage:  line.Percentage,
		})
	}
	return lines
}

func toResponse(inv *domain.Invoice) domain.Response {
	resp := domain.Response{
		ID:              snowflake.ID(inv.ID).String(),
		SellerID:        snowflake.ID(inv.SellerID).String(),
		NCF:             inv.NCF,
		Date:            domain.FormatDay(inv.Date),
		TotalAmount:     inv.TotalAmount,
		RestPercentage:  inv.RestPercentage,
		RestAmount:      inv.RestAmount,
		RestCommission:  inv.RestCommission,
		TotalCommission: inv.TotalCommission,
		Lines:           make([]domain.LineResponse, 0, len(inv.Lines)),
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
	if inv.ClientID != nil {
		id := snowflake.ID(*inv.ClientID).String()
		resp.ClientID = &id
	}
	if inv.Client != nil {
		resp.ClientName = inv.Client.Name
	}
	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, domain.LineResponse{
			ProductName: line.ProductName,
			Amount:      line.Amount,
			Percentage:  line.Percentage,
			Commission:  line.Commission,
		})
	}
	return resp
}
