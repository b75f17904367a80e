package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/config"
	"github.com/dlsistemas/comisiones/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   domain.Repository
	Holder *config.CommissionConfigHolder
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   domain.Repository
	holder *config.CommissionConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("settings.service"),
		repo:   p.Repo,
		holder: p.Holder,
	}
}

func (s *Service) Get(ctx context.Context) (*domain.Response, error) {
	row, err := s.load(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(row)
	return &resp, nil
}

func (s *Service) SetRestPercentage(ctx context.Context, percentage float64) (*domain.Response, error) {
	if percentage < 0 || percentage > 100 {
		return nil, domain.ErrInvalidPercentage
	}

	row, err := s.load(ctx, s.db)
	if err != nil {
		return nil, err
	}

	row.RestPercentage = percentage
	row.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, row); err != nil {
		return nil, err
	}

	resp := s.toResponse(row)
	return &resp, nil
}

func (s *Service) SetActiveSeller(ctx context.Context, sellerID *string) (*domain.Response, error) {
	row, err := s.load(ctx, s.db)
	if err != nil {
		return nil, err
	}

	if sellerID == nil || strings.TrimSpace(*sellerID) == "" {
		row.ActiveSellerID = nil
	} else {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*sellerID))
		if err != nil {
			return nil, domain.ErrInvalidSellerID
		}
		id := parsed.Int64()
		row.ActiveSellerID = &id
	}

	row.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, row); err != nil {
		return nil, err
	}

	resp := s.toResponse(row)
	return &resp, nil
}

func (s *Service) NextNCFSuffix(ctx context.Context) (string, error) {
	row, err := s.load(ctx, s.db)
	if err != nil {
		return "", err
	}
	return s.formatNCF(row.LastNCFNumber + 1), nil
}

func (s *Service) AdvanceNCF(ctx context.Context, n int64) error {
	if n < 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		if n <= row.LastNCFNumber {
			return nil
		}
		row.LastNCFNumber = n
		row.UpdatedAt = time.Now().UTC()
		return s.repo.Save(ctx, tx, row)
	})
}

func (s *Service) load(ctx context.Context, db *gorm.DB) (*domain.Settings, error) {
	row, err := s.repo.Get(ctx, db)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &domain.Settings{
			ID:             domain.SettingsRowID,
			RestPercentage: s.holder.Get().DefaultRestPercentage,
			UpdatedAt:      time.Now().UTC(),
		}
	}
	return row, nil
}

func (s *Service) formatNCF(n int64) string {
	return fmt.Sprintf("%s%04d", s.holder.Get().NCFPrefix, n)
}

func (s *Service) toResponse(row *domain.Settings) domain.Response {
	resp := domain.Response{
		RestPercentage: row.RestPercentage,
		LastNCFNumber:  row.LastNCFNumber,
		NextNCF:        s.formatNCF(row.LastNCFNumber + 1),
	}
	if row.ActiveSellerID != nil {
		id := snowflake.ID(*row.ActiveSellerID).String()
		resp.ActiveSellerID = &id
	}
	return resp
}
