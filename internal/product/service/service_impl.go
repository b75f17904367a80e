package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Percentage < 0 || req.Percentage > 100 {
		return nil, domain.ErrInvalidPercentage
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:         s.genID.Generate().Int64(),
		Name:       name,
		Percentage: req.Percentage,
		Color:      strings.TrimSpace(req.Color),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	p, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		p.Name = name
	}
	if req.Percentage != nil {
		if *req.Percentage < 0 || *req.Percentage > 100 {
			return nil, domain.ErrInvalidPercentage
		}
		p.Percentage = *req.Percentage
	}
	if req.Color != nil {
		p.Color = strings.TrimSpace(*req.Color)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, p); err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

// Delete removes a product from the catalog. Seeded default products stay;
// invoice lines snapshot the product name, so history is unaffected either way.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if p.IsDefault {
		return domain.ErrProductDefault
	}
	return s.repo.Delete(ctx, s.db, p.ID)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	p, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:         snowflake.ID(p.ID).String(),
		Name:       p.Name,
		Percentage: p.Percentage,
		Color:      p.Color,
		IsDefault:  p.IsDefault,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
