package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dlsistemas/comisiones/internal/client/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("client.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Phone:     trimPtr(req.Phone),
		Email:     trimPtr(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Metadata != nil {
		client.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, client); err != nil {
		return nil, err
	}

	resp := toResponse(client)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db, strings.TrimSpace(req.Name))
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
	client, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toResponse(client)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	client, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		client.Name = name
	}
	if req.Phone != nil {
		client.Phone = trimPtr(req.Phone)
	}
	if req.Email != nil {
		client.Email = trimPtr(req.Email)
	}
	if req.Metadata != nil {
		client.Metadata = datatypes.JSONMap(req.Metadata)
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, client); err != nil {
		return nil, err
	}

	resp := toResponse(client)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	client, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, client.ID)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Client, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	client, err := s.repo.FindByID(ctx, s.db, clientID.Int64())
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func toResponse(c *domain.Client) domain.Response {
	resp := domain.Response{
		ID:        snowflake.ID(c.ID).String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if len(c.Metadata) > 0 {
		resp.Metadata = map[string]any(c.Metadata)
	}
	return resp
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
