package client

import (
	"github.com/dlsistemas/comisiones/internal/client/repository"
	"github.com/dlsistemas/comisiones/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
