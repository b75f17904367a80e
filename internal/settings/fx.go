package settings

import (
	"github.com/dlsistemas/comisiones/internal/settings/repository"
	"github.com/dlsistemas/comisiones/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
