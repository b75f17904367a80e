package invoice

import (
	"github.com/dlsistemas/comisiones/internal/invoice/domain"
	"github.com/dlsistemas/comisiones/internal/invoice/repository"
	"github.com/dlsistemas/comisiones/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(s domain.Service) domain.Updater { return s }),
)
