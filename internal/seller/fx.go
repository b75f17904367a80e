package seller

import (
	"github.com/dlsistemas/comisiones/internal/seller/repository"
	"github.com/dlsistemas/comisiones/internal/seller/service"
	"go.uber.org/fx"
)

var Module = fx.Module("seller.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
