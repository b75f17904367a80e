package product

import (
	"github.com/dlsistemas/comisiones/internal/product/repository"
	"github.com/dlsistemas/comisiones/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
