package report

import (
	"github.com/dlsistemas/comisiones/internal/report/repository"
	"github.com/dlsistemas/comisiones/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
