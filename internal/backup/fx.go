package backup

import (
	"github.com/dlsistemas/comisiones/internal/backup/service"
	"go.uber.org/fx"
)

var Module = fx.Module("backup.service",
	fx.Provide(service.New),
)
