package expense

import (
	"github.com/dlsistemas/comisiones/internal/expense/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.repository",
	fx.Provide(repository.Provide),
)
