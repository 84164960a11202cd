package history

import (
	"github.com/smallbiznis/pixomat/internal/history/repository"
	"github.com/smallbiznis/pixomat/internal/history/service"
	"go.uber.org/fx"
)

var Module = fx.Module("history.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
