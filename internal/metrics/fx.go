package metrics

import (
	"github.com/smallbiznis/pulse/internal/metrics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics.service",
	fx.Provide(service.New),
)
