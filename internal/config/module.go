package config

import "go.uber.org/fx"

// Module exposes configuration loader and the feature flag snapshot for fx graphs.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Provide(func(cfg *Config) Flags { return cfg.Flags }),
)
