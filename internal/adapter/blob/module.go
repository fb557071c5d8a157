package blob

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
)

// Module provides slip storage.
var Module = fx.Options(
	fx.Provide(newFileStore),
	fx.Provide(func(s *FileStore) Store { return s }),
)

type storeParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newFileStore(p storeParams) (*FileStore, error) {
	return NewFileStore(p.Config.SlipDir, p.Config.SlipBaseURL, p.Config.SlipMaxBytes, p.Logger)
}
