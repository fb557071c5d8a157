package usecase

import "github.com/polkiloo/digistore/internal/config"

// Settings is the configuration snapshot the use cases depend on.
type Settings struct {
	Currency       string
	PublicBaseURL  string
	SlipPriceCheck bool
	Flags          config.Flags
}

func newSettings(cfg *config.Config) Settings {
	return Settings{
		Currency:       cfg.Currency,
		PublicBaseURL:  cfg.PublicBaseURL,
		SlipPriceCheck: cfg.SlipPriceCheck,
		Flags:          cfg.Flags,
	}
}
