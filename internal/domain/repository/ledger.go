package repository

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// LedgerRepository is the single writer of user XP and level.
type LedgerRepository interface {
	// Award adds XP and recomputes level atomically.
	Award(ctx context.Context, award model.XPAward) (*model.GamificationProfile, error)
	// AwardOnce behaves like Award unless an entry with the same user, reason and
	// day already exists, in which case nothing changes and awarded is false.
	AwardOnce(ctx context.Context, award model.XPAward) (profile *model.GamificationProfile, awarded bool, err error)
	Profile(ctx context.Context, userID int64) (*model.GamificationProfile, error)
}
