package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// GamificationUseCase awards XP through the ledger. Calendar days are UTC.
type GamificationUseCase struct {
	ledger repository.LedgerRepository
	now    func() time.Time
}

// NewGamificationUseCase constructs GamificationUseCase.
func NewGamificationUseCase(ledger repository.LedgerRepository) *GamificationUseCase {
	return &GamificationUseCase{ledger: ledger, now: time.Now}
}

// AwardXP adds amount to the user's XP and recomputes the level.
func (u *GamificationUseCase) AwardXP(ctx context.Context, userID, amount int64, reason model.XPReason) (*model.GamificationProfile, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: xp amount must not be negative", domainErrors.ErrValidation)
	}
	return u.ledger.Award(ctx, model.XPAward{UserID: userID, Amount: amount, Reason: reason, AwardedOn: u.today()})
}

// AwardDailyLoginXP awards the login bonus at most once per calendar day.
func (u *GamificationUseCase) AwardDailyLoginXP(ctx context.Context, userID int64) (*model.GamificationProfile, bool, error) {
	return u.ledger.AwardOnce(ctx, model.XPAward{
		UserID:    userID,
		Amount:    model.XPForDailyLogin,
		Reason:    model.XPReasonDailyLogin,
		AwardedOn: u.today(),
	})
}

// Profile returns the current XP standing of the user.
func (u *GamificationUseCase) Profile(ctx context.Context, userID int64) (*model.GamificationProfile, error) {
	return u.ledger.Profile(ctx, userID)
}

func (u *GamificationUseCase) today() time.Time {
	y, m, d := u.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
