package model

import "time"

// XPReason names the cause of an XP award.
type XPReason string

const (
	XPReasonBuyProduct XPReason = "BUY_PRODUCT"
	XPReasonDailyLogin XPReason = "DAILY_LOGIN"
)

const (
	XPPerLevel      int64 = 1000
	XPForPurchase   int64 = 200
	XPForDailyLogin int64 = 50
)

// LevelForXP derives level from accumulated XP.
func LevelForXP(xp int64) int64 {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// GamificationProfile is the XP standing of a user.
type GamificationProfile struct {
	UserID int64
	XP     int64
	Level  int64
}

// NextLevelAt returns XP required to reach the next level.
func (p GamificationProfile) NextLevelAt() int64 {
	return p.Level * XPPerLevel
}

// XPAward records a single ledger entry.
type XPAward struct {
	UserID    int64
	Amount    int64
	Reason    XPReason
	AwardedOn time.Time
}
