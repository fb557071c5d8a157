package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

type ledgerRepository struct {
	storage *Storage
}

func (r *ledgerRepository) Award(ctx context.Context, award model.XPAward) (*model.GamificationProfile, error) {
	var profile *model.GamificationProfile
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		if profile, err = applyXPTx(ctx, tx, award.UserID, award.Amount); err != nil {
			return err
		}
		const insertEvent = `INSERT INTO xp_events (user_id, amount, reason, awarded_on) VALUES ($1, $2, $3, $4)`
		_, err = tx.Exec(ctx, insertEvent, award.UserID, award.Amount, award.Reason, award.AwardedOn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// AwardOnce inserts the daily sentinel first. Concurrent callers block on the
// partial unique index and the loser observes no inserted row.
func (r *ledgerRepository) AwardOnce(ctx context.Context, award model.XPAward) (*model.GamificationProfile, bool, error) {
	var (
		profile *model.GamificationProfile
		awarded bool
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertSentinel = `INSERT INTO xp_events (user_id, amount, reason, daily, awarded_on)
                                VALUES ($1, $2, $3, TRUE, $4)
                                ON CONFLICT DO NOTHING
                                RETURNING id`
		var eventID int64
		err := tx.QueryRow(ctx, insertSentinel, award.UserID, award.Amount, award.Reason, award.AwardedOn).Scan(&eventID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				profile, err = profileTx(ctx, tx, award.UserID)
				return err
			}
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
				return domainErrors.ErrNotFound
			}
			return err
		}
		profile, err = applyXPTx(ctx, tx, award.UserID, award.Amount)
		awarded = err == nil
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return profile, awarded, nil
}

func (r *ledgerRepository) Profile(ctx context.Context, userID int64) (*model.GamificationProfile, error) {
	p := model.GamificationProfile{UserID: userID}
	err := r.storage.pool.QueryRow(ctx, `SELECT xp, level FROM users WHERE id=$1`, userID).Scan(&p.XP, &p.Level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// applyXPTx locks the user row, adds amount and writes xp with its derived level.
func applyXPTx(ctx context.Context, tx pgx.Tx, userID, amount int64) (*model.GamificationProfile, error) {
	var xp int64
	err := tx.QueryRow(ctx, `SELECT xp FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&xp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	p := model.GamificationProfile{UserID: userID, XP: xp + amount}
	p.Level = model.LevelForXP(p.XP)
	if _, err := tx.Exec(ctx, `UPDATE users SET xp=$1, level=$2 WHERE id=$3`, p.XP, p.Level, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

func profileTx(ctx context.Context, tx pgx.Tx, userID int64) (*model.GamificationProfile, error) {
	p := model.GamificationProfile{UserID: userID}
	if err := tx.QueryRow(ctx, `SELECT xp, level FROM users WHERE id=$1`, userID).Scan(&p.XP, &p.Level); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
