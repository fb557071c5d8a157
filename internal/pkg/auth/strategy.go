package auth

import "time"

// Strategy issues and verifies bearer tokens carrying a user id.
type Strategy interface {
	IssueToken(userID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

// Options tune token issuance. Zero values select defaults.
type Options struct {
	TTL time.Duration
	Now func() time.Time
}
