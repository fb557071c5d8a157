package test

import (
	"context"
	"errors"

	"github.com/polkiloo/digistore/internal/domain/model"
	pkgAuth "github.com/polkiloo/digistore/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(int64) (string, error)
	ParseFn func(string) (int64, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(userID int64) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// PrincipalResolverStub implements the middleware identity contract.
// Tokens map to principals; unknown tokens fail with pkgAuth.ErrInvalidToken.
type PrincipalResolverStub struct {
	Tokens       map[string]model.Principal
	ParseErr     error
	PrincipalErr error
}

// ParseToken resolves the user id registered for token.
func (s PrincipalResolverStub) ParseToken(token string) (int64, error) {
	if s.ParseErr != nil {
		return 0, s.ParseErr
	}
	p, ok := s.Tokens[token]
	if !ok {
		return 0, pkgAuth.ErrInvalidToken
	}
	return p.UserID, nil
}

// Principal returns the principal registered for userID.
func (s PrincipalResolverStub) Principal(_ context.Context, userID int64) (model.Principal, error) {
	if s.PrincipalErr != nil {
		return model.Principal{}, s.PrincipalErr
	}
	for _, p := range s.Tokens {
		if p.UserID == userID {
			return p, nil
		}
	}
	return model.Principal{UserID: userID, Role: model.RoleUser}, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
