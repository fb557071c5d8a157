package usecase

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// LicenseUseCase lists license keys owned by a user.
type LicenseUseCase struct {
	licenses repository.LicenseRepository
}

func NewLicenseUseCase(licenses repository.LicenseRepository) *LicenseUseCase {
	return &LicenseUseCase{licenses: licenses}
}

func (u *LicenseUseCase) ListByUser(ctx context.Context, userID int64) ([]model.OwnedLicense, error) {
	return u.licenses.ListByUser(ctx, userID)
}
