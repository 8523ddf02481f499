package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/models"
)

type SponsorshipRepo struct {
	db *gorm.DB
}

func NewSponsorshipRepo(db *gorm.DB) *SponsorshipRepo {
	return &SponsorshipRepo{db}
}

// FindOpen returns every sponsorship still accepting applications, newest first.
func (r *SponsorshipRepo) FindOpen(ctx context.Context) ([]*models.Sponsorship, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var sponsorships []*models.Sponsorship
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SponsorshipStatusOpen).
		Order("created_at DESC").
		Find(&sponsorships).Error
	if err != nil {
		return nil, mapError("find", "sponsorships", err)
	}
	return sponsorships, nil
}

// FindBySponsor returns a sponsor's postings regardless of status.
func (r *SponsorshipRepo) FindBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]*models.Sponsorship, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var sponsorships []*models.Sponsorship
	err := r.db.WithContext(ctx).
		Where("sponsor_id = ?", sponsorID).
		Order("created_at DESC").
		Find(&sponsorships).Error
	if err != nil {
		return nil, mapError("find", "sponsorships", err)
	}
	return sponsorships, nil
}

// FindByID returns a sponsorship by its ID, nil when absent.
func (r *SponsorshipRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Sponsorship, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var sponsorship models.Sponsorship
	err := r.db.WithContext(ctx).First(&sponsorship, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find", "sponsorship", err)
	}
	return &sponsorship, nil
}

// Add inserts a new sponsorship into the database
func (r *SponsorshipRepo) Add(ctx context.Context, sponsorship *models.Sponsorship) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(sponsorship).Error; err != nil {
		return mapError("create", "sponsorship", err)
	}
	return nil
}

// UpdateFields applies owner-edited fields; status is excluded, Close is the
// only path that changes it.
func (r *SponsorshipRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Sponsorship, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res := r.db.WithContext(opCtx).
		Model(&models.Sponsorship{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, mapError("update", "sponsorship", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound("sponsorship")
	}
	return r.FindByID(ctx, id)
}

// Close executes the open -> closed transition as a conditional update; a
// second close attempt conflicts instead of silently succeeding.
func (r *SponsorshipRepo) Close(ctx context.Context, id uuid.UUID) (*models.Sponsorship, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res := r.db.WithContext(opCtx).
		Model(&models.Sponsorship{}).
		Where("id = ? AND status = ?", id, models.SponsorshipStatusOpen).
		Update("status", models.SponsorshipStatusClosed)
	if res.Error != nil {
		return nil, mapError("close", "sponsorship", res.Error)
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errs.NewNotFound("sponsorship")
		}
		return nil, errs.NewConflictError("sponsorship already closed")
	}
	return r.FindByID(ctx, id)
}
