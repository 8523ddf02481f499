package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/models"
)

type ApplicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo {
	return &ApplicationRepo{db}
}

// FindByDeveloper returns a developer's submissions, newest first.
func (r *ApplicationRepo) FindByDeveloper(ctx context.Context, developerID uuid.UUID) ([]*models.Application, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var applications []*models.Application
	err := r.db.WithContext(ctx).
		Where("developer_id = ?", developerID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, mapError("find", "applications", err)
	}
	return applications, nil
}

// FindBySponsorship returns every application submitted to a sponsorship.
func (r *ApplicationRepo) FindBySponsorship(ctx context.Context, sponsorshipID uuid.UUID) ([]*models.Application, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var applications []*models.Application
	err := r.db.WithContext(ctx).
		Where("sponsorship_id = ?", sponsorshipID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, mapError("find", "applications", err)
	}
	return applications, nil
}

// FindByID returns an application by its ID, nil when absent.
func (r *ApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var application models.Application
	err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find", "application", err)
	}
	return &application, nil
}

// Add inserts a new application into the database
func (r *ApplicationRepo) Add(ctx context.Context, application *models.Application) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return mapError("create", "application", err)
	}
	return nil
}

// Decide executes the single terminal transition, pending -> accepted or
// pending -> rejected. The status predicate guarantees exactly one terminal
// write ever lands; a second decision conflicts.
func (r *ApplicationRepo) Decide(ctx context.Context, id uuid.UUID, status string) (*models.Application, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res := r.db.WithContext(opCtx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, models.ApplicationStatusPending).
		Update("status", status)
	if res.Error != nil {
		return nil, mapError("decide", "application", res.Error)
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errs.NewNotFound("application")
		}
		return nil, errs.NewConflictError("application already decided")
	}
	return r.FindByID(ctx, id)
}
