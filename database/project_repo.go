package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAvailable returns every project still listed for sale, newest first.
func (r *ProjectRepo) FindAvailable(ctx context.Context) ([]*models.Project, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ProjectStatusAvailable).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, mapError("find", "projects", err)
	}
	return projects, nil
}

// FindBySeller returns a seller's projects regardless of status.
func (r *ProjectRepo) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*models.Project, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, mapError("find", "projects", err)
	}
	return projects, nil
}

// FindByID returns a project by its ID, nil when absent.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find", "project", err)
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return mapError("create", "project", err)
	}
	return nil
}

// UpdateFields applies owner-edited fields. Status and buyer id never travel
// through here; MarkSold is the only path that touches them.
func (r *ProjectRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Project, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res := r.db.WithContext(opCtx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, mapError("update", "project", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound("project")
	}
	return r.FindByID(ctx, id)
}

// MarkSold executes the available -> sold transition as a single conditional
// update. The status predicate in the WHERE clause makes the write a
// compare-and-swap: of two racing buyers exactly one sees RowsAffected == 1,
// the other gets a conflict, never success.
func (r *ProjectRepo) MarkSold(ctx context.Context, id, buyerID uuid.UUID) (*models.Project, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res := r.db.WithContext(opCtx).
		Model(&models.Project{}).
		Where("id = ? AND status = ?", id, models.ProjectStatusAvailable).
		Updates(map[string]any{
			"status":   models.ProjectStatusSold,
			"buyer_id": buyerID,
		})
	if res.Error != nil {
		return nil, mapError("sell", "project", res.Error)
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errs.NewNotFound("project")
		}
		return nil, errs.NewConflictError("project already sold")
	}
	return r.FindByID(ctx, id)
}
