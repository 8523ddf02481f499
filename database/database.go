package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/models"
)

// opTimeout bounds every repository call. A deadline hit surfaces as a
// retryable unavailable error, not a hang.
const opTimeout = 5 * time.Second

type Database struct {
	userRepo        *UserRepo
	projectRepo     *ProjectRepo
	sponsorshipRepo *SponsorshipRepo
	applicationRepo *ApplicationRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:        NewUserRepo(db),
		projectRepo:     NewProjectRepo(db),
		sponsorshipRepo: NewSponsorshipRepo(db),
		applicationRepo: NewApplicationRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) SponsorshipRepo() *SponsorshipRepo {
	return d.sponsorshipRepo
}

func (d Database) ApplicationRepo() *ApplicationRepo {
	return d.applicationRepo
}

// Migrate creates or updates the schema for all entities.
func (d Database) Migrate() error {
	return d.userRepo.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Sponsorship{},
		&models.Application{},
	)
}

// opContext derives the bounded context every repository call runs under.
func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, opTimeout)
}

// mapError translates storage failures into the service error taxonomy.
func mapError(operation, entity string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.NewUnavailableError(operation + " " + entity)
	}
	return errs.NewDatabaseError(operation, entity, err)
}
