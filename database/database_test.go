package database_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devbazaar/marketplace-backend/database"
	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/models"
)

// newTestDatabase opens a throwaway in-memory database, migrated and scoped to
// the calling test by name so parallel tests never share state.
func newTestDatabase(t *testing.T) database.Database {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a shared in-memory database vanishes when its last connection closes
	sqlDB.SetMaxIdleConns(2)

	d := database.New(db)
	require.NoError(t, d.Migrate())
	return d
}

func seedUser(t *testing.T, d database.Database, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		DisplayName:  strings.Split(email, "@")[0],
		Roles:        models.JSONList([]string{"seller", "buyer", "sponsor", "developer"}),
	}
	require.NoError(t, d.UserRepo().Add(context.Background(), user))
	return user
}

func seedProject(t *testing.T, d database.Database, seller *models.User) *models.Project {
	t.Helper()

	project := &models.Project{
		SellerID:   seller.ID,
		SellerName: seller.DisplayName,
		Title:      "inventory dashboard",
		Price:      250,
		TechStack:  models.JSONList([]string{"go", "postgres"}),
		Images:     models.JSONList(nil),
	}
	require.NoError(t, d.ProjectRepo().Add(context.Background(), project))
	return project
}

func seedSponsorship(t *testing.T, d database.Database, sponsor *models.User) *models.Sponsorship {
	t.Helper()

	sponsorship := &models.Sponsorship{
		SponsorID:   sponsor.ID,
		SponsorName: sponsor.DisplayName,
		Title:       "build a billing integration",
		Budget:      "$2000",
		Skills:      models.JSONList([]string{"go"}),
	}
	require.NoError(t, d.SponsorshipRepo().Add(context.Background(), sponsorship))
	return sponsorship
}

func seedApplication(t *testing.T, d database.Database, sponsorship *models.Sponsorship, developer *models.User) *models.Application {
	t.Helper()

	application := &models.Application{
		SponsorshipID: sponsorship.ID,
		DeveloperID:   developer.ID,
		DeveloperName: developer.DisplayName,
		Intro:         "I have shipped this before",
	}
	require.NoError(t, d.ApplicationRepo().Add(context.Background(), application))
	return application
}

func TestUserRepo(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	t.Run("find by id and email", func(t *testing.T) {
		user := seedUser(t, d, "alice@example.com")

		byID, err := d.UserRepo().FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		require.Equal(t, user.Email, byID.Email)

		byEmail, err := d.UserRepo().FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		require.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("absent user is nil, not an error", func(t *testing.T) {
		user, err := d.UserRepo().FindByID(ctx, uuid.New())
		require.NoError(t, err)
		require.Nil(t, user)

		user, err = d.UserRepo().FindByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		require.Nil(t, user)
	})

	t.Run("duplicate email insert fails", func(t *testing.T) {
		seedUser(t, d, "dup@example.com")

		err := d.UserRepo().Add(ctx, &models.User{
			Email:        "dup@example.com",
			PasswordHash: "other",
		})
		require.Error(t, err)
		require.True(t, errs.IsAlreadyExists(err))
	})
}
