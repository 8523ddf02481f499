package database_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/models"
)

func TestApplicationRepoFind(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	sponsor := seedUser(t, d, "sponsor@example.com")
	dev := seedUser(t, d, "dev@example.com")
	otherDev := seedUser(t, d, "other@example.com")
	sponsorship := seedSponsorship(t, d, sponsor)

	mine := seedApplication(t, d, sponsorship, dev)
	seedApplication(t, d, sponsorship, otherDev)

	t.Run("by developer is self-scoped", func(t *testing.T) {
		apps, err := d.ApplicationRepo().FindByDeveloper(ctx, dev.ID)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, mine.ID, apps[0].ID)
	})

	t.Run("by sponsorship sees every applicant", func(t *testing.T) {
		apps, err := d.ApplicationRepo().FindBySponsorship(ctx, sponsorship.ID)
		require.NoError(t, err)
		assert.Len(t, apps, 2)
	})
}

func TestApplicationDecide(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	sponsor := seedUser(t, d, "sponsor@example.com")
	dev := seedUser(t, d, "dev@example.com")
	sponsorship := seedSponsorship(t, d, sponsor)
	application := seedApplication(t, d, sponsorship, dev)

	decided, err := d.ApplicationRepo().Decide(ctx, application.ID, models.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, decided.Status)

	// the terminal state is immutable, even toward the other terminal state
	_, err = d.ApplicationRepo().Decide(ctx, application.ID, models.ApplicationStatusRejected)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	current, err := d.ApplicationRepo().FindByID(ctx, application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, current.Status)

	_, err = d.ApplicationRepo().Decide(ctx, uuid.New(), models.ApplicationStatusAccepted)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
