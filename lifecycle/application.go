package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/devbazaar/marketplace-backend/auth"
	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/metrics"
	"github.com/devbazaar/marketplace-backend/models"
)

// ApplicationInput carries a developer's submission. The developer id is
// forced from the session subject.
type ApplicationInput struct {
	SponsorshipID uuid.UUID
	Intro         string
	ContactNumber string
	PortfolioURL  string
	ResumeURL     string
}

// Apply submits an application to an open sponsorship. A closed sponsorship
// conflicts and a missing one is not found; neither leaves a record behind.
func (e Engine) Apply(ctx context.Context, subject auth.Subject, in ApplicationInput) (*models.Application, error) {
	if err := guardErr(subject, auth.ActionApply, nil, "not allowed to apply"); err != nil {
		return nil, err
	}

	sponsorship, err := e.db.SponsorshipRepo().FindByID(ctx, in.SponsorshipID)
	if err != nil {
		return nil, err
	}
	if sponsorship == nil {
		return nil, errs.NewNotFound("sponsorship")
	}
	if sponsorship.Status != models.SponsorshipStatusOpen {
		return nil, errs.NewConflictError("sponsorship is closed")
	}

	developer, err := e.db.UserRepo().FindByID(ctx, subject.UserID)
	if err != nil {
		return nil, err
	}
	if developer == nil {
		return nil, errs.Unauthorized
	}

	application := &models.Application{
		SponsorshipID: sponsorship.ID,
		DeveloperID:   subject.UserID,
		DeveloperName: developer.DisplayName,
		Intro:         in.Intro,
		ContactNumber: in.ContactNumber,
		PortfolioURL:  in.PortfolioURL,
		ResumeURL:     in.ResumeURL,
		Status:        models.ApplicationStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := e.db.ApplicationRepo().Add(ctx, application); err != nil {
		return nil, err
	}

	metrics.Transitions.WithLabelValues("application", "submitted").Inc()
	return application, nil
}

// DecideApplication accepts or rejects a pending application. Only the owner
// of the application's sponsorship may decide, and each application takes
// exactly one terminal transition.
func (e Engine) DecideApplication(ctx context.Context, subject auth.Subject, id uuid.UUID, status string) (*models.Application, error) {
	if status != models.ApplicationStatusAccepted && status != models.ApplicationStatusRejected {
		return nil, errs.NewInvalidFieldError("status", "must be accepted or rejected")
	}

	application, err := e.db.ApplicationRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, errs.NewNotFound("application")
	}

	sponsorship, err := e.db.SponsorshipRepo().FindByID(ctx, application.SponsorshipID)
	if err != nil {
		return nil, err
	}
	if sponsorship == nil {
		return nil, errs.NewNotFound("sponsorship")
	}
	if err := guardErr(subject, auth.ActionDecide, sponsorship, "only the sponsor may decide applications"); err != nil {
		return nil, err
	}

	decided, err := e.db.ApplicationRepo().Decide(ctx, id, status)
	if err != nil {
		if errs.IsConflict(err) {
			metrics.Transitions.WithLabelValues("application", "conflict").Inc()
		}
		return nil, err
	}

	metrics.Transitions.WithLabelValues("application", status).Inc()
	e.logger.Info().
		Str("applicationID", id.String()).
		Str("status", status).
		Msg("application decided")
	return decided, nil
}

// ApplicationsForSponsorship lists a sponsorship's application set, visible
// only to the sponsorship's owner.
func (e Engine) ApplicationsForSponsorship(ctx context.Context, subject auth.Subject, sponsorshipID uuid.UUID) ([]*models.Application, error) {
	sponsorship, err := e.db.SponsorshipRepo().FindByID(ctx, sponsorshipID)
	if err != nil {
		return nil, err
	}
	if sponsorship == nil {
		return nil, errs.NewNotFound("sponsorship")
	}
	if err := guardErr(subject, auth.ActionListApplications, sponsorship, "only the sponsor may view applications"); err != nil {
		return nil, err
	}
	return e.db.ApplicationRepo().FindBySponsorship(ctx, sponsorshipID)
}

// ApplicationsForDeveloper lists the subject's own submissions; the filter is
// always the caller, never a client-supplied id.
func (e Engine) ApplicationsForDeveloper(ctx context.Context, subject auth.Subject) ([]*models.Application, error) {
	if subject.Anonymous() {
		return nil, errs.Unauthorized
	}
	return e.db.ApplicationRepo().FindByDeveloper(ctx, subject.UserID)
}
