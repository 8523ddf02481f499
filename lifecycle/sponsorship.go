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

// SponsorshipInput carries the sponsor-supplied fields of a new posting.
type SponsorshipInput struct {
	Title       string
	Description string
	Budget      string
	Timeline    string
	Skills      []string
}

// SponsorshipChanges are the owner-editable fields; nil means unchanged.
type SponsorshipChanges struct {
	Title       *string
	Description *string
	Budget      *string
	Timeline    *string
	Skills      []string
}

// CreateSponsorship posts a new sponsorship owned by the subject.
func (e Engine) CreateSponsorship(ctx context.Context, subject auth.Subject, in SponsorshipInput) (*models.Sponsorship, error) {
	if err := guardErr(subject, auth.ActionCreate, nil, "not allowed to create sponsorships"); err != nil {
		return nil, err
	}

	sponsor, err := e.db.UserRepo().FindByID(ctx, subject.UserID)
	if err != nil {
		return nil, err
	}
	if sponsor == nil {
		return nil, errs.Unauthorized
	}

	sponsorship := &models.Sponsorship{
		SponsorID:   subject.UserID,
		SponsorName: sponsor.DisplayName,
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		Timeline:    in.Timeline,
		Skills:      models.JSONList(in.Skills),
		Status:      models.SponsorshipStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}

	if err := e.db.SponsorshipRepo().Add(ctx, sponsorship); err != nil {
		return nil, err
	}
	return sponsorship, nil
}

// UpdateSponsorship applies owner field edits; closing goes through
// CloseSponsorship only.
func (e Engine) UpdateSponsorship(ctx context.Context, subject auth.Subject, id uuid.UUID, changes SponsorshipChanges) (*models.Sponsorship, error) {
	sponsorship, err := e.db.SponsorshipRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sponsorship == nil {
		return nil, errs.NewNotFound("sponsorship")
	}
	if err := guardErr(subject, auth.ActionUpdate, sponsorship, "only the sponsor may edit a sponsorship"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if changes.Title != nil {
		fields["title"] = *changes.Title
	}
	if changes.Description != nil {
		fields["description"] = *changes.Description
	}
	if changes.Budget != nil {
		fields["budget"] = *changes.Budget
	}
	if changes.Timeline != nil {
		fields["timeline"] = *changes.Timeline
	}
	if changes.Skills != nil {
		fields["skills"] = models.JSONList(changes.Skills)
	}
	if len(fields) == 0 {
		return sponsorship, nil
	}

	return e.db.SponsorshipRepo().UpdateFields(ctx, id, fields)
}

// CloseSponsorship executes the owner-initiated open -> closed transition.
func (e Engine) CloseSponsorship(ctx context.Context, subject auth.Subject, id uuid.UUID) (*models.Sponsorship, error) {
	sponsorship, err := e.db.SponsorshipRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sponsorship == nil {
		return nil, errs.NewNotFound("sponsorship")
	}
	if err := guardErr(subject, auth.ActionClose, sponsorship, "only the sponsor may close a sponsorship"); err != nil {
		return nil, err
	}

	closed, err := e.db.SponsorshipRepo().Close(ctx, id)
	if err != nil {
		if errs.IsConflict(err) {
			metrics.Transitions.WithLabelValues("sponsorship", "conflict").Inc()
		}
		return nil, err
	}

	metrics.Transitions.WithLabelValues("sponsorship", "closed").Inc()
	e.logger.Info().Str("sponsorshipID", id.String()).Msg("sponsorship closed")
	return closed, nil
}
