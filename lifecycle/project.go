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

// ProjectInput carries the seller-supplied fields of a new listing. The
// owner is never part of the input; it is forced from the session subject.
type ProjectInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	TechStack   []string
	Images      []string
	DemoVideo   string
	LiveURL     string
}

// ProjectChanges are the owner-editable fields; nil means unchanged.
type ProjectChanges struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	TechStack   []string
	Images      []string
	DemoVideo   *string
	LiveURL     *string
}

// CreateProject lists a new project owned by the subject.
func (e Engine) CreateProject(ctx context.Context, subject auth.Subject, in ProjectInput) (*models.Project, error) {
	if err := guardErr(subject, auth.ActionCreate, nil, "not allowed to create projects"); err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, errs.NewInvalidFieldError("price", "must be non-negative")
	}

	seller, err := e.db.UserRepo().FindByID(ctx, subject.UserID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, errs.Unauthorized
	}

	project := &models.Project{
		SellerID:    subject.UserID,
		SellerName:  seller.DisplayName,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		TechStack:   models.JSONList(in.TechStack),
		Images:      models.JSONList(in.Images),
		DemoVideo:   in.DemoVideo,
		LiveURL:     in.LiveURL,
		Status:      models.ProjectStatusAvailable,
		CreatedAt:   time.Now().UTC(),
	}

	if err := e.db.ProjectRepo().Add(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject applies owner field edits. Status never changes here; the
// only status transition a project has is Purchase.
func (e Engine) UpdateProject(ctx context.Context, subject auth.Subject, id uuid.UUID, changes ProjectChanges) (*models.Project, error) {
	project, err := e.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	if err := guardErr(subject, auth.ActionUpdate, project, "only the seller may edit a project"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if changes.Title != nil {
		fields["title"] = *changes.Title
	}
	if changes.Description != nil {
		fields["description"] = *changes.Description
	}
	if changes.Price != nil {
		if *changes.Price < 0 {
			return nil, errs.NewInvalidFieldError("price", "must be non-negative")
		}
		fields["price"] = *changes.Price
	}
	if changes.Category != nil {
		fields["category"] = *changes.Category
	}
	if changes.TechStack != nil {
		fields["tech_stack"] = models.JSONList(changes.TechStack)
	}
	if changes.Images != nil {
		fields["images"] = models.JSONList(changes.Images)
	}
	if changes.DemoVideo != nil {
		fields["demo_video"] = *changes.DemoVideo
	}
	if changes.LiveURL != nil {
		fields["live_url"] = *changes.LiveURL
	}
	if len(fields) == 0 {
		return project, nil
	}

	return e.db.ProjectRepo().UpdateFields(ctx, id, fields)
}

// Purchase executes the available -> sold transition with the subject as
// buyer. A lost race against another buyer is a conflict; so is any attempt
// after the sale.
func (e Engine) Purchase(ctx context.Context, subject auth.Subject, id uuid.UUID) (*models.Project, error) {
	project, err := e.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	if err := guardErr(subject, auth.ActionPurchase, project, "sellers cannot purchase their own project"); err != nil {
		return nil, err
	}

	sold, err := e.db.ProjectRepo().MarkSold(ctx, id, subject.UserID)
	if err != nil {
		if errs.IsConflict(err) {
			metrics.Transitions.WithLabelValues("project", "conflict").Inc()
		}
		return nil, err
	}

	metrics.Transitions.WithLabelValues("project", "sold").Inc()
	e.logger.Info().
		Str("projectID", id.String()).
		Str("buyerID", subject.UserID.String()).
		Msg("project sold")
	return sold, nil
}
