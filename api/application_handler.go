package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/lifecycle"
)

type applicationHandler struct {
	responder Responder
	logger    zerolog.Logger
	engine    lifecycle.Engine
}

func newApplicationHandler(engine lifecycle.Engine) applicationHandler {
	logger := log.With().Str("handlerName", "applicationHandler").Logger()

	return applicationHandler{
		responder: NewResponder(logger),
		logger:    logger,
		engine:    engine,
	}
}

// listApplications serves two scoped queries: ?developerId= lists the
// caller's own submissions, ?sponsorshipId= lists a sponsorship's
// application set for its owner only.
func (h applicationHandler) listApplications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := ctxSubject(r.Context())
		developerIDStr := r.URL.Query().Get("developerId")
		sponsorshipIDStr := r.URL.Query().Get("sponsorshipId")

		switch {
		case developerIDStr != "":
			developerID, err := uuid.Parse(developerIDStr)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("developerId", "not a valid id"))
				return
			}
			if subject.Anonymous() {
				h.responder.WriteError(w, errs.Unauthorized)
				return
			}
			if subject.UserID != developerID {
				h.responder.WriteError(w, errs.NewForbiddenError("cannot list another developer's applications"))
				return
			}
			applications, err := h.engine.ApplicationsForDeveloper(r.Context(), subject)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, applications)

		case sponsorshipIDStr != "":
			sponsorshipID, err := uuid.Parse(sponsorshipIDStr)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("sponsorshipId", "not a valid id"))
				return
			}
			applications, err := h.engine.ApplicationsForSponsorship(r.Context(), subject, sponsorshipID)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, applications)

		default:
			h.responder.WriteError(w, errs.NewBadRequestError("developerId or sponsorshipId query is required"))
		}
	}
}

// createApplication submits an application; the developer id is the session
// subject, never body input.
func (h applicationHandler) createApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createApplicationRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		sponsorshipID, err := uuid.Parse(req.SponsorshipID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("sponsorshipId", "not a valid id"))
			return
		}

		application, err := h.engine.Apply(r.Context(), ctxSubject(r.Context()), lifecycle.ApplicationInput{
			SponsorshipID: sponsorshipID,
			Intro:         req.Intro,
			ContactNumber: req.ContactNumber,
			PortfolioURL:  req.PortfolioURL,
			ResumeURL:     req.ResumeURL,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{"success": true, "id": application.ID})
	}
}

// decideApplication accepts or rejects a pending application on behalf of
// the sponsorship owner.
func (h applicationHandler) decideApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applicationID, err := uuid.Parse(chi.URLParam(r, "applicationID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid applicationID"))
			return
		}

		var req decideApplicationRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Status == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("status"))
			return
		}

		application, err := h.engine.DecideApplication(r.Context(), ctxSubject(r.Context()), applicationID, req.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, application)
	}
}
