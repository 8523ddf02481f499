package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devbazaar/marketplace-backend/database"
	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/lifecycle"
	"github.com/devbazaar/marketplace-backend/models"
)

type sponsorshipHandler struct {
	responder       Responder
	logger          zerolog.Logger
	engine          lifecycle.Engine
	sponsorshipRepo *database.SponsorshipRepo
}

func newSponsorshipHandler(engine lifecycle.Engine, sponsorshipRepo *database.SponsorshipRepo) sponsorshipHandler {
	logger := log.With().Str("handlerName", "sponsorshipHandler").Logger()

	return sponsorshipHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		engine:          engine,
		sponsorshipRepo: sponsorshipRepo,
	}
}

// listSponsorships returns open postings to anyone. With ?sponsorId= a
// sponsor sees their own postings regardless of status.
func (h sponsorshipHandler) listSponsorships() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sponsorIDStr := r.URL.Query().Get("sponsorId")
		if sponsorIDStr == "" {
			sponsorships, err := h.sponsorshipRepo.FindOpen(r.Context())
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, sponsorships)
			return
		}

		sponsorID, err := uuid.Parse(sponsorIDStr)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("sponsorId", "not a valid id"))
			return
		}

		subject := ctxSubject(r.Context())
		if subject.Anonymous() {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}
		if subject.UserID != sponsorID {
			h.responder.WriteError(w, errs.NewForbiddenError("cannot list another sponsor's postings"))
			return
		}

		sponsorships, err := h.sponsorshipRepo.FindBySponsor(r.Context(), sponsorID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sponsorships)
	}
}

func (h sponsorshipHandler) getSponsorship() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sponsorshipID, err := uuid.Parse(chi.URLParam(r, "sponsorshipID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid sponsorshipID"))
			return
		}

		sponsorship, err := h.sponsorshipRepo.FindByID(r.Context(), sponsorshipID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if sponsorship == nil {
			h.responder.WriteError(w, errs.NewNotFound("sponsorship"))
			return
		}

		h.responder.WriteJSON(w, sponsorship)
	}
}

func (h sponsorshipHandler) createSponsorship() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSponsorshipRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		sponsorship, err := h.engine.CreateSponsorship(r.Context(), ctxSubject(r.Context()), lifecycle.SponsorshipInput{
			Title:       req.Title,
			Description: req.Description,
			Budget:      req.Budget,
			Timeline:    req.Timeline,
			Skills:      req.Skills,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{"success": true, "id": sponsorship.ID})
	}
}

// updateSponsorship applies owner edits, or the close transition when the
// body requests status "closed".
func (h sponsorshipHandler) updateSponsorship() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sponsorshipID, err := uuid.Parse(chi.URLParam(r, "sponsorshipID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid sponsorshipID"))
			return
		}

		var req updateSponsorshipRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		subject := ctxSubject(r.Context())

		if req.Status != nil {
			if *req.Status != models.SponsorshipStatusClosed {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "only the closed transition may be requested"))
				return
			}
			sponsorship, err := h.engine.CloseSponsorship(r.Context(), subject, sponsorshipID)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, sponsorship)
			return
		}

		sponsorship, err := h.engine.UpdateSponsorship(r.Context(), subject, sponsorshipID, lifecycle.SponsorshipChanges{
			Title:       req.Title,
			Description: req.Description,
			Budget:      req.Budget,
			Timeline:    req.Timeline,
			Skills:      req.Skills,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, sponsorship)
	}
}
