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

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	engine      lifecycle.Engine
	projectRepo *database.ProjectRepo
}

func newProjectHandler(engine lifecycle.Engine, projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		engine:      engine,
		projectRepo: projectRepo,
	}
}

// listProjects returns available listings to anyone. With ?sellerId= a
// seller sees their own projects regardless of status; nobody else's.
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerIDStr := r.URL.Query().Get("sellerId")
		if sellerIDStr == "" {
			projects, err := h.projectRepo.FindAvailable(r.Context())
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, projects)
			return
		}

		sellerID, err := uuid.Parse(sellerIDStr)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("sellerId", "not a valid id"))
			return
		}

		subject := ctxSubject(r.Context())
		if subject.Anonymous() {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}
		if subject.UserID != sellerID {
			h.responder.WriteError(w, errs.NewForbiddenError("cannot list another seller's projects"))
			return
		}

		projects, err := h.projectRepo.FindBySeller(r.Context(), sellerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject returns a single listing; public records are readable by anyone.
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject lists a new project owned by the session subject.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.engine.CreateProject(r.Context(), ctxSubject(r.Context()), lifecycle.ProjectInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       *req.Price,
			Category:    req.Category,
			TechStack:   req.TechStack,
			Images:      req.Images,
			DemoVideo:   req.DemoVideo,
			LiveURL:     req.LiveURL,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{"success": true, "id": project.ID})
	}
}

// updateProject applies owner edits, or executes the purchase transition
// when the body requests status "sold". The buyer id always comes from the
// session, never from the body.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		var req updateProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		subject := ctxSubject(r.Context())

		if req.Status != nil {
			if *req.Status != models.ProjectStatusSold {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "only the sold transition may be requested"))
				return
			}
			project, err := h.engine.Purchase(r.Context(), subject, projectID)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteJSON(w, project)
			return
		}

		project, err := h.engine.UpdateProject(r.Context(), subject, projectID, lifecycle.ProjectChanges{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			TechStack:   req.TechStack,
			Images:      req.Images,
			DemoVideo:   req.DemoVideo,
			LiveURL:     req.LiveURL,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}
