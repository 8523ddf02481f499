package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devbazaar/marketplace-backend/auth"
	"github.com/devbazaar/marketplace-backend/database"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	credentials  auth.Credentials
	issuer       auth.TokenIssuer
	userRepo     *database.UserRepo
	cookieSecure bool
}

func newAuthHandler(userRepo *database.UserRepo, issuer auth.TokenIssuer, cookieSecure bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		credentials:  auth.NewCredentials(userRepo),
		issuer:       issuer,
		userRepo:     userRepo,
		cookieSecure: cookieSecure,
	}
}

// signup creates a user, issues a session, and binds it to the cookie. The
// user object never carries the password hash.
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.credentials.Register(r.Context(), req.Email, req.Password, auth.Profile{
			DisplayName:   req.DisplayName,
			ContactNumber: req.ContactNumber,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.issuer.Issue(user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		http.SetCookie(w, auth.NewSessionCookie(token, h.cookieSecure))
		h.responder.WriteJSON(w, map[string]any{"success": true, "user": user})
	}
}

// login verifies credentials and issues a fresh session. The failure message
// never distinguishes an unknown email from a wrong password.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.credentials.Verify(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.issuer.Issue(user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		http.SetCookie(w, auth.NewSessionCookie(token, h.cookieSecure))
		h.responder.WriteJSON(w, map[string]any{"success": true, "user": user})
	}
}

// logout expires the session cookie.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, auth.ExpiredSessionCookie(h.cookieSecure))
		h.responder.WriteJSON(w, map[string]any{"success": true})
	}
}

// me resolves the current subject. It never errors outward: any failure
// collapses to {"user": null}.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := ctxSubject(r.Context())
		if subject.Anonymous() {
			h.responder.WriteJSON(w, map[string]any{"user": nil})
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), subject.UserID)
		if err != nil || user == nil {
			if err != nil {
				h.logger.Warn().Err(err).Msg("failed to load session user")
			}
			h.responder.WriteJSON(w, map[string]any{"user": nil})
			return
		}

		h.responder.WriteJSON(w, map[string]any{"user": user})
	}
}
