package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes wires the full HTTP surface. Session resolution runs on every
// request; endpoints that require a subject reject anonymous themselves.
func setupRoutes(r chi.Router, handlers *routeHandlers, session sessionMiddleware, startupTime time.Time) {
	r.Group(func(r chi.Router) {
		r.Use(session.resolve)
		r.Use(RequestLoggingMiddleware)

		r.Post("/auth/signup", handlers.authHandler.signup())
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())
		r.Get("/auth/me", handlers.authHandler.me())

		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())

		r.Get("/sponsorships", handlers.sponsorshipHandler.listSponsorships())
		r.Post("/sponsorships", handlers.sponsorshipHandler.createSponsorship())
		r.Get("/sponsorships/{sponsorshipID}", handlers.sponsorshipHandler.getSponsorship())
		r.Put("/sponsorships/{sponsorshipID}", handlers.sponsorshipHandler.updateSponsorship())

		r.Get("/applications", handlers.applicationHandler.listApplications())
		r.Post("/applications", handlers.applicationHandler.createApplication())
		r.Put("/applications/{applicationID}", handlers.applicationHandler.decideApplication())

		r.Post("/upload", handlers.uploadHandler.upload())
	})

	r.Get("/health", healthCheck(startupTime))
	r.Handle("/metrics", promhttp.Handler())
}

func healthCheck(startupTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprintf(w, `{"status":"ok","uptime":"%s"}`, time.Since(startupTime).Round(time.Second))
	}
}
