package api

import (
	"github.com/devbazaar/marketplace-backend/auth"
	"github.com/devbazaar/marketplace-backend/database"
	"github.com/devbazaar/marketplace-backend/lifecycle"
	"github.com/devbazaar/marketplace-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, issuer auth.TokenIssuer, cookieSecure bool, uploads services.UploadStore) *routeHandlers {
	engine := lifecycle.New(db)

	return &routeHandlers{
		authHandler:        newAuthHandler(db.UserRepo(), issuer, cookieSecure),
		projectHandler:     newProjectHandler(engine, db.ProjectRepo()),
		sponsorshipHandler: newSponsorshipHandler(engine, db.SponsorshipRepo()),
		applicationHandler: newApplicationHandler(engine),
		uploadHandler:      newUploadHandler(uploads),
	}
}
