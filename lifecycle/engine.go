// Package lifecycle enforces the state machines on shared records. Every
// transition passes the authorization guard first and lands through a
// conditional update, so a losing concurrent writer surfaces a conflict,
// never success.
package lifecycle

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devbazaar/marketplace-backend/auth"
	"github.com/devbazaar/marketplace-backend/database"
	"github.com/devbazaar/marketplace-backend/errs"
)

type Engine struct {
	db     database.Database
	logger zerolog.Logger
}

func New(db database.Database) Engine {
	return Engine{
		db:     db,
		logger: log.With().Str("component", "lifecycle").Logger(),
	}
}

// guardErr translates a failed guard decision: anonymous subjects are
// unauthenticated (401), known subjects without rights are forbidden (403).
func guardErr(subject auth.Subject, action auth.Action, record auth.Record, message string) error {
	if auth.Allow(subject, action, record) {
		return nil
	}
	if subject.Anonymous() {
		return errs.Unauthorized
	}
	return errs.NewForbiddenError(message)
}
