package api

import (
	"context"

	"github.com/devbazaar/marketplace-backend/auth"
)

type keyType string

const subjectKey keyType = "subject"

// ctxWithSubject adds the resolved session subject to the context
func ctxWithSubject(ctx context.Context, subject auth.Subject) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// ctxSubject retrieves the session subject; requests that carried no usable
// token resolve to the anonymous subject.
func ctxSubject(ctx context.Context) auth.Subject {
	if value := ctx.Value(subjectKey); value != nil {
		if subject, ok := value.(auth.Subject); ok {
			return subject
		}
	}
	return auth.AnonymousSubject
}
