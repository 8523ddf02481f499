package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devbazaar/marketplace-backend/errs"
)

// TokenLifetime is the fixed session lifetime.
const TokenLifetime = 7 * 24 * time.Hour

const tokenIssuer = "marketplace-backend"

// Subject is the actor making a request, resolved from a session token.
// The zero value is the anonymous subject.
type Subject struct {
	UserID uuid.UUID
}

// AnonymousSubject is what an absent or unusable token resolves to on
// endpoints that allow anonymous reads.
var AnonymousSubject = Subject{}

func (s Subject) Anonymous() bool {
	return s.UserID == uuid.Nil
}

// TokenIssuer mints and verifies the signed bearer tokens that back
// sessions. Signing is symmetric; only holders of the key can mint or
// meaningfully verify.
type TokenIssuer struct {
	signingKey []byte
}

func NewTokenIssuer(signingKey []byte) TokenIssuer {
	return TokenIssuer{signingKey: signingKey}
}

// Issue mints a token embedding the subject id and a 7-day expiry.
func (t TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return signed, nil
}

// Resolve verifies a raw token and maps it back to its subject. Every
// failure mode (bad signature, wrong algorithm, malformed, expired) collapses
// to the same unauthorized error; callers that allow anonymous access treat
// that as "no session".
func (t TokenIssuer) Resolve(raw string) (Subject, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Unauthorized
		}
		return t.signingKey, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return AnonymousSubject, errs.Unauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return AnonymousSubject, errs.Unauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return AnonymousSubject, errs.Unauthorized
	}

	return Subject{UserID: userID}, nil
}
