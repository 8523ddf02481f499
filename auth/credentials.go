package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/devbazaar/marketplace-backend/errs"
	"github.com/devbazaar/marketplace-backend/models"
)

const bcryptCost = 10

// dummyHash is compared against when the email is unknown so that a failed
// verify takes the same time whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)

// UserStore is the slice of the repository the credential store needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
}

// Profile carries the optional signup fields alongside the credentials.
type Profile struct {
	DisplayName   string
	ContactNumber string
}

// Credentials verifies submitted secrets against stored salted hashes. The
// hash never leaves this package in any serialized form.
type Credentials struct {
	users UserStore
}

func NewCredentials(users UserStore) Credentials {
	return Credentials{users: users}
}

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. bcrypt's comparison is constant time.
func ComparePasswordAndHash(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// NormalizeEmail makes email uniqueness case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with the default role grant. The unique index on
// email backs the duplicate check, so a racing duplicate insert fails
// atomically with no partial record.
func (c Credentials) Register(ctx context.Context, email, secret string, profile Profile) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, errs.NewMissingRequiredFieldError("email")
	}
	if secret == "" {
		return nil, errs.NewMissingRequiredFieldError("password")
	}

	existing, err := c.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.NewBadRequestError("user already exists")
	}

	hash, err := HashPassword(secret)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to hash password", err)
	}

	user := &models.User{
		Email:         email,
		PasswordHash:  hash,
		DisplayName:   profile.DisplayName,
		ContactNumber: profile.ContactNumber,
		Roles:         models.JSONList(RoleNames(DefaultSignupRoles())),
		CreatedAt:     time.Now().UTC(),
	}

	if err := c.users.Add(ctx, user); err != nil {
		if errs.IsAlreadyExists(err) {
			return nil, errs.NewBadRequestError("user already exists")
		}
		return nil, err
	}

	return user, nil
}

// Verify checks a submitted secret. The failure is identical for an unknown
// email and a wrong password, in both message and observable timing.
func (c Credentials) Verify(ctx context.Context, email, secret string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || secret == "" {
		return nil, errs.NewUnauthenticatedError()
	}

	user, err := c.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		ComparePasswordAndHash(secret, string(dummyHash))
		return nil, errs.NewUnauthenticatedError()
	}

	if err := ComparePasswordAndHash(secret, user.PasswordHash); err != nil {
		return nil, errs.NewUnauthenticatedError()
	}

	return user, nil
}
