package api

import (
	"encoding/json"
	"net/http"

	"github.com/devbazaar/marketplace-backend/errs"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler        authHandler
	projectHandler     projectHandler
	sponsorshipHandler sponsorshipHandler
	applicationHandler applicationHandler
	uploadHandler      uploadHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error  string `json:"error" example:"Internal Server Error"`
	Status string `json:"status" example:"error"`
	Field  string `json:"field,omitempty" example:"title"`
}

// decodeJSON decodes a request body into a schema struct, rejecting unknown
// fields before anything reaches business logic.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.NewMalformedPayloadError("request", err)
	}
	return nil
}

type signupRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	DisplayName   string `json:"displayName"`
	ContactNumber string `json:"contactNumber"`
}

func (req signupRequest) validate() error {
	if req.Email == "" {
		return errs.NewMissingRequiredFieldError("email")
	}
	if req.Password == "" {
		return errs.NewMissingRequiredFieldError("password")
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	TechStack   []string `json:"techStack"`
	Images      []string `json:"images"`
	DemoVideo   string   `json:"demoVideo"`
	LiveURL     string   `json:"liveUrl"`
}

func (req createProjectRequest) validate() error {
	if req.Title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if req.Price == nil {
		return errs.NewMissingRequiredFieldError("price")
	}
	if *req.Price < 0 {
		return errs.NewInvalidFieldError("price", "must be non-negative")
	}
	return nil
}

// updateProjectRequest carries owner edits, or the purchase transition when
// status requests "sold". The buyer is always the session subject.
type updateProjectRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	TechStack   []string `json:"techStack"`
	Images      []string `json:"images"`
	DemoVideo   *string  `json:"demoVideo"`
	LiveURL     *string  `json:"liveUrl"`
	Status      *string  `json:"status"`
}

type createSponsorshipRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      string   `json:"budget"`
	Timeline    string   `json:"timeline"`
	Skills      []string `json:"skills"`
}

func (req createSponsorshipRequest) validate() error {
	if req.Title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if req.Budget == "" {
		return errs.NewMissingRequiredFieldError("budget")
	}
	return nil
}

// updateSponsorshipRequest carries owner edits, or the close transition when
// status requests "closed".
type updateSponsorshipRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Budget      *string  `json:"budget"`
	Timeline    *string  `json:"timeline"`
	Skills      []string `json:"skills"`
	Status      *string  `json:"status"`
}

type createApplicationRequest struct {
	SponsorshipID string `json:"sponsorshipId"`
	Intro         string `json:"intro"`
	ContactNumber string `json:"contactNumber"`
	PortfolioURL  string `json:"portfolioUrl"`
	ResumeURL     string `json:"resumeUrl"`
}

func (req createApplicationRequest) validate() error {
	if req.SponsorshipID == "" {
		return errs.NewMissingRequiredFieldError("sponsorshipId")
	}
	return nil
}

type decideApplicationRequest struct {
	Status string `json:"status"`
}
