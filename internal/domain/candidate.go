package domain

import (
	"context"
	"time"

	"job-management-backend/pkg/validation"

	"github.com/google/uuid"
)

// Candidate is a job applicant. ID is assigned by the repository on Create.
type Candidate struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	Password    string    `json:"-"`
	Curriculum  string    `json:"curriculum"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CandidateRequest is the write payload. Fields are pointers so that an
// absent value skips its rules while an empty one is still checked.
type CandidateRequest struct {
	Name        *string `json:"name,omitempty" jsonschema:"pattern=^\\s+$"`
	Email       *string `json:"email,omitempty" jsonschema:"format=email"`
	Description *string `json:"description,omitempty"`
	Password    *string `json:"password,omitempty" jsonschema:"writeOnly=true"`
	Curriculum  *string `json:"curriculum,omitempty"`
}

// CandidateRules is the rule table enforced on CandidateRequest.
//
// The name rule accepts only whitespace. It is kept as the product defined
// it until its intent is confirmed.
var CandidateRules = validation.RuleSet{
	Type: CandidateRequest{},
	Rules: []validation.Rule{
		{StructField: "Name", Field: "name", Tag: "whitespace_only", MessageKey: "candidate.name.whitespace"},
		{StructField: "Email", Field: "email", Tag: "loose_email", MessageKey: "candidate.email.invalid"},
	},
}

type CandidatePage struct {
	Items  []Candidate `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

type AuthToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CandidateRepository interface {
	// Create assigns the ID and timestamps.
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	GetByEmail(ctx context.Context, email string) (*Candidate, error)
	List(ctx context.Context, limit, offset int) ([]Candidate, int, error)
	Update(ctx context.Context, candidate *Candidate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CandidateUsecase interface {
	Create(ctx context.Context, req *CandidateRequest) (*Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	List(ctx context.Context, limit, offset int) (*CandidatePage, error)
	Update(ctx context.Context, id uuid.UUID, req *CandidateRequest) (*Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Authenticate(ctx context.Context, email, password string) (*AuthToken, error)
	// Profile returns the candidate authenticated on ctx.
	Profile(ctx context.Context) (*Candidate, error)
}

// TokenIssuer signs access tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
}
