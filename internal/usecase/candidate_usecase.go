package usecase

import (
	"context"
	"errors"

	"job-management-backend/internal/domain"
	"job-management-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type candidateUsecase struct {
	repo     domain.CandidateRepository
	validate *validator.Validate
	tokens   domain.TokenIssuer
	hashCost int
}

func NewCandidateUsecase(repo domain.CandidateRepository, validate *validator.Validate, tokens domain.TokenIssuer) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:     repo,
		validate: validate,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

// Create returns validator.ValidationErrors unwrapped when req breaks the
// rule table; the HTTP layer turns them into the field/message list.
func (u *candidateUsecase) Create(ctx context.Context, req *domain.CandidateRequest) (*domain.Candidate, error) {
	if err := u.validate.StructCtx(ctx, req); err != nil {
		return nil, err
	}

	candidate := &domain.Candidate{}
	if err := u.apply(candidate, req); err != nil {
		return nil, err
	}

	if err := u.repo.Create(ctx, candidate); err != nil {
		return nil, repoError(err)
	}
	return candidate, nil
}

func (u *candidateUsecase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return candidate, nil
}

func (u *candidateUsecase) List(ctx context.Context, limit, offset int) (*domain.CandidatePage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := u.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &domain.CandidatePage{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Update overwrites only the fields present in req. Ownership is checked
// before the body is validated.
func (u *candidateUsecase) Update(ctx context.Context, id uuid.UUID, req *domain.CandidateRequest) (*domain.Candidate, error) {
	if err := authorize(ctx, id); err != nil {
		return nil, err
	}
	if err := u.validate.StructCtx(ctx, req); err != nil {
		return nil, err
	}

	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}

	if err := u.apply(candidate, req); err != nil {
		return nil, err
	}

	if err := u.repo.Update(ctx, candidate); err != nil {
		return nil, repoError(err)
	}
	return candidate, nil
}

func (u *candidateUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorize(ctx, id); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return repoError(err)
	}
	return nil
}

func (u *candidateUsecase) Authenticate(ctx context.Context, email, password string) (*domain.AuthToken, error) {
	// Same message for unknown email and wrong password
	invalid := apperror.Unauthorized("Invalid email or password")

	if email == "" || password == "" {
		return nil, invalid
	}

	candidate, err := u.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrCandidateNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	if candidate.Password == "" {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(candidate.Password), []byte(password)); err != nil {
		return nil, invalid
	}

	token, expiresAt, err := u.tokens.Issue(candidate.ID.String())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (u *candidateUsecase) Profile(ctx context.Context) (*domain.Candidate, error) {
	id, err := currentCandidate(ctx)
	if err != nil {
		return nil, err
	}
	return u.GetByID(ctx, id)
}

func currentCandidate(ctx context.Context) (uuid.UUID, error) {
	raw, ok := ctx.Value(domain.KeyCandidateID).(string)
	if !ok || raw == "" {
		return uuid.Nil, apperror.Unauthorized("Candidate not authenticated")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Candidate not authenticated")
	}
	return id, nil
}

// authorize allows a candidate to change only its own record.
func authorize(ctx context.Context, id uuid.UUID) error {
	current, err := currentCandidate(ctx)
	if err != nil {
		return err
	}
	if current != id {
		return apperror.Forbidden("You can only change your own profile")
	}
	return nil
}

func (u *candidateUsecase) apply(candidate *domain.Candidate, req *domain.CandidateRequest) error {
	if req.Name != nil {
		candidate.Name = *req.Name
	}
	if req.Email != nil {
		candidate.Email = *req.Email
	}
	if req.Description != nil {
		candidate.Description = *req.Description
	}
	if req.Curriculum != nil {
		candidate.Curriculum = *req.Curriculum
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), u.hashCost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return apperror.BadRequest("Password must be at most 72 bytes")
		}
		if err != nil {
			return apperror.Internal(err)
		}
		candidate.Password = string(hash)
	}
	return nil
}

func repoError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCandidateNotFound):
		return apperror.NotFound("Candidate not found")
	case errors.Is(err, domain.ErrEmailTaken):
		return apperror.Conflict("Email already registered", err)
	}
	return err
}
