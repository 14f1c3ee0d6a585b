package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"job-management-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

const uniqueViolation = "23505"

type candidateSchema struct {
	bun.BaseModel `bun:"table:candidate,alias:c"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,type:text"`
	Email       string    `bun:"email,type:text"`
	Description string    `bun:"description,type:text"`
	Password    string    `bun:"password,type:text"`
	Curriculum  string    `bun:"curriculum,type:text"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type candidateRepository struct {
	db bun.IDB
}

func NewCandidateRepository(db bun.IDB) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	now := time.Now().UTC()
	row := toSchema(candidate)
	row.ID = uuid.New()
	row.CreatedAt = now
	row.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return writeError("insert candidate", err)
	}

	candidate.ID = row.ID
	candidate.CreatedAt = row.CreatedAt
	candidate.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	var row candidateSchema
	err := r.db.NewSelect().Model(&row).Where("c.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, readError("get candidate", err)
	}
	return row.toDomain(), nil
}

func (r *candidateRepository) GetByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	var row candidateSchema
	err := r.db.NewSelect().Model(&row).Where("lower(c.email) = lower(?)", email).Limit(1).Scan(ctx)
	if err != nil {
		return nil, readError("get candidate by email", err)
	}
	return row.toDomain(), nil
}

func (r *candidateRepository) List(ctx context.Context, limit, offset int) ([]domain.Candidate, int, error) {
	var rows []candidateSchema
	total, err := r.db.NewSelect().
		Model(&rows).
		Order("c.created_at DESC", "c.id").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list candidates: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, *rows[i].toDomain())
	}
	return candidates, total, nil
}

func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate) error {
	row := toSchema(candidate)
	row.UpdatedAt = time.Now().UTC()

	res, err := r.db.NewUpdate().
		Model(&row).
		Column("name", "email", "description", "password", "curriculum", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return writeError("update candidate", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	candidate.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *candidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*candidateSchema)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

func readError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCandidateNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func writeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, domain.ErrEmailTaken)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toSchema(c *domain.Candidate) candidateSchema {
	return candidateSchema{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Description: c.Description,
		Password:    c.Password,
		Curriculum:  c.Curriculum,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (s *candidateSchema) toDomain() *domain.Candidate {
	return &domain.Candidate{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Description: s.Description,
		Password:    s.Password,
		Curriculum:  s.Curriculum,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
