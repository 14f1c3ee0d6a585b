package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Emails are optional, so uniqueness only covers non-empty values.
var candidateIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS candidate_email_key ON candidate (lower(email)) WHERE email <> ''`,
	`CREATE INDEX IF NOT EXISTS candidate_created_at_idx ON candidate (created_at DESC)`,
}

// CreateTables creates the candidate table and its indexes when missing.
func CreateTables(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*candidateSchema)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create candidate table: %w", err)
	}

	for _, stmt := range candidateIndexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index %q: %w", stmt, err)
		}
	}
	return nil
}
