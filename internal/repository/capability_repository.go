package repository

import (
	"context"

	"competency-hub/internal/database"

	"github.com/google/uuid"
)

// PostgresCapabilityRepository implements the capability-check contract
// over the user_capabilities table.
type PostgresCapabilityRepository struct {
	db database.DB
}

func NewPostgresCapabilityRepository(db database.DB) *PostgresCapabilityRepository {
	return &PostgresCapabilityRepository{db: db}
}

func (r *PostgresCapabilityRepository) HasCapability(ctx context.Context, userID uuid.UUID, capability string) (bool, error) {
	var ok bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_capabilities WHERE user_id = $1 AND capability = $2)`,
		userID, capability,
	)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
