package repository

import (
	"context"
	"database/sql"
	"errors"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/ladder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrLevelNotFound         = errors.New("proficiency level not found")
	ErrLevelSequenceConflict = errors.New("proficiency level sequence already in use")
)

type LevelRepository interface {
	List(ctx context.Context) ([]ladder.Level, error)
	GetByID(ctx context.Context, id uuid.UUID) (ladder.Level, error)
	Create(ctx context.Context, lv ladder.Level) (ladder.Level, error)
}

type PostgresLevelRepository struct {
	db database.DB
}

func NewPostgresLevelRepository(db database.DB) *PostgresLevelRepository {
	return &PostgresLevelRepository{db: db}
}

func (r *PostgresLevelRepository) List(ctx context.Context) ([]ladder.Level, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, sequence, description
		 FROM proficiency_levels
		 ORDER BY sequence ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ladder.Level, 0)
	for rows.Next() {
		var lv ladder.Level
		if err := rows.Scan(&lv.ID, &lv.Name, &lv.Sequence, &lv.Description); err != nil {
			return nil, err
		}
		out = append(out, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresLevelRepository) GetByID(ctx context.Context, id uuid.UUID) (ladder.Level, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, sequence, description FROM proficiency_levels WHERE id = $1`,
		id,
	)

	var lv ladder.Level
	if err := row.Scan(&lv.ID, &lv.Name, &lv.Sequence, &lv.Description); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return ladder.Level{}, ErrLevelNotFound
		}
		return ladder.Level{}, err
	}
	return lv, nil
}

func (r *PostgresLevelRepository) Create(ctx context.Context, lv ladder.Level) (ladder.Level, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO proficiency_levels (id, name, sequence, description)
		 VALUES ($1, $2, $3, $4)`,
		lv.ID, lv.Name, lv.Sequence, lv.Description,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return ladder.Level{}, ErrLevelSequenceConflict
		}
		return ladder.Level{}, err
	}
	return lv, nil
}
