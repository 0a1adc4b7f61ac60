package repository

import (
	"context"
	"database/sql"
	"errors"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillAlreadyExists = errors.New("skill already exists")
)

type SkillRepository interface {
	List(ctx context.Context) ([]skill.Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, s skill.Skill) (skill.Skill, error)
	UpsertByExternalKey(ctx context.Context, s skill.Skill) (uuid.UUID, error)
	EnsureCategory(ctx context.Context, name string) (uuid.UUID, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `id, name, COALESCE(external_key, ''), skill_type, category_id, description, active, created_at`

func (r *PostgresSkillRepository) List(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE active ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id)

	s, err := scanSkill(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSkillRepository) Create(ctx context.Context, s skill.Skill) (skill.Skill, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, name, external_key, skill_type, category_id, description, active)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)`,
		s.ID, s.Name, s.ExternalKey, s.Type, s.CategoryID, s.Description, s.Active,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return skill.Skill{}, ErrSkillAlreadyExists
		}
		return skill.Skill{}, err
	}
	return s, nil
}

// UpsertByExternalKey is the importer's write path: matching external
// keys update name and type in place, new keys insert.
func (r *PostgresSkillRepository) UpsertByExternalKey(ctx context.Context, s skill.Skill) (uuid.UUID, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (id, name, external_key, skill_type, category_id, description, active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		 ON CONFLICT (external_key) DO UPDATE
		 SET name = EXCLUDED.name, skill_type = EXCLUDED.skill_type
		 RETURNING id`,
		s.ID, s.Name, s.ExternalKey, s.Type, s.CategoryID, s.Description,
	)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *PostgresSkillRepository) EnsureCategory(ctx context.Context, name string) (uuid.UUID, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO skill_categories (id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		uuid.New(), name,
	)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	err := row.Scan(&s.ID, &s.Name, &s.ExternalKey, &s.Type, &s.CategoryID, &s.Description, &s.Active, &s.CreatedAt)
	return s, err
}
