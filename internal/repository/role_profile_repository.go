package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"competency-hub/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrRoleProfileNotFound = errors.New("role profile not found")

type RoleProfile struct {
	ID             uuid.UUID
	Name           string
	ExternalRoleID string
	RoleTitle      string
	CareerLevel    string
	JobID          *uuid.UUID
	DepartmentID   *uuid.UUID
	Active         bool
	DateFrom       *time.Time
	DateTo         *time.Time
	CreatedAt      time.Time
}

type RoleProfileLine struct {
	ID             uuid.UUID
	ProfileID      uuid.UUID
	SkillID        uuid.UUID
	TargetLevelID  uuid.UUID
	TargetSequence int
	IsRequired     bool
	Weight         float64
}

// RoleProfileUpsert carries the importer's descriptive payload.
type RoleProfileUpsert struct {
	ExternalRoleID           string
	Name                     string
	RoleTitle                string
	CareerLevel              string
	Sector                   string
	Industry                 string
	DepartmentName           string
	SubDepartment            string
	JobFamily                string
	RoleDescription          string
	KeyResponsibilities      string
	PSODOccupationalCategory string
	PSODSkillLevel           string
	NQFBand                  string
	RecommendedNQFLevels     string
	SASCOMajorGroup          string
	SASCOSkillLevel          string
	SASCOUnitGroupCode       string
	ImportSource             string
	LastImportedOn           time.Time
}

type RoleProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (RoleProfile, error)
	// ResolveForEmployee picks the active profile matching the job whose
	// department is unset or matches, and whose date window contains
	// today; newest created wins, highest id breaks ties. An employee
	// without a department matches profiles of any department.
	ResolveForEmployee(ctx context.Context, jobID uuid.UUID, departmentID *uuid.UUID, today time.Time) (RoleProfile, error)
	RequiredLines(ctx context.Context, profileID uuid.UUID) ([]RoleProfileLine, error)
	LineForSkill(ctx context.Context, profileID, skillID uuid.UUID) (RoleProfileLine, error)
	UpsertByExternalRoleID(ctx context.Context, p RoleProfileUpsert) (uuid.UUID, error)
	UpsertLine(ctx context.Context, profileID, skillID, targetLevelID uuid.UUID, isRequired bool) error
}

type PostgresRoleProfileRepository struct {
	db database.DB
}

func NewPostgresRoleProfileRepository(db database.DB) *PostgresRoleProfileRepository {
	return &PostgresRoleProfileRepository{db: db}
}

const roleProfileColumns = `id, name, COALESCE(external_role_id, ''), role_title, career_level,
	job_id, department_id, active, date_from, date_to, created_at`

func (r *PostgresRoleProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (RoleProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+roleProfileColumns+` FROM role_profiles WHERE id = $1`, id)
	return scanRoleProfile(row)
}

func (r *PostgresRoleProfileRepository) ResolveForEmployee(ctx context.Context, jobID uuid.UUID, departmentID *uuid.UUID, today time.Time) (RoleProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+roleProfileColumns+`
		 FROM role_profiles
		 WHERE active
		   AND job_id = $1
		   AND ($2::uuid IS NULL OR department_id IS NULL OR department_id = $2)
		   AND (date_from IS NULL OR date_from <= $3)
		   AND (date_to IS NULL OR date_to >= $3)
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		jobID, departmentID, today,
	)
	return scanRoleProfile(row)
}

func (r *PostgresRoleProfileRepository) RequiredLines(ctx context.Context, profileID uuid.UUID) ([]RoleProfileLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT l.id, l.profile_id, l.skill_id, l.target_level_id, p.sequence, l.is_required, l.weight
		 FROM role_profile_lines l
		 JOIN proficiency_levels p ON p.id = l.target_level_id
		 WHERE l.profile_id = $1 AND l.is_required`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoleProfileLine, 0)
	for rows.Next() {
		var ln RoleProfileLine
		if err := rows.Scan(&ln.ID, &ln.ProfileID, &ln.SkillID, &ln.TargetLevelID, &ln.TargetSequence, &ln.IsRequired, &ln.Weight); err != nil {
			return nil, err
		}
		out = append(out, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRoleProfileRepository) LineForSkill(ctx context.Context, profileID, skillID uuid.UUID) (RoleProfileLine, error) {
	row := r.db.QueryRow(ctx,
		`SELECT l.id, l.profile_id, l.skill_id, l.target_level_id, p.sequence, l.is_required, l.weight
		 FROM role_profile_lines l
		 JOIN proficiency_levels p ON p.id = l.target_level_id
		 WHERE l.profile_id = $1 AND l.skill_id = $2`,
		profileID, skillID,
	)

	var ln RoleProfileLine
	if err := row.Scan(&ln.ID, &ln.ProfileID, &ln.SkillID, &ln.TargetLevelID, &ln.TargetSequence, &ln.IsRequired, &ln.Weight); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return RoleProfileLine{}, ErrRoleProfileNotFound
		}
		return RoleProfileLine{}, err
	}
	return ln, nil
}

func (r *PostgresRoleProfileRepository) UpsertByExternalRoleID(ctx context.Context, p RoleProfileUpsert) (uuid.UUID, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO role_profiles (
			id, name, external_role_id, role_title, career_level, sector, industry,
			department_name, sub_department, job_family, role_description, key_responsibilities,
			psod_occupational_category, psod_skill_level, nqf_band, recommended_nqf_levels,
			sasco_major_group, sasco_skill_level, sasco_unit_group_code,
			import_source, last_imported_on
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (external_role_id) DO UPDATE SET
			name = EXCLUDED.name,
			role_title = EXCLUDED.role_title,
			career_level = EXCLUDED.career_level,
			import_source = EXCLUDED.import_source,
			last_imported_on = EXCLUDED.last_imported_on
		RETURNING id`,
		uuid.New(), p.Name, p.ExternalRoleID, p.RoleTitle, p.CareerLevel, p.Sector, p.Industry,
		p.DepartmentName, p.SubDepartment, p.JobFamily, p.RoleDescription, p.KeyResponsibilities,
		p.PSODOccupationalCategory, p.PSODSkillLevel, p.NQFBand, p.RecommendedNQFLevels,
		p.SASCOMajorGroup, p.SASCOSkillLevel, p.SASCOUnitGroupCode,
		p.ImportSource, p.LastImportedOn,
	)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *PostgresRoleProfileRepository) UpsertLine(ctx context.Context, profileID, skillID, targetLevelID uuid.UUID, isRequired bool) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO role_profile_lines (id, profile_id, skill_id, target_level_id, is_required)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (profile_id, skill_id) DO UPDATE
		 SET target_level_id = EXCLUDED.target_level_id, is_required = EXCLUDED.is_required`,
		uuid.New(), profileID, skillID, targetLevelID, isRequired,
	)
	return err
}

func scanRoleProfile(row database.Row) (RoleProfile, error) {
	var p RoleProfile
	err := row.Scan(&p.ID, &p.Name, &p.ExternalRoleID, &p.RoleTitle, &p.CareerLevel,
		&p.JobID, &p.DepartmentID, &p.Active, &p.DateFrom, &p.DateTo, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return RoleProfile{}, ErrRoleProfileNotFound
		}
		return RoleProfile{}, err
	}
	return p, nil
}
