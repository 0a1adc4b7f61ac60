package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrLedgerEntryNotFound = errors.New("employee skill not found")
	ErrLedgerEntryConflict = errors.New("employee already has this skill")
)

// ExpiringEntry is one row of the sweep query, joined with the user ids
// to notify and display fields for the message.
type ExpiringEntry struct {
	LedgerID      uuid.UUID
	EmployeeID    uuid.UUID
	EmployeeName  string
	SkillName     string
	ExpiresOn     time.Time
	UserID        *uuid.UUID
	ManagerUserID *uuid.UUID
}

type EmployeeSkillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (skill.LedgerEntry, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]skill.LedgerEntry, error)
	FindByEmployeeAndSkill(ctx context.Context, employeeID, skillID uuid.UUID) (skill.LedgerEntry, error)
	Create(ctx context.Context, e skill.LedgerEntry) (skill.LedgerEntry, error)
	Update(ctx context.Context, e skill.LedgerEntry) (skill.LedgerEntry, error)
	SetVerificationStatus(ctx context.Context, id uuid.UUID, status skill.VerificationStatus) error
	AddEvidence(ctx context.Context, ev skill.Evidence) (skill.Evidence, error)
	ListEvidence(ctx context.Context, ledgerID uuid.UUID) ([]skill.Evidence, error)
	ListExpiring(ctx context.Context, until time.Time) ([]ExpiringEntry, error)
}

type PostgresEmployeeSkillRepository struct {
	db database.DB
}

func NewPostgresEmployeeSkillRepository(db database.DB) *PostgresEmployeeSkillRepository {
	return &PostgresEmployeeSkillRepository{db: db}
}

const ledgerColumns = `id, employee_id, skill_id, current_level_id, target_level_id,
	override_target, source_type, verification_status, last_updated, expires_on, notes`

func (r *PostgresEmployeeSkillRepository) FindByID(ctx context.Context, id uuid.UUID) (skill.LedgerEntry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM employee_skills WHERE id = $1`, id)

	e, err := scanLedgerEntry(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return skill.LedgerEntry{}, ErrLedgerEntryNotFound
		}
		return skill.LedgerEntry{}, err
	}
	return e, nil
}

func (r *PostgresEmployeeSkillRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]skill.LedgerEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+ledgerColumns+`
		 FROM employee_skills
		 WHERE employee_id = $1
		 ORDER BY last_updated DESC`,
		employeeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.LedgerEntry, 0)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEmployeeSkillRepository) FindByEmployeeAndSkill(ctx context.Context, employeeID, skillID uuid.UUID) (skill.LedgerEntry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM employee_skills WHERE employee_id = $1 AND skill_id = $2`,
		employeeID, skillID,
	)

	e, err := scanLedgerEntry(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return skill.LedgerEntry{}, ErrLedgerEntryNotFound
		}
		return skill.LedgerEntry{}, err
	}
	return e, nil
}

func (r *PostgresEmployeeSkillRepository) Create(ctx context.Context, e skill.LedgerEntry) (skill.LedgerEntry, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO employee_skills (id, employee_id, skill_id, current_level_id, target_level_id,
			override_target, source_type, verification_status, last_updated, expires_on, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.EmployeeID, e.SkillID, e.CurrentLevelID, e.TargetLevelID,
		e.OverrideTarget, e.SourceType, e.VerificationStatus, e.LastUpdated, e.ExpiresOn, e.Notes,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return skill.LedgerEntry{}, ErrLedgerEntryConflict
		}
		return skill.LedgerEntry{}, err
	}
	return e, nil
}

func (r *PostgresEmployeeSkillRepository) Update(ctx context.Context, e skill.LedgerEntry) (skill.LedgerEntry, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE employee_skills
		 SET current_level_id = $1, target_level_id = $2, override_target = $3,
		     source_type = $4, verification_status = $5, last_updated = $6,
		     expires_on = $7, notes = $8
		 WHERE id = $9`,
		e.CurrentLevelID, e.TargetLevelID, e.OverrideTarget,
		e.SourceType, e.VerificationStatus, e.LastUpdated,
		e.ExpiresOn, e.Notes, e.ID,
	)
	if err != nil {
		return skill.LedgerEntry{}, err
	}
	if affected == 0 {
		return skill.LedgerEntry{}, ErrLedgerEntryNotFound
	}
	return e, nil
}

func (r *PostgresEmployeeSkillRepository) SetVerificationStatus(ctx context.Context, id uuid.UUID, status skill.VerificationStatus) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE employee_skills SET verification_status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLedgerEntryNotFound
	}
	return nil
}

func (r *PostgresEmployeeSkillRepository) AddEvidence(ctx context.Context, ev skill.Evidence) (skill.Evidence, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO skill_evidence (id, employee_skill_id, evidence_type, url, uploaded_by, uploaded_on)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, ev.LedgerID, ev.Type, ev.URL, ev.UploadedByID, ev.UploadedOn,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return skill.Evidence{}, ErrLedgerEntryNotFound
		}
		return skill.Evidence{}, err
	}
	return ev, nil
}

func (r *PostgresEmployeeSkillRepository) ListEvidence(ctx context.Context, ledgerID uuid.UUID) ([]skill.Evidence, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, employee_skill_id, evidence_type, url, uploaded_by, uploaded_on
		 FROM skill_evidence
		 WHERE employee_skill_id = $1
		 ORDER BY uploaded_on ASC`,
		ledgerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Evidence, 0)
	for rows.Next() {
		var ev skill.Evidence
		if err := rows.Scan(&ev.ID, &ev.LedgerID, &ev.Type, &ev.URL, &ev.UploadedByID, &ev.UploadedOn); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListExpiring includes rows that have already expired. The sweep keeps
// reminding about lapsed skills until they are refreshed.
func (r *PostgresEmployeeSkillRepository) ListExpiring(ctx context.Context, until time.Time) ([]ExpiringEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT es.id, es.employee_id, e.name, s.name, es.expires_on, e.user_id, m.user_id
		 FROM employee_skills es
		 JOIN employees e ON e.id = es.employee_id
		 JOIN skills s ON s.id = es.skill_id
		 LEFT JOIN employees m ON m.id = e.manager_id
		 WHERE es.expires_on IS NOT NULL AND es.expires_on <= $1
		 ORDER BY es.expires_on ASC`,
		until,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ExpiringEntry, 0)
	for rows.Next() {
		var e ExpiringEntry
		if err := rows.Scan(&e.LedgerID, &e.EmployeeID, &e.EmployeeName, &e.SkillName, &e.ExpiresOn, &e.UserID, &e.ManagerUserID); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanLedgerEntry(row database.Row) (skill.LedgerEntry, error) {
	var e skill.LedgerEntry
	err := row.Scan(&e.ID, &e.EmployeeID, &e.SkillID, &e.CurrentLevelID, &e.TargetLevelID,
		&e.OverrideTarget, &e.SourceType, &e.VerificationStatus, &e.LastUpdated, &e.ExpiresOn, &e.Notes)
	return e, err
}
