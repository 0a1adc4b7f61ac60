package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/assessment"
	"competency-hub/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrAttemptNotFound    = errors.New("assessment attempt not found")
)

type AssessmentRepository interface {
	GetAssessment(ctx context.Context, id uuid.UUID) (assessment.Assessment, error)
	ListSkillMaps(ctx context.Context, assessmentID uuid.UUID) ([]assessment.SkillMap, error)
	CreateAttempt(ctx context.Context, a assessment.Attempt) (assessment.Attempt, error)
	GetAttempt(ctx context.Context, id uuid.UUID) (assessment.Attempt, error)
	// ApplyResult persists an application's ledger writes together with
	// the attempt's award and state flip in one transaction.
	ApplyResult(ctx context.Context, attemptID uuid.UUID, awardedLevelID *uuid.UUID, completedOn time.Time, writes []LedgerWrite) error
}

// LedgerWrite is one decided ledger mutation of an assessment
// application. Create and update are distinguished by ID presence on
// the existing row.
type LedgerWrite struct {
	Entry    skill.LedgerEntry
	IsCreate bool
}

type PostgresAssessmentRepository struct {
	db database.DB
}

func NewPostgresAssessmentRepository(db database.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

func (r *PostgresAssessmentRepository) GetAssessment(ctx context.Context, id uuid.UUID) (assessment.Assessment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, assessment_type, external_url, duration_minutes, active
		 FROM assessments WHERE id = $1`,
		id,
	)

	var a assessment.Assessment
	if err := row.Scan(&a.ID, &a.Name, &a.Type, &a.ExternalURL, &a.DurationMinutes, &a.Active); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return assessment.Assessment{}, ErrAssessmentNotFound
		}
		return assessment.Assessment{}, err
	}
	return a, nil
}

func (r *PostgresAssessmentRepository) ListSkillMaps(ctx context.Context, assessmentID uuid.UUID) ([]assessment.SkillMap, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, assessment_id, skill_id, max_level_id, scoring_rule_id
		 FROM assessment_skill_maps
		 WHERE assessment_id = $1`,
		assessmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.SkillMap, 0)
	for rows.Next() {
		var m assessment.SkillMap
		if err := rows.Scan(&m.ID, &m.AssessmentID, &m.SkillID, &m.MaxLevelID, &m.ScoringRuleID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAssessmentRepository) CreateAttempt(ctx context.Context, a assessment.Attempt) (assessment.Attempt, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO assessment_attempts (id, employee_id, assessment_id, score, state)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.EmployeeID, a.AssessmentID, a.Score, a.State,
	)
	if err != nil {
		return assessment.Attempt{}, err
	}
	return r.GetAttempt(ctx, a.ID)
}

func (r *PostgresAssessmentRepository) GetAttempt(ctx context.Context, id uuid.UUID) (assessment.Attempt, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, employee_id, assessment_id, score, awarded_level_id, state, completed_on, created_at
		 FROM assessment_attempts WHERE id = $1`,
		id,
	)

	var a assessment.Attempt
	if err := row.Scan(&a.ID, &a.EmployeeID, &a.AssessmentID, &a.Score, &a.AwardedLevelID, &a.State, &a.CompletedOn, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return assessment.Attempt{}, ErrAttemptNotFound
		}
		return assessment.Attempt{}, err
	}
	return a, nil
}

func (r *PostgresAssessmentRepository) ApplyResult(ctx context.Context, attemptID uuid.UUID, awardedLevelID *uuid.UUID, completedOn time.Time, writes []LedgerWrite) error {
	return database.WithinTx(ctx, r.db, func(tx database.Tx) error {
		for _, w := range writes {
			e := w.Entry
			if w.IsCreate {
				_, err := tx.Exec(ctx,
					`INSERT INTO employee_skills (id, employee_id, skill_id, current_level_id,
						source_type, verification_status, last_updated, expires_on)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					e.ID, e.EmployeeID, e.SkillID, e.CurrentLevelID,
					e.SourceType, e.VerificationStatus, e.LastUpdated, e.ExpiresOn,
				)
				if err != nil {
					if IsUniqueViolation(err) {
						return ErrLedgerEntryConflict
					}
					return err
				}
				continue
			}

			affected, err := tx.Exec(ctx,
				`UPDATE employee_skills
				 SET current_level_id = $1, source_type = $2, verification_status = $3,
				     last_updated = $4, expires_on = $5
				 WHERE id = $6`,
				e.CurrentLevelID, e.SourceType, e.VerificationStatus,
				e.LastUpdated, e.ExpiresOn, e.ID,
			)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrLedgerEntryNotFound
			}
		}

		affected, err := tx.Exec(ctx,
			`UPDATE assessment_attempts
			 SET awarded_level_id = $1, state = $2, completed_on = $3
			 WHERE id = $4 AND state = $5`,
			awardedLevelID, assessment.AttemptDone, completedOn, attemptID, assessment.AttemptDraft,
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAttemptNotFound
		}
		return nil
	})
}
