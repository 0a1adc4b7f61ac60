package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/course"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseRequestNotFound = errors.New("course request not found")
	ErrCourseRequestConflict = errors.New("duplicate course request in the same state")
	ErrRequestStateChanged   = errors.New("course request state changed concurrently")
)

type CourseRequestRepository interface {
	GetCourse(ctx context.Context, id uuid.UUID) (course.Course, error)
	CreateRequest(ctx context.Context, req course.Request) (course.Request, error)
	GetRequest(ctx context.Context, id uuid.UUID) (course.Request, error)
	// Transition moves a request from one state to another with an
	// optimistic state guard, appending the audit step (when given) in
	// the same transaction.
	Transition(ctx context.Context, requestID uuid.UUID, from, to course.RequestState, approvedOn, completedOn *time.Time, step *course.ApprovalStep) error
	ListSteps(ctx context.Context, requestID uuid.UUID) ([]course.ApprovalStep, error)
}

type PostgresCourseRequestRepository struct {
	db database.DB
}

func NewPostgresCourseRequestRepository(db database.DB) *PostgresCourseRequestRepository {
	return &PostgresCourseRequestRepository{db: db}
}

func (r *PostgresCourseRequestRepository) GetCourse(ctx context.Context, id uuid.UUID) (course.Course, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, provider, course_type, external_url, duration_hours, cost, active, approval_required
		 FROM courses WHERE id = $1`,
		id,
	)

	var c course.Course
	err := row.Scan(&c.ID, &c.Name, &c.Provider, &c.Type, &c.ExternalURL, &c.DurationHours, &c.Cost, &c.Active, &c.ApprovalRequired)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, ErrCourseNotFound
		}
		return course.Course{}, err
	}
	return c, nil
}

// CreateRequest assigns the human-readable number from the database
// sequence, replacing the "New" placeholder, and stores target skills in
// the same transaction.
func (r *PostgresCourseRequestRepository) CreateRequest(ctx context.Context, req course.Request) (course.Request, error) {
	err := database.WithinTx(ctx, r.db, func(tx database.Tx) error {
		if req.Number == "" || req.Number == "New" {
			var n int64
			if err := tx.QueryRow(ctx, `SELECT nextval('course_request_number_seq')`).Scan(&n); err != nil {
				return err
			}
			req.Number = fmt.Sprintf("CR%05d", n)
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO course_requests (id, number, employee_id, course_id, justification, state)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			req.ID, req.Number, req.EmployeeID, req.CourseID, req.Justification, req.State,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return ErrCourseRequestConflict
			}
			return err
		}

		for _, skillID := range req.TargetSkillIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO course_request_skills (request_id, skill_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				req.ID, skillID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return course.Request{}, err
	}
	return r.GetRequest(ctx, req.ID)
}

func (r *PostgresCourseRequestRepository) GetRequest(ctx context.Context, id uuid.UUID) (course.Request, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, number, employee_id, course_id, justification, state, approved_on, completed_on, created_at
		 FROM course_requests WHERE id = $1`,
		id,
	)

	var req course.Request
	err := row.Scan(&req.ID, &req.Number, &req.EmployeeID, &req.CourseID, &req.Justification, &req.State, &req.ApprovedOn, &req.CompletedOn, &req.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return course.Request{}, ErrCourseRequestNotFound
		}
		return course.Request{}, err
	}

	rows, err := r.db.Query(ctx, `SELECT skill_id FROM course_request_skills WHERE request_id = $1`, id)
	if err != nil {
		return course.Request{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var skillID uuid.UUID
		if err := rows.Scan(&skillID); err != nil {
			return course.Request{}, err
		}
		req.TargetSkillIDs = append(req.TargetSkillIDs, skillID)
	}
	if err := rows.Err(); err != nil {
		return course.Request{}, err
	}
	return req, nil
}

func (r *PostgresCourseRequestRepository) Transition(ctx context.Context, requestID uuid.UUID, from, to course.RequestState, approvedOn, completedOn *time.Time, step *course.ApprovalStep) error {
	return database.WithinTx(ctx, r.db, func(tx database.Tx) error {
		affected, err := tx.Exec(ctx,
			`UPDATE course_requests
			 SET state = $1,
			     approved_on = COALESCE($2, approved_on),
			     completed_on = COALESCE($3, completed_on)
			 WHERE id = $4 AND state = $5`,
			to, approvedOn, completedOn, requestID, from,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return ErrCourseRequestConflict
			}
			return err
		}
		if affected == 0 {
			return ErrRequestStateChanged
		}

		if step != nil {
			_, err := tx.Exec(ctx,
				`INSERT INTO course_approval_steps (id, request_id, step_type, approver_user_id, decision, decision_on, comments)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				step.ID, step.RequestID, step.StepType, step.ApproverUserID, step.Decision, step.DecisionOn, step.Comments,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresCourseRequestRepository) ListSteps(ctx context.Context, requestID uuid.UUID) ([]course.ApprovalStep, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, request_id, step_type, approver_user_id, decision, decision_on, comments
		 FROM course_approval_steps
		 WHERE request_id = $1
		 ORDER BY decision_on ASC NULLS LAST, id ASC`,
		requestID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]course.ApprovalStep, 0)
	for rows.Next() {
		var s course.ApprovalStep
		if err := rows.Scan(&s.ID, &s.RequestID, &s.StepType, &s.ApproverUserID, &s.Decision, &s.DecisionOn, &s.Comments); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
