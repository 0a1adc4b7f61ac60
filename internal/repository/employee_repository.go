package repository

import (
	"context"
	"database/sql"
	"errors"

	"competency-hub/internal/database"
	"competency-hub/internal/domain/employee"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type EmployeeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error)
	// ManagerUserID resolves the user account of an employee's manager;
	// false when the employee has no manager or the manager has no user.
	ManagerUserID(ctx context.Context, employeeID uuid.UUID) (uuid.UUID, bool, error)
}

type PostgresEmployeeRepository struct {
	db database.DB
}

func NewPostgresEmployeeRepository(db database.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

func (r *PostgresEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, user_id, manager_id, job_id, department_id, created_at
		 FROM employees WHERE id = $1`,
		id,
	)

	var e employee.Employee
	err := row.Scan(&e.ID, &e.Name, &e.UserID, &e.ManagerID, &e.JobID, &e.DepartmentID, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *PostgresEmployeeRepository) ManagerUserID(ctx context.Context, employeeID uuid.UUID) (uuid.UUID, bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT m.user_id
		 FROM employees e
		 JOIN employees m ON m.id = e.manager_id
		 WHERE e.id = $1`,
		employeeID,
	)

	var userID *uuid.UUID
	if err := row.Scan(&userID); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	if userID == nil {
		return uuid.Nil, false, nil
	}
	return *userID, true, nil
}
