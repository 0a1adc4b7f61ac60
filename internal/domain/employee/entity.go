package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID
	Name         string
	UserID       *uuid.UUID
	ManagerID    *uuid.UUID
	JobID        *uuid.UUID
	DepartmentID *uuid.UUID
	CreatedAt    time.Time
}
