package dto

import (
	"time"

	"github.com/google/uuid"
)

type AttemptResponse struct {
	ID             uuid.UUID  `json:"id"`
	EmployeeID     uuid.UUID  `json:"employee_id"`
	AssessmentID   uuid.UUID  `json:"assessment_id"`
	Score          float64    `json:"score"`
	AwardedLevelID *uuid.UUID `json:"awarded_level_id,omitempty"`
	State          string     `json:"state"`
	CompletedOn    *time.Time `json:"completed_on,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
