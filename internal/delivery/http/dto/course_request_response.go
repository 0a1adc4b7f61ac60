package dto

import (
	"time"

	"github.com/google/uuid"
)

type CourseRequestResponse struct {
	ID             uuid.UUID   `json:"id"`
	Number         string      `json:"number"`
	EmployeeID     uuid.UUID   `json:"employee_id"`
	CourseID       uuid.UUID   `json:"course_id"`
	Justification  string      `json:"justification"`
	TargetSkillIDs []uuid.UUID `json:"target_skill_ids,omitempty"`
	State          string      `json:"state"`
	ApprovedOn     *time.Time  `json:"approved_on,omitempty"`
	CompletedOn    *time.Time  `json:"completed_on,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

type ApprovalStepResponse struct {
	ID             uuid.UUID  `json:"id"`
	RequestID      uuid.UUID  `json:"request_id"`
	StepType       string     `json:"step_type"`
	ApproverUserID uuid.UUID  `json:"approver_user_id"`
	Decision       *string    `json:"decision,omitempty"`
	DecisionOn     *time.Time `json:"decision_on,omitempty"`
	Comments       string     `json:"comments,omitempty"`
}
