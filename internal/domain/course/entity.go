package course

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeELearning       Type = "elearning"
	TypeExternal        Type = "external"
	TypeInternalSession Type = "internal_session"
)

type Course struct {
	ID               uuid.UUID
	Name             string
	Provider         string
	Type             Type
	ExternalURL      string
	DurationHours    float64
	Cost             float64
	Active           bool
	ApprovalRequired bool
}

type SkillMap struct {
	ID        uuid.UUID
	CourseID  uuid.UUID
	SkillID   uuid.UUID
	Relevance float64
}

type RequestState string

const (
	StateDraft         RequestState = "draft"
	StateSubmitted     RequestState = "submitted"
	StateManagerReview RequestState = "manager_review"
	StateHRReview      RequestState = "hr_review"
	StateApproved      RequestState = "approved"
	StateRejected      RequestState = "rejected"
	StateInProgress    RequestState = "in_progress"
	StateCompleted     RequestState = "completed"
	// StateRequestInfo is set only by external tooling; no transition in
	// this service produces or consumes it.
	StateRequestInfo RequestState = "request_info"
)

type Request struct {
	ID             uuid.UUID
	Number         string
	EmployeeID     uuid.UUID
	CourseID       uuid.UUID
	Justification  string
	TargetSkillIDs []uuid.UUID
	State          RequestState
	ApprovedOn     *time.Time
	CompletedOn    *time.Time
	CreatedAt      time.Time
}

type StepType string

const (
	StepManager StepType = "manager"
	StepHR      StepType = "hr"
)

type Decision string

const (
	DecisionApprove     Decision = "approve"
	DecisionReject      Decision = "reject"
	DecisionRequestInfo Decision = "request_info"
)

// ApprovalStep is one audit-trail row. Steps are append-only and are
// removed only when their request is deleted.
type ApprovalStep struct {
	ID             uuid.UUID
	RequestID      uuid.UUID
	StepType       StepType
	ApproverUserID uuid.UUID
	Decision       *Decision
	DecisionOn     *time.Time
	Comments       string
}
