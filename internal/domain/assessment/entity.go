package assessment

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSurveyQuiz Type = "survey_quiz"
	TypeSelfSurvey Type = "self_survey"
	TypeExternal   Type = "external"
)

type Assessment struct {
	ID              uuid.UUID
	Name            string
	Type            Type
	ExternalURL     string
	DurationMinutes int
	Active          bool
}

// SkillMap ties one skill on an assessment to the scoring rule that
// grades it, with an optional cap level clamping the award.
type SkillMap struct {
	ID            uuid.UUID
	AssessmentID  uuid.UUID
	SkillID       uuid.UUID
	MaxLevelID    *uuid.UUID
	ScoringRuleID uuid.UUID
}

type AttemptState string

const (
	AttemptDraft AttemptState = "draft"
	AttemptDone  AttemptState = "done"
)

type Attempt struct {
	ID             uuid.UUID
	EmployeeID     uuid.UUID
	AssessmentID   uuid.UUID
	Score          float64
	AwardedLevelID *uuid.UUID
	State          AttemptState
	CompletedOn    *time.Time
	CreatedAt      time.Time
}
