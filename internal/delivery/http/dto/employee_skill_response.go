package dto

import (
	"time"

	"github.com/google/uuid"
)

type LedgerEntryResponse struct {
	ID                 uuid.UUID  `json:"id"`
	EmployeeID         uuid.UUID  `json:"employee_id"`
	SkillID            uuid.UUID  `json:"skill_id"`
	CurrentLevelID     uuid.UUID  `json:"current_level_id"`
	TargetLevelID      *uuid.UUID `json:"target_level_id,omitempty"`
	OverrideTarget     bool       `json:"override_target"`
	SourceType         string     `json:"source_type"`
	VerificationStatus string     `json:"verification_status"`
	LastUpdated        time.Time  `json:"last_updated"`
	ExpiresOn          *time.Time `json:"expires_on,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

type EvidenceResponse struct {
	ID           uuid.UUID  `json:"id"`
	LedgerID     uuid.UUID  `json:"ledger_id"`
	Type         string     `json:"type"`
	URL          string     `json:"url"`
	UploadedByID *uuid.UUID `json:"uploaded_by_id,omitempty"`
	UploadedOn   time.Time  `json:"uploaded_on"`
}
