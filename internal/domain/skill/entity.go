package skill

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeHard Type = "hard"
	TypeSoft Type = "soft"
)

type Skill struct {
	ID          uuid.UUID
	Name        string
	ExternalKey string
	Type        Type
	CategoryID  *uuid.UUID
	Description string
	Active      bool
	CreatedAt   time.Time
}

type Category struct {
	ID     uuid.UUID
	Name   string
	Type   string // hard, soft or both
	Active bool
}

type SourceType string

const (
	SourceSelfDeclared    SourceType = "self_declared"
	SourceAssessed        SourceType = "assessed"
	SourceManagerVerified SourceType = "manager_verified"
	SourceImported        SourceType = "imported"
)

type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "none"
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// LedgerEntry is the single record of an employee's standing on one
// skill. There is exactly one per (employee, skill); updates mutate it
// in place. Evidence is the only append-only sub-entity.
type LedgerEntry struct {
	ID                 uuid.UUID
	EmployeeID         uuid.UUID
	SkillID            uuid.UUID
	CurrentLevelID     uuid.UUID
	TargetLevelID      *uuid.UUID
	OverrideTarget     bool
	SourceType         SourceType
	VerificationStatus VerificationStatus
	LastUpdated        time.Time
	ExpiresOn          *time.Time
	Notes              string
}

type EvidenceType string

const (
	EvidenceCertificate EvidenceType = "certificate"
	EvidenceProject     EvidenceType = "project"
	EvidenceLink        EvidenceType = "link"
	EvidenceOther       EvidenceType = "other"
)

type Evidence struct {
	ID           uuid.UUID
	LedgerID     uuid.UUID
	Type         EvidenceType
	URL          string
	UploadedByID *uuid.UUID
	UploadedOn   time.Time
}
