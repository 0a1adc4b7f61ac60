package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Capability names consulted through the capability-check contract.
const (
	CapabilityManager = "cdm_manager"
	CapabilityHRAdmin = "cdm_hr_admin"
)
