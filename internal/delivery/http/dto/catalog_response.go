package dto

import "github.com/google/uuid"

type LevelResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Sequence    int       `json:"sequence"`
	Description string    `json:"description,omitempty"`
}

type SkillResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"active"`
}
