package dto

import "github.com/google/uuid"

type ReadinessLineResponse struct {
	SkillID         uuid.UUID `json:"skill_id"`
	TargetSequence  int       `json:"target_sequence"`
	CurrentSequence int       `json:"current_sequence"`
	Achieved        bool      `json:"achieved"`
}

type ReadinessResponse struct {
	ProfileID   *uuid.UUID              `json:"profile_id,omitempty"`
	ProfileName string                  `json:"profile_name,omitempty"`
	Score       float64                 `json:"score"`
	Gaps        int                     `json:"gaps"`
	Lines       []ReadinessLineResponse `json:"lines"`
}
