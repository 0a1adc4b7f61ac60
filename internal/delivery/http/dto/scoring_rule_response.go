package dto

import "github.com/google/uuid"

type ScoringRuleLineResponse struct {
	ID       uuid.UUID `json:"id"`
	RuleID   uuid.UUID `json:"rule_id"`
	MinScore float64   `json:"min_score"`
	MaxScore float64   `json:"max_score"`
	LevelID  uuid.UUID `json:"level_id"`
}

type ScoringRuleResponse struct {
	ID    uuid.UUID                 `json:"id"`
	Name  string                    `json:"name"`
	Lines []ScoringRuleLineResponse `json:"lines"`
}
