package usecase

import (
	"context"
	"errors"

	"competency-hub/internal/domain/scoring"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrRuleNotFound     = errors.New("scoring rule not found")
	ErrRuleLineNotFound = errors.New("scoring rule line not found")
	ErrLevelNotFound    = errors.New("proficiency level not found")
)

type CreateRuleInput struct {
	Name string
}

type RuleLineInput struct {
	MinScore float64
	MaxScore float64
	LevelID  uuid.UUID
}

type ScoringRuleUsecase interface {
	CreateRule(ctx context.Context, in CreateRuleInput) (scoring.Rule, error)
	GetRule(ctx context.Context, id uuid.UUID) (scoring.Rule, error)
	AddLine(ctx context.Context, ruleID uuid.UUID, in RuleLineInput) (scoring.RuleLine, error)
	UpdateLine(ctx context.Context, ruleID, lineID uuid.UUID, in RuleLineInput) (scoring.RuleLine, error)
}

type ScoringRule struct {
	rules  repository.ScoringRuleRepository
	levels repository.LevelRepository
}

func NewScoringRuleUsecase(rules repository.ScoringRuleRepository, levels repository.LevelRepository) *ScoringRule {
	return &ScoringRule{rules: rules, levels: levels}
}

func (u *ScoringRule) CreateRule(ctx context.Context, in CreateRuleInput) (scoring.Rule, error) {
	if in.Name == "" {
		return scoring.Rule{}, ErrInvalidInput
	}
	created, err := u.rules.CreateRule(ctx, scoring.Rule{ID: uuid.New(), Name: in.Name})
	if err != nil {
		return scoring.Rule{}, ErrInternal
	}
	return created, nil
}

func (u *ScoringRule) GetRule(ctx context.Context, id uuid.UUID) (scoring.Rule, error) {
	rule, err := u.rules.GetRule(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScoringRuleNotFound) {
			return scoring.Rule{}, ErrRuleNotFound
		}
		return scoring.Rule{}, ErrInternal
	}
	return rule, nil
}

// AddLine validates the candidate range against its siblings before
// writing. The exclusion constraint still backstops concurrent writers;
// a constraint trip surfaces as the same overlap error.
func (u *ScoringRule) AddLine(ctx context.Context, ruleID uuid.UUID, in RuleLineInput) (scoring.RuleLine, error) {
	line := scoring.RuleLine{
		ID:       uuid.New(),
		RuleID:   ruleID,
		MinScore: in.MinScore,
		MaxScore: in.MaxScore,
		LevelID:  in.LevelID,
	}

	if err := u.validateLine(ctx, line); err != nil {
		return scoring.RuleLine{}, err
	}

	created, err := u.rules.CreateLine(ctx, line)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrScoringLineConflict):
			return scoring.RuleLine{}, scoring.ErrRangeOverlap
		case repository.IsForeignKeyViolation(err):
			return scoring.RuleLine{}, ErrRuleNotFound
		default:
			return scoring.RuleLine{}, ErrInternal
		}
	}
	return created, nil
}

func (u *ScoringRule) UpdateLine(ctx context.Context, ruleID, lineID uuid.UUID, in RuleLineInput) (scoring.RuleLine, error) {
	line := scoring.RuleLine{
		ID:       lineID,
		RuleID:   ruleID,
		MinScore: in.MinScore,
		MaxScore: in.MaxScore,
		LevelID:  in.LevelID,
	}

	if err := u.validateLine(ctx, line); err != nil {
		return scoring.RuleLine{}, err
	}

	updated, err := u.rules.UpdateLine(ctx, line)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrScoringLineConflict):
			return scoring.RuleLine{}, scoring.ErrRangeOverlap
		case errors.Is(err, repository.ErrScoringLineNotFound):
			return scoring.RuleLine{}, ErrRuleLineNotFound
		default:
			return scoring.RuleLine{}, ErrInternal
		}
	}
	return updated, nil
}

func (u *ScoringRule) validateLine(ctx context.Context, line scoring.RuleLine) error {
	if line.RuleID == uuid.Nil || line.LevelID == uuid.Nil {
		return ErrInvalidInput
	}

	if _, err := u.levels.GetByID(ctx, line.LevelID); err != nil {
		if errors.Is(err, repository.ErrLevelNotFound) {
			return ErrLevelNotFound
		}
		return ErrInternal
	}

	siblings, err := u.rules.ListLines(ctx, line.RuleID)
	if err != nil {
		return ErrInternal
	}
	return scoring.ValidateLine(line, siblings)
}
