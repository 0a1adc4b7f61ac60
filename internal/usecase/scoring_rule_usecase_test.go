package usecase

import (
	"context"
	"errors"
	"testing"

	"competency-hub/internal/domain/ladder"
	"competency-hub/internal/domain/scoring"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

func scoringFixture() (*mockScoringRuleRepo, *mockLevelRepo, uuid.UUID, uuid.UUID) {
	levelID := uuid.New()
	ruleID := uuid.New()
	rules := newMockScoringRuleRepo()
	rules.rules[ruleID] = scoring.Rule{ID: ruleID, Name: "Quiz grading"}
	levels := &mockLevelRepo{levels: []ladder.Level{{ID: levelID, Name: "Intermediate", Sequence: 2}}}
	return rules, levels, ruleID, levelID
}

func TestScoringRuleUsecase_AddLine_InvertedRange(t *testing.T) {
	rules, levels, ruleID, levelID := scoringFixture()
	uc := NewScoringRuleUsecase(rules, levels)

	_, err := uc.AddLine(context.Background(), ruleID, RuleLineInput{MinScore: 60, MaxScore: 40, LevelID: levelID})
	if !errors.Is(err, scoring.ErrRangeInvalid) {
		t.Fatalf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestScoringRuleUsecase_AddLine_OverlapRejected(t *testing.T) {
	rules, levels, ruleID, levelID := scoringFixture()
	rules.lines[ruleID] = []scoring.RuleLine{
		{ID: uuid.New(), RuleID: ruleID, MinScore: 0, MaxScore: 59, LevelID: levelID},
	}
	uc := NewScoringRuleUsecase(rules, levels)

	_, err := uc.AddLine(context.Background(), ruleID, RuleLineInput{MinScore: 59, MaxScore: 80, LevelID: levelID})
	if !errors.Is(err, scoring.ErrRangeOverlap) {
		t.Fatalf("expected ErrRangeOverlap, got %v", err)
	}
}

func TestScoringRuleUsecase_AddLine_AdjacentAllowed(t *testing.T) {
	rules, levels, ruleID, levelID := scoringFixture()
	rules.lines[ruleID] = []scoring.RuleLine{
		{ID: uuid.New(), RuleID: ruleID, MinScore: 0, MaxScore: 59, LevelID: levelID},
	}
	uc := NewScoringRuleUsecase(rules, levels)

	line, err := uc.AddLine(context.Background(), ruleID, RuleLineInput{MinScore: 60, MaxScore: 100, LevelID: levelID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if line.MinScore != 60 || line.MaxScore != 100 {
		t.Fatalf("unexpected stored range: %+v", line)
	}
}

func TestScoringRuleUsecase_AddLine_UnknownLevel(t *testing.T) {
	rules, levels, ruleID, _ := scoringFixture()
	uc := NewScoringRuleUsecase(rules, levels)

	_, err := uc.AddLine(context.Background(), ruleID, RuleLineInput{MinScore: 0, MaxScore: 50, LevelID: uuid.New()})
	if !errors.Is(err, ErrLevelNotFound) {
		t.Fatalf("expected ErrLevelNotFound, got %v", err)
	}
}

func TestScoringRuleUsecase_UpdateLine_SkipsSelfOnOverlapCheck(t *testing.T) {
	rules, levels, ruleID, levelID := scoringFixture()
	lineID := uuid.New()
	rules.lines[ruleID] = []scoring.RuleLine{
		{ID: lineID, RuleID: ruleID, MinScore: 0, MaxScore: 59, LevelID: levelID},
	}
	uc := NewScoringRuleUsecase(rules, levels)

	updated, err := uc.UpdateLine(context.Background(), ruleID, lineID, RuleLineInput{MinScore: 0, MaxScore: 49, LevelID: levelID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.MaxScore != 49 {
		t.Fatalf("expected max 49, got %v", updated.MaxScore)
	}
}

func TestScoringRuleUsecase_AddLine_ConstraintTripMapsToOverlap(t *testing.T) {
	rules, levels, ruleID, levelID := scoringFixture()
	rules.createErr = repository.ErrScoringLineConflict
	uc := NewScoringRuleUsecase(rules, levels)

	_, err := uc.AddLine(context.Background(), ruleID, RuleLineInput{MinScore: 0, MaxScore: 50, LevelID: levelID})
	if !errors.Is(err, scoring.ErrRangeOverlap) {
		t.Fatalf("expected ErrRangeOverlap from constraint trip, got %v", err)
	}
}
