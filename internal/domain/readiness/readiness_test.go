package readiness

import (
	"testing"

	"github.com/google/uuid"
)

func TestCalculate_HalfAchieved(t *testing.T) {
	skillA, skillB := uuid.New(), uuid.New()

	required := []RequiredLine{
		{SkillID: skillA, TargetSequence: 2},
		{SkillID: skillB, TargetSequence: 3},
	}
	entries := []LedgerEntry{
		{SkillID: skillA, CurrentSequence: 2},
		{SkillID: skillB, CurrentSequence: 1},
	}

	res := Calculate(required, entries)
	if res.Score != 50.0 {
		t.Fatalf("expected readiness 50.0, got %v", res.Score)
	}
	if res.Gaps != 1 {
		t.Fatalf("expected 1 gap, got %d", res.Gaps)
	}
}

func TestCalculate_MissingLedgerEntryIsAGap(t *testing.T) {
	required := []RequiredLine{{SkillID: uuid.New(), TargetSequence: 1}}

	res := Calculate(required, nil)
	if res.Score != 0 || res.Gaps != 1 {
		t.Fatalf("expected 0%%/1 gap, got %v/%d", res.Score, res.Gaps)
	}
}

func TestCalculate_ExceedingTargetCounts(t *testing.T) {
	skill := uuid.New()
	required := []RequiredLine{{SkillID: skill, TargetSequence: 2}}
	entries := []LedgerEntry{{SkillID: skill, CurrentSequence: 4}}

	res := Calculate(required, entries)
	if res.Score != 100.0 || res.Gaps != 0 {
		t.Fatalf("expected 100%%/0 gaps, got %v/%d", res.Score, res.Gaps)
	}
}

func TestCalculate_EmptyRequiredSet(t *testing.T) {
	res := Calculate(nil, []LedgerEntry{{SkillID: uuid.New(), CurrentSequence: 3}})
	if res.Score != 0 || res.Gaps != 0 {
		t.Fatalf("expected 0/0 for empty required set, got %v/%d", res.Score, res.Gaps)
	}
}
