package scoring

import (
	"errors"
	"testing"

	"competency-hub/internal/domain/ladder"

	"github.com/google/uuid"
)

func threeBandRule() ([]RuleLine, uuid.UUID, uuid.UUID, uuid.UUID) {
	l1, l2, l3 := uuid.New(), uuid.New(), uuid.New()
	lines := []RuleLine{
		{ID: uuid.New(), MinScore: 60, MaxScore: 79, LevelID: l2},
		{ID: uuid.New(), MinScore: 0, MaxScore: 59, LevelID: l1},
		{ID: uuid.New(), MinScore: 80, MaxScore: 100, LevelID: l3},
	}
	return lines, l1, l2, l3
}

func TestResolve_InclusiveBoundaries(t *testing.T) {
	lines, l1, l2, l3 := threeBandRule()

	cases := []struct {
		score float64
		want  uuid.UUID
	}{
		{59, l1},
		{60, l2},
		{79, l2},
		{80, l3},
		{100, l3},
	}
	for _, c := range cases {
		got, ok := Resolve(c.score, lines)
		if !ok {
			t.Fatalf("score %v: expected an award", c.score)
		}
		if got != c.want {
			t.Fatalf("score %v: wrong level", c.score)
		}
	}
}

func TestResolve_OutOfRangeIsNoAward(t *testing.T) {
	lines, _, _, _ := threeBandRule()

	if _, ok := Resolve(-1, lines); ok {
		t.Fatalf("expected no award for score below all ranges")
	}
	if _, ok := Resolve(101, lines); ok {
		t.Fatalf("expected no award for score above all ranges")
	}
}

func TestResolve_GapBetweenRangesIsNoAward(t *testing.T) {
	lines := []RuleLine{
		{ID: uuid.New(), MinScore: 0, MaxScore: 40, LevelID: uuid.New()},
		{ID: uuid.New(), MinScore: 60, MaxScore: 100, LevelID: uuid.New()},
	}
	if _, ok := Resolve(50, lines); ok {
		t.Fatalf("expected no award in uncovered gap")
	}
}

func TestResolveDefault_UsesBucketFallback(t *testing.T) {
	levels := []ladder.Level{
		{ID: uuid.New(), Sequence: 1},
		{ID: uuid.New(), Sequence: 2},
	}
	id, ok := ResolveDefault(25, levels)
	if !ok {
		t.Fatalf("expected a level")
	}
	if id != levels[1].ID {
		t.Fatalf("expected sequence-2 level for score 25")
	}
}

func TestValidateLine_MaxBelowMin(t *testing.T) {
	err := ValidateLine(RuleLine{MinScore: 50, MaxScore: 40}, nil)
	if !errors.Is(err, ErrRangeInvalid) {
		t.Fatalf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestValidateLine_Overlap(t *testing.T) {
	siblings := []RuleLine{{ID: uuid.New(), MinScore: 0, MaxScore: 59}}

	err := ValidateLine(RuleLine{ID: uuid.New(), MinScore: 59, MaxScore: 100}, siblings)
	if !errors.Is(err, ErrRangeOverlap) {
		t.Fatalf("expected ErrRangeOverlap, got %v", err)
	}
}

func TestValidateLine_AdjacentRangesAllowed(t *testing.T) {
	siblings := []RuleLine{{ID: uuid.New(), MinScore: 0, MaxScore: 59}}

	if err := ValidateLine(RuleLine{ID: uuid.New(), MinScore: 60, MaxScore: 100}, siblings); err != nil {
		t.Fatalf("adjacent non-overlapping ranges must validate: %v", err)
	}
}

func TestValidateLine_UpdateSkipsSelf(t *testing.T) {
	id := uuid.New()
	siblings := []RuleLine{{ID: id, MinScore: 0, MaxScore: 59}}

	if err := ValidateLine(RuleLine{ID: id, MinScore: 0, MaxScore: 49}, siblings); err != nil {
		t.Fatalf("updating a line must not collide with itself: %v", err)
	}
}
