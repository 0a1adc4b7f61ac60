package ladder

import (
	"testing"

	"github.com/google/uuid"
)

func fiveLevels() []Level {
	out := make([]Level, 0, 5)
	names := []string{"Novice", "Beginner", "Intermediate", "Advanced", "Expert"}
	for i, n := range names {
		out = append(out, Level{ID: uuid.New(), Name: n, Sequence: i + 1})
	}
	return out
}

func TestCompare(t *testing.T) {
	a := Level{Sequence: 2}
	b := Level{Sequence: 4}

	if got := Compare(a, b); got != Less {
		t.Fatalf("expected Less, got %d", got)
	}
	if got := Compare(b, a); got != Greater {
		t.Fatalf("expected Greater, got %d", got)
	}
	if got := Compare(a, a); got != Equal {
		t.Fatalf("expected Equal, got %d", got)
	}
}

func TestLevelForBucket_Boundaries(t *testing.T) {
	levels := fiveLevels()

	cases := []struct {
		score   float64
		wantSeq int
	}{
		{0, 1},
		{19, 1},
		{20, 2},
		{39, 2},
		{40, 3},
		{99, 5},
		{100, 5},
	}
	for _, c := range cases {
		lv, ok := LevelForBucket(c.score, levels)
		if !ok {
			t.Fatalf("score %v: expected a level", c.score)
		}
		if lv.Sequence != c.wantSeq {
			t.Fatalf("score %v: expected seq %d, got %d", c.score, c.wantSeq, lv.Sequence)
		}
	}
}

func TestLevelForBucket_NoQualifyingLevel(t *testing.T) {
	levels := []Level{{ID: uuid.New(), Name: "Advanced", Sequence: 4}}

	if _, ok := LevelForBucket(10, levels); ok {
		t.Fatalf("expected no level when all sequences exceed the bucket")
	}
}

func TestLevelForBucket_EmptyLadder(t *testing.T) {
	if _, ok := LevelForBucket(50, nil); ok {
		t.Fatalf("expected no level for empty ladder")
	}
}
