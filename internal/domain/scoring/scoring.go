package scoring

import (
	"errors"
	"sort"

	"competency-hub/internal/domain/ladder"

	"github.com/google/uuid"
)

var (
	ErrRangeInvalid = errors.New("max score must be greater than or equal to min score")
	ErrRangeOverlap = errors.New("scoring ranges cannot overlap")
)

type Rule struct {
	ID    uuid.UUID
	Name  string
	Lines []RuleLine
}

type RuleLine struct {
	ID       uuid.UUID
	RuleID   uuid.UUID
	MinScore float64
	MaxScore float64
	LevelID  uuid.UUID
}

// Resolve scans a rule's lines in ascending min score order and returns
// the level of the first line whose inclusive range contains score.
// Because ranges never overlap there is at most one match; no match is a
// legitimate "no award", not an error.
func Resolve(score float64, lines []RuleLine) (uuid.UUID, bool) {
	sorted := make([]RuleLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinScore < sorted[j].MinScore })

	for _, ln := range sorted {
		if ln.MinScore <= score && score <= ln.MaxScore {
			return ln.LevelID, true
		}
	}
	return uuid.Nil, false
}

// ResolveDefault applies the ladder bucket fallback used when no rule is
// supplied.
func ResolveDefault(score float64, levels []ladder.Level) (uuid.UUID, bool) {
	lv, ok := ladder.LevelForBucket(score, levels)
	if !ok {
		return uuid.Nil, false
	}
	return lv.ID, true
}

// ValidateLine checks a line against its siblings before a write. The
// Postgres exclusion constraint remains authoritative under concurrent
// writers; this keeps the common failure synchronous and descriptive.
func ValidateLine(candidate RuleLine, siblings []RuleLine) error {
	if candidate.MaxScore < candidate.MinScore {
		return ErrRangeInvalid
	}
	for _, s := range siblings {
		if s.ID == candidate.ID {
			continue
		}
		if s.MinScore <= candidate.MaxScore && s.MaxScore >= candidate.MinScore {
			return ErrRangeOverlap
		}
	}
	return nil
}
