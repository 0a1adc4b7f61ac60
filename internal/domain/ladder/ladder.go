package ladder

import (
	"math"

	"github.com/google/uuid"
)

// Level is one rung on the proficiency ladder. Levels are compared only
// by Sequence; name and id order are meaningless.
type Level struct {
	ID          uuid.UUID
	Name        string
	Sequence    int
	Description string
}

type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Greater
)

func Compare(a, b Level) Ordering {
	switch {
	case a.Sequence < b.Sequence:
		return Less
	case a.Sequence > b.Sequence:
		return Greater
	default:
		return Equal
	}
}

// LevelForBucket is the default fallback scorer: it returns the
// highest-sequence level whose sequence does not exceed
// floor(score/20)+1, or false when no level qualifies.
func LevelForBucket(score float64, levels []Level) (Level, bool) {
	bucket := int(math.Floor(score/20)) + 1

	var best Level
	found := false
	for _, lv := range levels {
		if lv.Sequence > bucket {
			continue
		}
		if !found || lv.Sequence > best.Sequence {
			best = lv
			found = true
		}
	}
	return best, found
}
