package readiness

import "github.com/google/uuid"

// RequiredLine is a role profile line with is_required set, reduced to
// what the computation needs.
type RequiredLine struct {
	SkillID        uuid.UUID
	TargetSequence int
}

// LedgerEntry is an employee's current level for one skill.
type LedgerEntry struct {
	SkillID         uuid.UUID
	CurrentSequence int
}

type Result struct {
	Score float64
	Gaps  int
}

// Calculate returns the share of required lines the employee meets or
// exceeds, as a percentage, plus the gap count. An empty required set
// yields 0/0: no resolvable profile reads the same as zero readiness.
func Calculate(required []RequiredLine, entries []LedgerEntry) Result {
	if len(required) == 0 {
		return Result{}
	}

	bySkill := make(map[uuid.UUID]int, len(entries))
	for _, e := range entries {
		bySkill[e.SkillID] = e.CurrentSequence
	}

	achieved := 0
	for _, line := range required {
		if seq, ok := bySkill[line.SkillID]; ok && seq >= line.TargetSequence {
			achieved++
		}
	}

	return Result{
		Score: float64(achieved) * 100.0 / float64(len(required)),
		Gaps:  len(required) - achieved,
	}
}
