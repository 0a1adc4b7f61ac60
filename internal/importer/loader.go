package importer

import (
	"context"
	"fmt"
	"log"

	"competency-hub/internal/domain/skill"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

type Stats struct {
	Skills       int
	Roles        int
	Lines        int
	SkippedLines int
}

// Loader writes a parsed library through the catalog repositories.
// Re-running the same file is idempotent: skills match on external key,
// profiles on external role id and lines on (profile, skill).
type Loader struct {
	skills   repository.SkillRepository
	profiles repository.RoleProfileRepository
	levels   repository.LevelRepository
	logger   *log.Logger
}

func NewLoader(skills repository.SkillRepository, profiles repository.RoleProfileRepository, levels repository.LevelRepository, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{skills: skills, profiles: profiles, levels: levels, logger: logger}
}

func (l *Loader) Load(ctx context.Context, lib Library) (Stats, error) {
	var stats Stats

	ladder, err := l.levels.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("importer: list levels: %w", err)
	}
	levelBySeq := make(map[int]uuid.UUID, len(ladder))
	for _, lv := range ladder {
		levelBySeq[lv.Sequence] = lv.ID
	}

	categoryIDs := make(map[string]uuid.UUID)
	skillIDs := make(map[string]uuid.UUID, len(lib.Skills))
	for _, s := range lib.Skills {
		categoryID, ok := categoryIDs[s.Category]
		if !ok {
			categoryID, err = l.skills.EnsureCategory(ctx, s.Category)
			if err != nil {
				return stats, fmt.Errorf("importer: ensure category %q: %w", s.Category, err)
			}
			categoryIDs[s.Category] = categoryID
		}

		id, err := l.skills.UpsertByExternalKey(ctx, skill.Skill{
			ID:          uuid.New(),
			Name:        s.Name,
			ExternalKey: s.ExternalKey,
			Type:        s.Type,
			CategoryID:  &categoryID,
		})
		if err != nil {
			return stats, fmt.Errorf("importer: upsert skill %q: %w", s.Name, err)
		}
		skillIDs[s.ExternalKey] = id
		stats.Skills++
	}

	profileIDs := make(map[string]uuid.UUID, len(lib.Roles))
	for _, r := range lib.Roles {
		id, err := l.profiles.UpsertByExternalRoleID(ctx, r)
		if err != nil {
			return stats, fmt.Errorf("importer: upsert role %q: %w", r.ExternalRoleID, err)
		}
		profileIDs[r.ExternalRoleID] = id
		stats.Roles++
	}

	for _, ln := range lib.Lines {
		profileID, okProfile := profileIDs[ln.ExternalRoleID]
		skillID, okSkill := skillIDs[ln.ExternalSkillKey]
		levelID, okLevel := levelBySeq[ln.TargetLevelSeq]
		if !okProfile || !okSkill || !okLevel {
			stats.SkippedLines++
			l.logger.Printf("[Import] skipping line role=%s skill=%s level_seq=%d", ln.ExternalRoleID, ln.ExternalSkillKey, ln.TargetLevelSeq)
			continue
		}

		if err := l.profiles.UpsertLine(ctx, profileID, skillID, levelID, ln.IsRequired); err != nil {
			return stats, fmt.Errorf("importer: upsert line role=%s skill=%s: %w", ln.ExternalRoleID, ln.ExternalSkillKey, err)
		}
		stats.Lines++
	}

	l.logger.Printf("[Import] skills=%d roles=%d lines=%d skipped=%d", stats.Skills, stats.Roles, stats.Lines, stats.SkippedLines)
	return stats, nil
}
