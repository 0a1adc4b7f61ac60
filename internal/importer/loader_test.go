package importer

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"competency-hub/internal/domain/ladder"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

type stubSkillRepo struct {
	upserted   []skill.Skill
	categories []string
}

func (s *stubSkillRepo) List(context.Context) ([]skill.Skill, error) { return nil, nil }
func (s *stubSkillRepo) GetByID(context.Context, uuid.UUID) (skill.Skill, error) {
	return skill.Skill{}, repository.ErrSkillNotFound
}
func (s *stubSkillRepo) ExistsByID(context.Context, uuid.UUID) (bool, error) { return false, nil }
func (s *stubSkillRepo) Create(_ context.Context, sk skill.Skill) (skill.Skill, error) {
	return sk, nil
}
func (s *stubSkillRepo) UpsertByExternalKey(_ context.Context, sk skill.Skill) (uuid.UUID, error) {
	s.upserted = append(s.upserted, sk)
	return sk.ID, nil
}
func (s *stubSkillRepo) EnsureCategory(_ context.Context, name string) (uuid.UUID, error) {
	s.categories = append(s.categories, name)
	return uuid.New(), nil
}

type upsertedLine struct {
	profileID     uuid.UUID
	skillID       uuid.UUID
	targetLevelID uuid.UUID
	isRequired    bool
}

type stubProfileRepo struct {
	roleIDs map[string]uuid.UUID
	lines   []upsertedLine
}

func (s *stubProfileRepo) GetByID(context.Context, uuid.UUID) (repository.RoleProfile, error) {
	return repository.RoleProfile{}, repository.ErrRoleProfileNotFound
}
func (s *stubProfileRepo) ResolveForEmployee(context.Context, uuid.UUID, *uuid.UUID, time.Time) (repository.RoleProfile, error) {
	return repository.RoleProfile{}, repository.ErrRoleProfileNotFound
}
func (s *stubProfileRepo) RequiredLines(context.Context, uuid.UUID) ([]repository.RoleProfileLine, error) {
	return nil, nil
}
func (s *stubProfileRepo) LineForSkill(context.Context, uuid.UUID, uuid.UUID) (repository.RoleProfileLine, error) {
	return repository.RoleProfileLine{}, repository.ErrRoleProfileNotFound
}
func (s *stubProfileRepo) UpsertByExternalRoleID(_ context.Context, p repository.RoleProfileUpsert) (uuid.UUID, error) {
	id := uuid.New()
	if s.roleIDs == nil {
		s.roleIDs = make(map[string]uuid.UUID)
	}
	s.roleIDs[p.ExternalRoleID] = id
	return id, nil
}
func (s *stubProfileRepo) UpsertLine(_ context.Context, profileID, skillID, targetLevelID uuid.UUID, isRequired bool) error {
	s.lines = append(s.lines, upsertedLine{profileID, skillID, targetLevelID, isRequired})
	return nil
}

type stubLevelRepo struct {
	levels []ladder.Level
}

func (s *stubLevelRepo) List(context.Context) ([]ladder.Level, error) { return s.levels, nil }
func (s *stubLevelRepo) GetByID(context.Context, uuid.UUID) (ladder.Level, error) {
	return ladder.Level{}, repository.ErrLevelNotFound
}
func (s *stubLevelRepo) Create(_ context.Context, lv ladder.Level) (ladder.Level, error) {
	return lv, nil
}

func TestLoader_Load(t *testing.T) {
	levelFour := uuid.New()
	levels := &stubLevelRepo{levels: []ladder.Level{
		{ID: uuid.New(), Sequence: 1},
		{ID: uuid.New(), Sequence: 2},
		{ID: uuid.New(), Sequence: 3},
		{ID: levelFour, Sequence: 4},
	}}
	skills := &stubSkillRepo{}
	profiles := &stubProfileRepo{}
	logger := log.New(io.Discard, "", 0)

	lib := Library{
		Skills: []SkillRecord{
			{ExternalKey: "python", Name: "Python", Type: skill.TypeHard, Category: "Uncategorized"},
		},
		Roles: []repository.RoleProfileUpsert{
			{ExternalRoleID: "data engineer::senior", Name: "Data Engineer (Senior)", RoleTitle: "Data Engineer"},
		},
		Lines: []LineRecord{
			{ExternalRoleID: "data engineer::senior", ExternalSkillKey: "python", TargetLevelSeq: 4, IsRequired: true},
		},
	}

	stats, err := NewLoader(skills, profiles, levels, logger).Load(context.Background(), lib)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.Skills != 1 || stats.Roles != 1 || stats.Lines != 1 || stats.SkippedLines != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if len(skills.categories) != 1 || skills.categories[0] != "Uncategorized" {
		t.Fatalf("expected Uncategorized category ensured, got %v", skills.categories)
	}
	if len(profiles.lines) != 1 {
		t.Fatalf("expected 1 line upserted, got %d", len(profiles.lines))
	}
	ln := profiles.lines[0]
	if ln.targetLevelID != levelFour || !ln.isRequired {
		t.Fatalf("expected required line at sequence-4 level, got %+v", ln)
	}
}

func TestLoader_Load_SkipsLineWithUnknownLevel(t *testing.T) {
	levels := &stubLevelRepo{levels: []ladder.Level{{ID: uuid.New(), Sequence: 1}}}
	skills := &stubSkillRepo{}
	profiles := &stubProfileRepo{}

	lib := Library{
		Skills: []SkillRecord{{ExternalKey: "go", Name: "Go", Type: skill.TypeHard, Category: "Uncategorized"}},
		Roles:  []repository.RoleProfileUpsert{{ExternalRoleID: "r1", Name: "Engineer"}},
		Lines:  []LineRecord{{ExternalRoleID: "r1", ExternalSkillKey: "go", TargetLevelSeq: 4, IsRequired: true}},
	}

	stats, err := NewLoader(skills, profiles, levels, log.New(io.Discard, "", 0)).Load(context.Background(), lib)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.SkippedLines != 1 || stats.Lines != 0 {
		t.Fatalf("line without a matching ladder rung must be skipped, got %+v", stats)
	}
}
