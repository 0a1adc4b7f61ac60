package usecase

import (
	"context"
	"errors"
	"strings"

	"competency-hub/internal/domain/ladder"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrLevelSequenceTaken = errors.New("a level with this sequence already exists")
	ErrSkillNameTaken     = errors.New("a skill with this name already exists")
	ErrInvalidSkillType   = errors.New("skill type must be hard or soft")
)

type CreateLevelInput struct {
	Name        string
	Sequence    int
	Description string
}

type CreateSkillInput struct {
	Name        string
	Type        skill.Type
	CategoryID  *uuid.UUID
	Description string
}

// CatalogUsecase maintains the proficiency ladder and the skill
// dictionary the rest of the system references.
type CatalogUsecase interface {
	ListLevels(ctx context.Context) ([]ladder.Level, error)
	CreateLevel(ctx context.Context, in CreateLevelInput) (ladder.Level, error)
	ListSkills(ctx context.Context) ([]skill.Skill, error)
	CreateSkill(ctx context.Context, in CreateSkillInput) (skill.Skill, error)
}

type Catalog struct {
	levels repository.LevelRepository
	skills repository.SkillRepository
}

func NewCatalogUsecase(levels repository.LevelRepository, skills repository.SkillRepository) *Catalog {
	return &Catalog{levels: levels, skills: skills}
}

func (u *Catalog) ListLevels(ctx context.Context) ([]ladder.Level, error) {
	levels, err := u.levels.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return levels, nil
}

func (u *Catalog) CreateLevel(ctx context.Context, in CreateLevelInput) (ladder.Level, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Sequence < 1 {
		return ladder.Level{}, ErrInvalidInput
	}

	created, err := u.levels.Create(ctx, ladder.Level{
		ID:          uuid.New(),
		Name:        name,
		Sequence:    in.Sequence,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		if errors.Is(err, repository.ErrLevelSequenceConflict) {
			return ladder.Level{}, ErrLevelSequenceTaken
		}
		return ladder.Level{}, ErrInternal
	}
	return created, nil
}

func (u *Catalog) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	skills, err := u.skills.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return skills, nil
}

func (u *Catalog) CreateSkill(ctx context.Context, in CreateSkillInput) (skill.Skill, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return skill.Skill{}, ErrInvalidInput
	}
	if in.Type != skill.TypeHard && in.Type != skill.TypeSoft {
		return skill.Skill{}, ErrInvalidSkillType
	}

	created, err := u.skills.Create(ctx, skill.Skill{
		ID:          uuid.New(),
		Name:        name,
		Type:        in.Type,
		CategoryID:  in.CategoryID,
		Description: strings.TrimSpace(in.Description),
		Active:      true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSkillAlreadyExists) {
			return skill.Skill{}, ErrSkillNameTaken
		}
		return skill.Skill{}, ErrInternal
	}
	return created, nil
}
