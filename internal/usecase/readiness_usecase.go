package usecase

import (
	"context"
	"errors"
	"time"

	"competency-hub/internal/domain/readiness"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

type ReadinessLine struct {
	SkillID         uuid.UUID
	TargetSequence  int
	CurrentSequence int
	Achieved        bool
}

type ReadinessResult struct {
	ProfileID   *uuid.UUID
	ProfileName string
	Score       float64
	Gaps        int
	Lines       []ReadinessLine
}

type ReadinessUsecase interface {
	ForEmployee(ctx context.Context, employeeID uuid.UUID) (ReadinessResult, error)
}

type Readiness struct {
	employees repository.EmployeeRepository
	profiles  repository.RoleProfileRepository
	ledger    repository.EmployeeSkillRepository
	levels    repository.LevelRepository

	now func() time.Time
}

func NewReadinessUsecase(
	employees repository.EmployeeRepository,
	profiles repository.RoleProfileRepository,
	ledger repository.EmployeeSkillRepository,
	levels repository.LevelRepository,
) *Readiness {
	return &Readiness{
		employees: employees,
		profiles:  profiles,
		ledger:    ledger,
		levels:    levels,
		now:       time.Now,
	}
}

// ForEmployee resolves the employee's role profile and scores their
// ledger against its required lines. No job, no matching profile or no
// required lines all read as zero readiness with zero gaps rather than
// an error.
func (u *Readiness) ForEmployee(ctx context.Context, employeeID uuid.UUID) (ReadinessResult, error) {
	if employeeID == uuid.Nil {
		return ReadinessResult{}, ErrInvalidInput
	}

	emp, err := u.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return ReadinessResult{}, ErrEmployeeNotFound
		}
		return ReadinessResult{}, ErrInternal
	}
	if emp.JobID == nil {
		return ReadinessResult{Lines: []ReadinessLine{}}, nil
	}

	profile, err := u.profiles.ResolveForEmployee(ctx, *emp.JobID, emp.DepartmentID, u.now())
	if err != nil {
		if errors.Is(err, repository.ErrRoleProfileNotFound) {
			return ReadinessResult{Lines: []ReadinessLine{}}, nil
		}
		return ReadinessResult{}, ErrInternal
	}

	required, err := u.profiles.RequiredLines(ctx, profile.ID)
	if err != nil {
		return ReadinessResult{}, ErrInternal
	}

	entries, err := u.ledger.FindByEmployee(ctx, employeeID)
	if err != nil {
		return ReadinessResult{}, ErrInternal
	}

	levels, err := u.levels.List(ctx)
	if err != nil {
		return ReadinessResult{}, ErrInternal
	}
	seqByLevel := make(map[uuid.UUID]int, len(levels))
	for _, lv := range levels {
		seqByLevel[lv.ID] = lv.Sequence
	}

	reqLines := make([]readiness.RequiredLine, 0, len(required))
	for _, ln := range required {
		reqLines = append(reqLines, readiness.RequiredLine{
			SkillID:        ln.SkillID,
			TargetSequence: ln.TargetSequence,
		})
	}

	ledgerLines := make([]readiness.LedgerEntry, 0, len(entries))
	currentBySkill := make(map[uuid.UUID]int, len(entries))
	for _, e := range entries {
		seq := seqByLevel[e.CurrentLevelID]
		ledgerLines = append(ledgerLines, readiness.LedgerEntry{
			SkillID:         e.SkillID,
			CurrentSequence: seq,
		})
		currentBySkill[e.SkillID] = seq
	}

	result := readiness.Calculate(reqLines, ledgerLines)

	out := ReadinessResult{
		ProfileID:   &profile.ID,
		ProfileName: profile.Name,
		Score:       result.Score,
		Gaps:        result.Gaps,
		Lines:       make([]ReadinessLine, 0, len(required)),
	}
	for _, ln := range required {
		current := currentBySkill[ln.SkillID]
		out.Lines = append(out.Lines, ReadinessLine{
			SkillID:         ln.SkillID,
			TargetSequence:  ln.TargetSequence,
			CurrentSequence: current,
			Achieved:        current >= ln.TargetSequence,
		})
	}
	return out, nil
}
