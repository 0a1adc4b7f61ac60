package usecase

import (
	"context"
	"testing"

	"competency-hub/internal/domain/employee"
	"competency-hub/internal/domain/ladder"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

func TestReadinessUsecase_HalfAchieved(t *testing.T) {
	employeeID := uuid.New()
	jobID := uuid.New()
	skillA := uuid.New()
	skillB := uuid.New()
	levelTwo := uuid.New()
	levelThree := uuid.New()

	employees := &mockEmployeeRepo{employees: map[uuid.UUID]employee.Employee{
		employeeID: {ID: employeeID, Name: "Sari", JobID: &jobID},
	}}
	profiles := &mockProfileRepo{
		hasProfile: true,
		profile:    repository.RoleProfile{ID: uuid.New(), Name: "Data Engineer"},
		requiredRows: []repository.RoleProfileLine{
			{SkillID: skillA, TargetLevelID: levelTwo, TargetSequence: 2, IsRequired: true},
			{SkillID: skillB, TargetLevelID: levelThree, TargetSequence: 3, IsRequired: true},
		},
	}
	ledger := newMockLedgerRepo()
	ledger.put(skill.LedgerEntry{ID: uuid.New(), EmployeeID: employeeID, SkillID: skillA, CurrentLevelID: levelTwo})
	ledger.put(skill.LedgerEntry{ID: uuid.New(), EmployeeID: employeeID, SkillID: skillB, CurrentLevelID: levelTwo})
	levels := &mockLevelRepo{levels: []ladder.Level{
		{ID: levelTwo, Sequence: 2},
		{ID: levelThree, Sequence: 3},
	}}

	uc := NewReadinessUsecase(employees, profiles, ledger, levels)
	result, err := uc.ForEmployee(context.Background(), employeeID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Score != 50 {
		t.Fatalf("expected score 50, got %v", result.Score)
	}
	if result.Gaps != 1 {
		t.Fatalf("expected 1 gap, got %d", result.Gaps)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
}

func TestReadinessUsecase_NoProfileReadsAsZero(t *testing.T) {
	employeeID := uuid.New()
	jobID := uuid.New()
	employees := &mockEmployeeRepo{employees: map[uuid.UUID]employee.Employee{
		employeeID: {ID: employeeID, JobID: &jobID},
	}}

	uc := NewReadinessUsecase(employees, &mockProfileRepo{}, newMockLedgerRepo(), &mockLevelRepo{})
	result, err := uc.ForEmployee(context.Background(), employeeID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Score != 0 || result.Gaps != 0 || result.ProfileID != nil {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestReadinessUsecase_NoJobReadsAsZero(t *testing.T) {
	employeeID := uuid.New()
	employees := &mockEmployeeRepo{employees: map[uuid.UUID]employee.Employee{
		employeeID: {ID: employeeID},
	}}

	uc := NewReadinessUsecase(employees, &mockProfileRepo{}, newMockLedgerRepo(), &mockLevelRepo{})
	result, err := uc.ForEmployee(context.Background(), employeeID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Score != 0 || result.Gaps != 0 {
		t.Fatalf("expected zero readiness, got %+v", result)
	}
}

func TestReadinessUsecase_ExceedingTargetCounts(t *testing.T) {
	employeeID := uuid.New()
	jobID := uuid.New()
	skillA := uuid.New()
	levelTwo := uuid.New()
	levelThree := uuid.New()

	employees := &mockEmployeeRepo{employees: map[uuid.UUID]employee.Employee{
		employeeID: {ID: employeeID, JobID: &jobID},
	}}
	profiles := &mockProfileRepo{
		hasProfile: true,
		profile:    repository.RoleProfile{ID: uuid.New()},
		requiredRows: []repository.RoleProfileLine{
			{SkillID: skillA, TargetLevelID: levelTwo, TargetSequence: 2, IsRequired: true},
		},
	}
	ledger := newMockLedgerRepo()
	ledger.put(skill.LedgerEntry{ID: uuid.New(), EmployeeID: employeeID, SkillID: skillA, CurrentLevelID: levelThree})
	levels := &mockLevelRepo{levels: []ladder.Level{
		{ID: levelTwo, Sequence: 2},
		{ID: levelThree, Sequence: 3},
	}}

	uc := NewReadinessUsecase(employees, profiles, ledger, levels)
	result, err := uc.ForEmployee(context.Background(), employeeID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Score != 100 || result.Gaps != 0 {
		t.Fatalf("exceeding the target must count as achieved, got %+v", result)
	}
}
