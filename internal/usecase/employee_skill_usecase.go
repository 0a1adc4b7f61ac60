package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"competency-hub/internal/config"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/notify"
	"competency-hub/internal/pkg/expiry"
	"competency-hub/internal/pkg/policy"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrLedgerEntryNotFound = errors.New("employee skill not found")
)

type UpsertSkillInput struct {
	SkillID       uuid.UUID
	LevelID       uuid.UUID
	Source        skill.SourceType
	TargetLevelID *uuid.UUID
	ExpiresOn     *time.Time
	Notes         string
}

type EvidenceInput struct {
	Type         skill.EvidenceType
	URL          string
	UploadedByID *uuid.UUID
}

type EmployeeSkillUsecase interface {
	ListLedger(ctx context.Context, employeeID uuid.UUID) ([]skill.LedgerEntry, error)
	UpsertSkill(ctx context.Context, employeeID uuid.UUID, in UpsertSkillInput) (skill.LedgerEntry, error)
	SetVerified(ctx context.Context, actorUserID, ledgerID uuid.UUID, verified bool) error
	RequestVerification(ctx context.Context, ledgerID uuid.UUID) error
	AddEvidence(ctx context.Context, ledgerID uuid.UUID, in EvidenceInput) (skill.Evidence, error)
	ListEvidence(ctx context.Context, ledgerID uuid.UUID) ([]skill.Evidence, error)
}

type EmployeeSkill struct {
	ledger    repository.EmployeeSkillRepository
	skills    repository.SkillRepository
	employees repository.EmployeeRepository
	levels    repository.LevelRepository
	profiles  repository.RoleProfileRepository
	checker   policy.CapabilityChecker
	notifier  notify.Sink
	pol       config.Policy

	now func() time.Time
}

func NewEmployeeSkillUsecase(
	ledger repository.EmployeeSkillRepository,
	skills repository.SkillRepository,
	employees repository.EmployeeRepository,
	levels repository.LevelRepository,
	profiles repository.RoleProfileRepository,
	checker policy.CapabilityChecker,
	notifier notify.Sink,
	pol config.Policy,
) *EmployeeSkill {
	return &EmployeeSkill{
		ledger:    ledger,
		skills:    skills,
		employees: employees,
		levels:    levels,
		profiles:  profiles,
		checker:   checker,
		notifier:  notifier,
		pol:       pol,
		now:       time.Now,
	}
}

func (u *EmployeeSkill) ListLedger(ctx context.Context, employeeID uuid.UUID) ([]skill.LedgerEntry, error) {
	if employeeID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	entries, err := u.ledger.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, ErrInternal
	}
	return entries, nil
}

// UpsertSkill keeps one ledger row per (employee, skill). A new skill
// inserts; an existing one mutates in place. LastUpdated is stamped only
// when the level actually moves, so re-declaring an unchanged level is
// invisible in the ledger. An assessed write without an explicit expiry
// picks up the policy default.
func (u *EmployeeSkill) UpsertSkill(ctx context.Context, employeeID uuid.UUID, in UpsertSkillInput) (skill.LedgerEntry, error) {
	if employeeID == uuid.Nil || in.SkillID == uuid.Nil || in.LevelID == uuid.Nil {
		return skill.LedgerEntry{}, ErrInvalidInput
	}
	if in.Source == "" {
		in.Source = skill.SourceSelfDeclared
	}

	emp, err := u.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return skill.LedgerEntry{}, ErrEmployeeNotFound
		}
		return skill.LedgerEntry{}, ErrInternal
	}

	exists, err := u.skills.ExistsByID(ctx, in.SkillID)
	if err != nil {
		return skill.LedgerEntry{}, ErrInternal
	}
	if !exists {
		return skill.LedgerEntry{}, ErrSkillNotFound
	}

	if _, err := u.levels.GetByID(ctx, in.LevelID); err != nil {
		if errors.Is(err, repository.ErrLevelNotFound) {
			return skill.LedgerEntry{}, ErrLevelNotFound
		}
		return skill.LedgerEntry{}, ErrInternal
	}

	now := u.now()
	expiresOn := in.ExpiresOn
	if expiresOn == nil && in.Source == skill.SourceAssessed {
		expiresOn = expiry.DateFrom(now, u.pol.DefaultSkillExpiryMonths, u.pol.EnableSkillExpiry)
	}

	existing, err := u.ledger.FindByEmployeeAndSkill(ctx, employeeID, in.SkillID)
	switch {
	case err == nil:
		return u.updateEntry(ctx, existing, in, now, expiresOn)
	case errors.Is(err, repository.ErrLedgerEntryNotFound):
		return u.createEntry(ctx, emp.ID, emp.JobID, emp.DepartmentID, in, now, expiresOn)
	default:
		return skill.LedgerEntry{}, ErrInternal
	}
}

func (u *EmployeeSkill) createEntry(ctx context.Context, employeeID uuid.UUID, jobID, departmentID *uuid.UUID, in UpsertSkillInput, now time.Time, expiresOn *time.Time) (skill.LedgerEntry, error) {
	entry := skill.LedgerEntry{
		ID:                 uuid.New(),
		EmployeeID:         employeeID,
		SkillID:            in.SkillID,
		CurrentLevelID:     in.LevelID,
		TargetLevelID:      in.TargetLevelID,
		OverrideTarget:     in.TargetLevelID != nil,
		SourceType:         in.Source,
		VerificationStatus: skill.VerificationNone,
		LastUpdated:        now,
		ExpiresOn:          expiresOn,
		Notes:              in.Notes,
	}

	if entry.TargetLevelID == nil {
		if target, ok := u.profileTarget(ctx, jobID, departmentID, in.SkillID, now); ok {
			entry.TargetLevelID = &target
		}
	}

	created, err := u.ledger.Create(ctx, entry)
	if err != nil {
		return skill.LedgerEntry{}, ErrInternal
	}
	return created, nil
}

func (u *EmployeeSkill) updateEntry(ctx context.Context, entry skill.LedgerEntry, in UpsertSkillInput, now time.Time, expiresOn *time.Time) (skill.LedgerEntry, error) {
	if entry.CurrentLevelID != in.LevelID {
		entry.CurrentLevelID = in.LevelID
		entry.LastUpdated = now
	}
	entry.SourceType = in.Source
	if in.TargetLevelID != nil {
		entry.TargetLevelID = in.TargetLevelID
		entry.OverrideTarget = true
	}
	if expiresOn != nil {
		entry.ExpiresOn = expiresOn
	}
	if in.Notes != "" {
		entry.Notes = in.Notes
	}

	updated, err := u.ledger.Update(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrLedgerEntryNotFound) {
			return skill.LedgerEntry{}, ErrLedgerEntryNotFound
		}
		return skill.LedgerEntry{}, ErrInternal
	}
	return updated, nil
}

// profileTarget derives the default target level from the employee's
// resolved role profile. Absence of a profile or a line is not an error.
func (u *EmployeeSkill) profileTarget(ctx context.Context, jobID, departmentID *uuid.UUID, skillID uuid.UUID, today time.Time) (uuid.UUID, bool) {
	if jobID == nil {
		return uuid.Nil, false
	}
	profile, err := u.profiles.ResolveForEmployee(ctx, *jobID, departmentID, today)
	if err != nil {
		return uuid.Nil, false
	}
	line, err := u.profiles.LineForSkill(ctx, profile.ID, skillID)
	if err != nil {
		return uuid.Nil, false
	}
	return line.TargetLevelID, true
}

// SetVerified guards the write with two independently evaluated gates.
// Either denial rejects the whole write.
func (u *EmployeeSkill) SetVerified(ctx context.Context, actorUserID, ledgerID uuid.UUID, verified bool) error {
	if actorUserID == uuid.Nil || ledgerID == uuid.Nil {
		return ErrInvalidInput
	}

	entry, sk, err := u.entryWithSkill(ctx, ledgerID)
	if err != nil {
		return err
	}

	allowed, err := policy.EvaluateAll(ctx, actorUserID,
		policy.GeneralVerification(u.checker),
		policy.SoftSkillVerification(u.checker, u.pol.RequireManagerVerificationForSoftSkills, sk.Type),
	)
	if err != nil {
		return ErrInternal
	}
	if !allowed {
		return ErrForbidden
	}

	status := skill.VerificationVerified
	if !verified {
		status = skill.VerificationRejected
	}
	if err := u.ledger.SetVerificationStatus(ctx, entry.ID, status); err != nil {
		if errors.Is(err, repository.ErrLedgerEntryNotFound) {
			return ErrLedgerEntryNotFound
		}
		return ErrInternal
	}

	if verified {
		if entry.VerificationStatus != skill.VerificationVerified {
			u.notifyEmployee(ctx, entry.EmployeeID, fmt.Sprintf("Your %s skill has been verified.", sk.Name))
		}
		// Source promotion is skipped; the verification status column
		// already records who vouched for the level.
	}
	return nil
}

// RequestVerification flags the entry pending and pings the employee's
// manager, when one with a user account exists.
func (u *EmployeeSkill) RequestVerification(ctx context.Context, ledgerID uuid.UUID) error {
	if ledgerID == uuid.Nil {
		return ErrInvalidInput
	}

	entry, sk, err := u.entryWithSkill(ctx, ledgerID)
	if err != nil {
		return err
	}

	if err := u.ledger.SetVerificationStatus(ctx, entry.ID, skill.VerificationPending); err != nil {
		if errors.Is(err, repository.ErrLedgerEntryNotFound) {
			return ErrLedgerEntryNotFound
		}
		return ErrInternal
	}

	managerUserID, ok, err := u.employees.ManagerUserID(ctx, entry.EmployeeID)
	if err == nil && ok && u.notifier != nil {
		emp, empErr := u.employees.GetByID(ctx, entry.EmployeeID)
		name := "An employee"
		if empErr == nil {
			name = emp.Name
		}
		u.notifier.Notify(ctx, managerUserID, fmt.Sprintf("%s requested verification of the %s skill.", name, sk.Name))
	}
	return nil
}

func (u *EmployeeSkill) AddEvidence(ctx context.Context, ledgerID uuid.UUID, in EvidenceInput) (skill.Evidence, error) {
	if ledgerID == uuid.Nil || in.URL == "" {
		return skill.Evidence{}, ErrInvalidInput
	}
	if in.Type == "" {
		in.Type = skill.EvidenceOther
	}

	ev, err := u.ledger.AddEvidence(ctx, skill.Evidence{
		ID:           uuid.New(),
		LedgerID:     ledgerID,
		Type:         in.Type,
		URL:          in.URL,
		UploadedByID: in.UploadedByID,
		UploadedOn:   u.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrLedgerEntryNotFound) {
			return skill.Evidence{}, ErrLedgerEntryNotFound
		}
		return skill.Evidence{}, ErrInternal
	}
	return ev, nil
}

func (u *EmployeeSkill) ListEvidence(ctx context.Context, ledgerID uuid.UUID) ([]skill.Evidence, error) {
	if ledgerID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	out, err := u.ledger.ListEvidence(ctx, ledgerID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *EmployeeSkill) entryWithSkill(ctx context.Context, ledgerID uuid.UUID) (skill.LedgerEntry, skill.Skill, error) {
	entry, err := u.findEntry(ctx, ledgerID)
	if err != nil {
		return skill.LedgerEntry{}, skill.Skill{}, err
	}
	sk, err := u.skills.GetByID(ctx, entry.SkillID)
	if err != nil {
		return skill.LedgerEntry{}, skill.Skill{}, ErrInternal
	}
	return entry, sk, nil
}

func (u *EmployeeSkill) findEntry(ctx context.Context, ledgerID uuid.UUID) (skill.LedgerEntry, error) {
	entry, err := u.ledger.FindByID(ctx, ledgerID)
	if err != nil {
		if errors.Is(err, repository.ErrLedgerEntryNotFound) {
			return skill.LedgerEntry{}, ErrLedgerEntryNotFound
		}
		return skill.LedgerEntry{}, ErrInternal
	}
	return entry, nil
}

func (u *EmployeeSkill) notifyEmployee(ctx context.Context, employeeID uuid.UUID, text string) {
	if u.notifier == nil {
		return
	}
	emp, err := u.employees.GetByID(ctx, employeeID)
	if err != nil || emp.UserID == nil {
		return
	}
	u.notifier.Notify(ctx, *emp.UserID, text)
}
