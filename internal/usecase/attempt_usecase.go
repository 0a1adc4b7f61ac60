package usecase

import (
	"context"
	"errors"
	"time"

	"competency-hub/internal/config"
	"competency-hub/internal/domain/assessment"
	"competency-hub/internal/domain/ladder"
	"competency-hub/internal/domain/scoring"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/pkg/expiry"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrAssessmentNotFound    = errors.New("assessment not found")
	ErrAssessmentInactive    = errors.New("assessment is not active")
	ErrAttemptNotFound       = errors.New("assessment attempt not found")
	ErrAttemptAlreadyApplied = errors.New("assessment attempt already applied")
	ErrScoreOutOfRange       = errors.New("score must be between 0 and 100")
)

type CreateAttemptInput struct {
	EmployeeID   uuid.UUID
	AssessmentID uuid.UUID
	Score        float64
}

type AttemptUsecase interface {
	Create(ctx context.Context, in CreateAttemptInput) (assessment.Attempt, error)
	Get(ctx context.Context, id uuid.UUID) (assessment.Attempt, error)
	// Apply resolves the attempt's score through every skill mapping of
	// its assessment and commits the resulting ledger writes together
	// with the attempt's award in one transaction.
	Apply(ctx context.Context, attemptID uuid.UUID) (assessment.Attempt, error)
}

type Attempt struct {
	assessments repository.AssessmentRepository
	ledger      repository.EmployeeSkillRepository
	rules       repository.ScoringRuleRepository
	levels      repository.LevelRepository
	pol         config.Policy

	now func() time.Time
}

func NewAttemptUsecase(
	assessments repository.AssessmentRepository,
	ledger repository.EmployeeSkillRepository,
	rules repository.ScoringRuleRepository,
	levels repository.LevelRepository,
	pol config.Policy,
) *Attempt {
	return &Attempt{
		assessments: assessments,
		ledger:      ledger,
		rules:       rules,
		levels:      levels,
		pol:         pol,
		now:         time.Now,
	}
}

func (u *Attempt) Create(ctx context.Context, in CreateAttemptInput) (assessment.Attempt, error) {
	if in.EmployeeID == uuid.Nil || in.AssessmentID == uuid.Nil {
		return assessment.Attempt{}, ErrInvalidInput
	}
	if in.Score < 0 || in.Score > 100 {
		return assessment.Attempt{}, ErrScoreOutOfRange
	}

	a, err := u.assessments.GetAssessment(ctx, in.AssessmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return assessment.Attempt{}, ErrAssessmentNotFound
		}
		return assessment.Attempt{}, ErrInternal
	}
	if !a.Active {
		return assessment.Attempt{}, ErrAssessmentInactive
	}

	created, err := u.assessments.CreateAttempt(ctx, assessment.Attempt{
		ID:           uuid.New(),
		EmployeeID:   in.EmployeeID,
		AssessmentID: in.AssessmentID,
		Score:        in.Score,
		State:        assessment.AttemptDraft,
	})
	if err != nil {
		return assessment.Attempt{}, ErrInternal
	}
	return created, nil
}

func (u *Attempt) Get(ctx context.Context, id uuid.UUID) (assessment.Attempt, error) {
	a, err := u.assessments.GetAttempt(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return assessment.Attempt{}, ErrAttemptNotFound
		}
		return assessment.Attempt{}, ErrInternal
	}
	return a, nil
}

func (u *Attempt) Apply(ctx context.Context, attemptID uuid.UUID) (assessment.Attempt, error) {
	if attemptID == uuid.Nil {
		return assessment.Attempt{}, ErrInvalidInput
	}

	attempt, err := u.assessments.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return assessment.Attempt{}, ErrAttemptNotFound
		}
		return assessment.Attempt{}, ErrInternal
	}
	if attempt.State == assessment.AttemptDone {
		return assessment.Attempt{}, ErrAttemptAlreadyApplied
	}

	maps, err := u.assessments.ListSkillMaps(ctx, attempt.AssessmentID)
	if err != nil {
		return assessment.Attempt{}, ErrInternal
	}

	levels, err := u.levels.List(ctx)
	if err != nil {
		return assessment.Attempt{}, ErrInternal
	}
	seqByLevel := make(map[uuid.UUID]int, len(levels))
	for _, lv := range levels {
		seqByLevel[lv.ID] = lv.Sequence
	}

	now := u.now()
	expiresOn := expiry.DateFrom(now, u.pol.DefaultSkillExpiryMonths, u.pol.EnableSkillExpiry)

	writes := make([]repository.LedgerWrite, 0, len(maps))
	for _, m := range maps {
		levelID, ok, err := u.resolveMappedLevel(ctx, attempt.Score, m, levels)
		if err != nil {
			return assessment.Attempt{}, err
		}
		if !ok {
			continue
		}

		if m.MaxLevelID != nil && seqByLevel[levelID] > seqByLevel[*m.MaxLevelID] {
			levelID = *m.MaxLevelID
		}

		write, keep, err := u.planLedgerWrite(ctx, attempt.EmployeeID, m.SkillID, levelID, seqByLevel, now, expiresOn)
		if err != nil {
			return assessment.Attempt{}, err
		}
		if keep {
			writes = append(writes, write)
		}
	}

	// The attempt's own award always comes from the default ladder
	// buckets, even when every mapping carries a rule.
	var awardedLevelID *uuid.UUID
	if id, ok := scoring.ResolveDefault(attempt.Score, levels); ok {
		awardedLevelID = &id
	}

	if err := u.assessments.ApplyResult(ctx, attempt.ID, awardedLevelID, now, writes); err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return assessment.Attempt{}, ErrAttemptAlreadyApplied
		}
		return assessment.Attempt{}, ErrInternal
	}

	applied, err := u.assessments.GetAttempt(ctx, attempt.ID)
	if err != nil {
		return assessment.Attempt{}, ErrInternal
	}
	return applied, nil
}

func (u *Attempt) resolveMappedLevel(ctx context.Context, score float64, m assessment.SkillMap, levels []ladder.Level) (uuid.UUID, bool, error) {
	if m.ScoringRuleID == uuid.Nil {
		id, ok := scoring.ResolveDefault(score, levels)
		return id, ok, nil
	}
	lines, err := u.rules.ListLines(ctx, m.ScoringRuleID)
	if err != nil {
		return uuid.Nil, false, ErrInternal
	}
	id, ok := scoring.Resolve(score, lines)
	return id, ok, nil
}

// planLedgerWrite decides whether the resolved level lands in the ledger
// and how. An existing higher level survives unless downgrades are
// allowed by policy. Assessment results count as verified; no manager
// sign-off is pending on them.
func (u *Attempt) planLedgerWrite(ctx context.Context, employeeID, skillID, levelID uuid.UUID, seqByLevel map[uuid.UUID]int, now time.Time, expiresOn *time.Time) (repository.LedgerWrite, bool, error) {
	existing, err := u.ledger.FindByEmployeeAndSkill(ctx, employeeID, skillID)
	if err != nil {
		if errors.Is(err, repository.ErrLedgerEntryNotFound) {
			return repository.LedgerWrite{
				Entry: skill.LedgerEntry{
					ID:                 uuid.New(),
					EmployeeID:         employeeID,
					SkillID:            skillID,
					CurrentLevelID:     levelID,
					SourceType:         skill.SourceAssessed,
					VerificationStatus: skill.VerificationVerified,
					LastUpdated:        now,
					ExpiresOn:          expiresOn,
				},
				IsCreate: true,
			}, true, nil
		}
		return repository.LedgerWrite{}, false, ErrInternal
	}

	if seqByLevel[levelID] < seqByLevel[existing.CurrentLevelID] && !u.pol.AllowAssessmentDowngrade {
		return repository.LedgerWrite{}, false, nil
	}

	if existing.CurrentLevelID != levelID {
		existing.CurrentLevelID = levelID
		existing.LastUpdated = now
	}
	existing.SourceType = skill.SourceAssessed
	existing.VerificationStatus = skill.VerificationVerified
	existing.ExpiresOn = expiresOn

	return repository.LedgerWrite{Entry: existing, IsCreate: false}, true, nil
}
