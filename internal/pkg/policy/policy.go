// Package policy holds the capability-check contract and the skill
// verification gates built on it.
package policy

import (
	"context"

	"competency-hub/internal/domain/skill"
	"competency-hub/internal/domain/user"

	"github.com/google/uuid"
)

// CapabilityChecker is the external access-control collaborator. Only
// boolean membership is consulted here.
type CapabilityChecker interface {
	HasCapability(ctx context.Context, userID uuid.UUID, capability string) (bool, error)
}

// VerificationGate is one independently evaluated predicate guarding a
// verification write.
type VerificationGate func(ctx context.Context, actorID uuid.UUID) (bool, error)

// GeneralVerification allows managers and HR admins to mark a ledger
// entry verified.
func GeneralVerification(checker CapabilityChecker) VerificationGate {
	return func(ctx context.Context, actorID uuid.UUID) (bool, error) {
		return hasAny(ctx, checker, actorID, user.CapabilityHRAdmin, user.CapabilityManager)
	}
}

// SoftSkillVerification is the second gate: when the soft-skill policy
// toggle is on, verifying a soft-type skill requires manager or HR-admin
// capability. It duplicates the general gate for soft skills today; the
// two are kept separate pending product clarification on whether the
// redundancy is intentional.
func SoftSkillVerification(checker CapabilityChecker, requireManagerForSoft bool, skillType skill.Type) VerificationGate {
	return func(ctx context.Context, actorID uuid.UUID) (bool, error) {
		if !requireManagerForSoft || skillType != skill.TypeSoft {
			return true, nil
		}
		return hasAny(ctx, checker, actorID, user.CapabilityManager, user.CapabilityHRAdmin)
	}
}

// EvaluateAll runs gates in order and reports the first denial.
func EvaluateAll(ctx context.Context, actorID uuid.UUID, gates ...VerificationGate) (bool, error) {
	for _, g := range gates {
		ok, err := g(ctx, actorID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func hasAny(ctx context.Context, checker CapabilityChecker, actorID uuid.UUID, capabilities ...string) (bool, error) {
	for _, c := range capabilities {
		ok, err := checker.HasCapability(ctx, actorID, c)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
