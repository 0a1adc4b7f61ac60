package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"competency-hub/internal/config"
	"competency-hub/internal/domain/course"
	"competency-hub/internal/domain/user"
	"competency-hub/internal/notify"
	"competency-hub/internal/pkg/policy"
	"competency-hub/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseInactive        = errors.New("course is not active")
	ErrRequestNotFound       = errors.New("course request not found")
	ErrDuplicateRequest      = errors.New("a request for this course already exists in the same state")
	ErrInvalidTransition     = errors.New("course request is not in the expected state")
	ErrJustificationTooShort = errors.New("justification must be at least 10 characters")
)

const minJustificationLen = 10

type CreateRequestInput struct {
	EmployeeID     uuid.UUID
	CourseID       uuid.UUID
	Justification  string
	TargetSkillIDs []uuid.UUID
}

type DecisionInput struct {
	ActorUserID uuid.UUID
	Comments    string
}

type CourseRequestUsecase interface {
	Create(ctx context.Context, in CreateRequestInput) (course.Request, error)
	Get(ctx context.Context, id uuid.UUID) (course.Request, error)
	Submit(ctx context.Context, requestID uuid.UUID) (course.Request, error)
	ManagerApprove(ctx context.Context, requestID uuid.UUID, in DecisionInput) (course.Request, error)
	HRApprove(ctx context.Context, requestID uuid.UUID, in DecisionInput) (course.Request, error)
	Reject(ctx context.Context, requestID uuid.UUID, in DecisionInput) (course.Request, error)
	Start(ctx context.Context, requestID uuid.UUID) (course.Request, error)
	Complete(ctx context.Context, requestID uuid.UUID) (course.Request, error)
	ListSteps(ctx context.Context, requestID uuid.UUID) ([]course.ApprovalStep, error)
}

type CourseRequest struct {
	requests  repository.CourseRequestRepository
	employees repository.EmployeeRepository
	checker   policy.CapabilityChecker
	notifier  notify.Sink
	pol       config.Policy

	now func() time.Time
}

func NewCourseRequestUsecase(
	requests repository.CourseRequestRepository,
	employees repository.EmployeeRepository,
	checker policy.CapabilityChecker,
	notifier notify.Sink,
	pol config.Policy,
) *CourseRequest {
	return &CourseRequest{
		requests:  requests,
		employees: employees,
		checker:   checker,
		notifier:  notifier,
		pol:       pol,
		now:       time.Now,
	}
}

func (u *CourseRequest) Create(ctx context.Context, in CreateRequestInput) (course.Request, error) {
	if in.EmployeeID == uuid.Nil || in.CourseID == uuid.Nil {
		return course.Request{}, ErrInvalidInput
	}
	justification := strings.TrimSpace(in.Justification)
	if utf8.RuneCountInString(justification) < minJustificationLen {
		return course.Request{}, ErrJustificationTooShort
	}

	if _, err := u.employees.GetByID(ctx, in.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return course.Request{}, ErrEmployeeNotFound
		}
		return course.Request{}, ErrInternal
	}

	c, err := u.requests.GetCourse(ctx, in.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return course.Request{}, ErrCourseNotFound
		}
		return course.Request{}, ErrInternal
	}
	if !c.Active {
		return course.Request{}, ErrCourseInactive
	}

	created, err := u.requests.CreateRequest(ctx, course.Request{
		ID:             uuid.New(),
		Number:         "New",
		EmployeeID:     in.EmployeeID,
		CourseID:       in.CourseID,
		Justification:  justification,
		TargetSkillIDs: in.TargetSkillIDs,
		State:          course.StateDraft,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCourseRequestConflict) {
			return course.Request{}, ErrDuplicateRequest
		}
		return course.Request{}, ErrInternal
	}
	return created, nil
}

func (u *CourseRequest) Get(ctx context.Context, id uuid.UUID) (course.Request, error) {
	return u.getRequest(ctx, id)
}

// Submit moves a draft straight to manager review and pings the
// employee's manager.
func (u *CourseRequest) Submit(ctx context.Context, requestID uuid.UUID) (course.Request, error) {
	req, err := u.getRequest(ctx, requestID)
	if err != nil {
		return course.Request{}, err
	}
	if req.State != course.StateDraft {
		return course.Request{}, ErrInvalidTransition
	}

	if err := u.transition(ctx, req.ID, course.StateDraft, course.StateManagerReview, nil, nil, nil); err != nil {
		return course.Request{}, err
	}

	if managerUserID, ok, err := u.employees.ManagerUserID(ctx, req.EmployeeID); err == nil && ok {
		u.notify(ctx, managerUserID, fmt.Sprintf("Course request %s is awaiting your review.", req.Number))
	}
	return u.getRequest(ctx, requestID)
}

// ManagerApprove routes the request to HR review when the course cost
// reaches the policy threshold, otherwise approves it outright. A zero
// threshold disables the HR stage entirely.
func (u *CourseRequest) ManagerApprove(ctx context.Context, requestID uuid.UUID, in DecisionInput) (course.Request, error) {
	if err := u.requireCapability(ctx, in.ActorUserID, user.CapabilityManager, user.CapabilityHRAdmin); err != nil {
		return course.Request{}, err
	}

	req, err := u.getRequest(ctx, requestID)
	if err != nil {
		return course.Request{}, err
	}
	if req.State != course.StateManagerReview {
		return course.Request{}, ErrInvalidTransition
	}

	c, err := u.requests.GetCourse(ctx, req.CourseID)
	if err != nil {
		return course.Request{}, ErrInternal
	}

	now := u.now()
	step := u.decisionStep(req.ID, course.StepManager, in, course.DecisionApprove, now)

	hrRequired := u.pol.CourseCostHRThreshold > 0 && c.Cost >= u.pol.CourseCostHRThreshold
	if hrRequired {
		if err := u.transition(ctx, req.ID, course.StateManagerReview, course.StateHRReview, nil, nil, step); err != nil {
			return course.Request{}, err
		}
		u.notifyEmployee(ctx, req.EmployeeID, fmt.Sprintf("Course request %s passed manager review and is awaiting HR.", req.Number))
	} else {
		if err := u.transition(ctx, req.ID, course.StateManagerReview, course.StateApproved, &now, nil, step); err != nil {
			return course.Request{}, err
		}
		u.notifyEmployee(ctx, req.EmployeeID, fmt.Sprintf("Course request %s has been approved.", req.Number))
	}
	return u.getRequest(ctx, requestID)
}

func (u *CourseRequest) HRApprove(ctx context.Context, requestID uuid.UUID, in DecisionInput) (course.Request, error) {
	if err := u.requireCapability(ctx, in.ActorUserID, user.CapabilityHRAdmin); err != nil {
		return course.Request{}, err
	}

	req, err := u.getRequest(ctx, requestID)
	if err != nil {
		return course.Request{}, err
	}
	if req.State != course.StateHRReview {
		return course.Request{}, ErrInvalidTransition
	}

	now := u.now()
	step := u.decisionStep(req.ID, course.StepHR, in, course.DecisionApprove, now)
	if err := u.transition(ctx, req.ID, course.StateHRReview, course.StateApproved, &now, nil, step); err != nil {
		return course.Request{}, err
	}

	u.notifyEmployee(ctx, req.EmployeeID, fmt.Sprintf("Course request %s has been approved.", req.Number))
	return u.getRequest(ctx, requestID)
}

// Reject is reachable from every state. HR admins log an HR step,
// everyone else a manager step. Rejecting an already rejected request
// is a no-op.
func (u *CourseRequest) Reject(ctx context.Context, requestID uuid.UUID, in DecisionInput) (course.Request, error) {
	if err := u.requireCapability(ctx, in.ActorUserID, user.CapabilityManager, user.CapabilityHRAdmin); err != nil {
		return course.Request{}, err
	}

	req, err := u.getRequest(ctx, requestID)
	if err != nil {
		return course.Request{}, err
	}
	if req.State == course.StateRejected {
		return req, nil
	}

	stepType := course.StepManager
	if isHR, err := u.checker.HasCapability(ctx, in.ActorUserID, user.CapabilityHRAdmin); err == nil && isHR {
		stepType = course.StepHR
	}

	now := u.now()
	step := u.decisionStep(req.ID, stepType, in, course.DecisionReject, now)
	if err := u.transition(ctx, req.ID, req.State, course.StateRejected, nil, nil, step); err != nil {
		return course.Request{}, err
	}

	u.notifyEmployee(ctx, req.EmployeeID, fmt.Sprintf("Course request %s has been rejected.", req.Number))
	return u.getRequest(ctx, requestID)
}

func (u *CourseRequest) Start(ctx context.Context, requestID uuid.UUID) (course.Request, error) {
	req, err := u.getRequest(ctx, requestID)
	if err != nil {
		return course.Request{}, err
	}
	if req.State != course.StateApproved {
		return course.Request{}, ErrInvalidTransition
	}
	if err := u.transition(ctx, req.ID, course.StateApproved, course.StateInProgress, nil, nil, nil); err != nil {
		return course.Request{}, err
	}
	return u.getRequest(ctx, requestID)
}

func (u *CourseRequest) Complete(ctx context.Context, requestID uuid.UUID) (course.Request, error) {
	req, err := u.getRequest(ctx, requestID)
	if err != nil {
		return course.Request{}, err
	}
	if req.State != course.StateInProgress {
		return course.Request{}, ErrInvalidTransition
	}
	now := u.now()
	if err := u.transition(ctx, req.ID, course.StateInProgress, course.StateCompleted, nil, &now, nil); err != nil {
		return course.Request{}, err
	}
	return u.getRequest(ctx, requestID)
}

func (u *CourseRequest) ListSteps(ctx context.Context, requestID uuid.UUID) ([]course.ApprovalStep, error) {
	if requestID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	steps, err := u.requests.ListSteps(ctx, requestID)
	if err != nil {
		return nil, ErrInternal
	}
	return steps, nil
}

func (u *CourseRequest) getRequest(ctx context.Context, id uuid.UUID) (course.Request, error) {
	if id == uuid.Nil {
		return course.Request{}, ErrInvalidInput
	}
	req, err := u.requests.GetRequest(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseRequestNotFound) {
			return course.Request{}, ErrRequestNotFound
		}
		return course.Request{}, ErrInternal
	}
	return req, nil
}

func (u *CourseRequest) transition(ctx context.Context, requestID uuid.UUID, from, to course.RequestState, approvedOn, completedOn *time.Time, step *course.ApprovalStep) error {
	err := u.requests.Transition(ctx, requestID, from, to, approvedOn, completedOn, step)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestStateChanged):
			return ErrInvalidTransition
		case errors.Is(err, repository.ErrCourseRequestConflict):
			return ErrDuplicateRequest
		default:
			return ErrInternal
		}
	}
	return nil
}

func (u *CourseRequest) decisionStep(requestID uuid.UUID, stepType course.StepType, in DecisionInput, decision course.Decision, now time.Time) *course.ApprovalStep {
	return &course.ApprovalStep{
		ID:             uuid.New(),
		RequestID:      requestID,
		StepType:       stepType,
		ApproverUserID: in.ActorUserID,
		Decision:       &decision,
		DecisionOn:     &now,
		Comments:       in.Comments,
	}
}

func (u *CourseRequest) requireCapability(ctx context.Context, actorUserID uuid.UUID, capabilities ...string) error {
	if actorUserID == uuid.Nil {
		return ErrInvalidInput
	}
	for _, c := range capabilities {
		ok, err := u.checker.HasCapability(ctx, actorUserID, c)
		if err != nil {
			return ErrInternal
		}
		if ok {
			return nil
		}
	}
	return ErrForbidden
}

func (u *CourseRequest) notifyEmployee(ctx context.Context, employeeID uuid.UUID, text string) {
	emp, err := u.employees.GetByID(ctx, employeeID)
	if err != nil || emp.UserID == nil {
		return
	}
	u.notify(ctx, *emp.UserID, text)
}

func (u *CourseRequest) notify(ctx context.Context, userID uuid.UUID, text string) {
	if u.notifier == nil {
		return
	}
	u.notifier.Notify(ctx, userID, text)
}
