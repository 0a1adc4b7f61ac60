package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"competency-hub/internal/config"
	"competency-hub/internal/domain/course"
	"competency-hub/internal/domain/employee"

	"github.com/google/uuid"
)

type requestFixture struct {
	uc       *CourseRequest
	requests *mockCourseRequestRepo
	sink     *mockSink

	employeeID     uuid.UUID
	employeeUserID uuid.UUID
	managerID      uuid.UUID
	hrID           uuid.UUID
}

func newRequestFixture(t *testing.T, pol config.Policy, courseCost float64) *requestFixture {
	t.Helper()

	f := &requestFixture{
		employeeID:     uuid.New(),
		employeeUserID: uuid.New(),
		managerID:      uuid.New(),
		hrID:           uuid.New(),
	}

	f.requests = newMockCourseRequestRepo(course.Course{
		ID:     uuid.New(),
		Name:   "Advanced PostgreSQL",
		Type:   course.TypeELearning,
		Cost:   courseCost,
		Active: true,
	})
	employees := &mockEmployeeRepo{employees: map[uuid.UUID]employee.Employee{
		f.employeeID: {ID: f.employeeID, Name: "Budi", UserID: &f.employeeUserID},
	}}
	checker := &mockCapabilityChecker{capabilities: map[uuid.UUID]map[string]bool{
		f.managerID: {"cdm_manager": true},
		f.hrID:      {"cdm_hr_admin": true},
	}}
	f.sink = &mockSink{}

	f.uc = NewCourseRequestUsecase(f.requests, employees, checker, f.sink, pol)
	f.uc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func (f *requestFixture) create(t *testing.T) course.Request {
	t.Helper()
	req, err := f.uc.Create(context.Background(), CreateRequestInput{
		EmployeeID:    f.employeeID,
		CourseID:      f.requests.course.ID,
		Justification: "Needed for the data platform migration.",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return req
}

func (f *requestFixture) toManagerReview(t *testing.T) course.Request {
	t.Helper()
	req := f.create(t)
	req, err := f.uc.Submit(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return req
}

func TestCourseRequestUsecase_Create_ShortJustification(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)

	_, err := f.uc.Create(context.Background(), CreateRequestInput{
		EmployeeID:    f.employeeID,
		CourseID:      f.requests.course.ID,
		Justification: "   short   ",
	})
	if !errors.Is(err, ErrJustificationTooShort) {
		t.Fatalf("expected ErrJustificationTooShort, got %v", err)
	}
}

func TestCourseRequestUsecase_Create_MultibyteJustificationCountsRunes(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)

	// 4 runes but 12 bytes; the minimum is runes, not bytes.
	_, err := f.uc.Create(context.Background(), CreateRequestInput{
		EmployeeID:    f.employeeID,
		CourseID:      f.requests.course.ID,
		Justification: "基盤移行",
	})
	if !errors.Is(err, ErrJustificationTooShort) {
		t.Fatalf("expected ErrJustificationTooShort, got %v", err)
	}

	// 10 runes is enough.
	req, err := f.uc.Create(context.Background(), CreateRequestInput{
		EmployeeID:    f.employeeID,
		CourseID:      f.requests.course.ID,
		Justification: "データ基盤の移行業務",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if req.State != course.StateDraft {
		t.Fatalf("expected draft, got %s", req.State)
	}
}

func TestCourseRequestUsecase_Create_AssignsNumberAndDraftState(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)

	req := f.create(t)
	if req.State != course.StateDraft {
		t.Fatalf("expected draft, got %s", req.State)
	}
	if req.Number == "" || req.Number == "New" {
		t.Fatalf("expected assigned request number, got %q", req.Number)
	}
}

func TestCourseRequestUsecase_Create_DuplicateSameStateRejected(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)

	f.create(t)
	_, err := f.uc.Create(context.Background(), CreateRequestInput{
		EmployeeID:    f.employeeID,
		CourseID:      f.requests.course.ID,
		Justification: "A second draft for the same course.",
	})
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
}

func TestCourseRequestUsecase_ManagerApprove_BelowThresholdApproves(t *testing.T) {
	f := newRequestFixture(t, config.Policy{CourseCostHRThreshold: 500}, 499)

	req := f.toManagerReview(t)
	req, err := f.uc.ManagerApprove(context.Background(), req.ID, DecisionInput{ActorUserID: f.managerID, Comments: "ok"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if req.State != course.StateApproved {
		t.Fatalf("expected approved, got %s", req.State)
	}
	if req.ApprovedOn == nil {
		t.Fatalf("expected ApprovedOn to be stamped")
	}

	steps, _ := f.uc.ListSteps(context.Background(), req.ID)
	if len(steps) != 1 || steps[0].StepType != course.StepManager || *steps[0].Decision != course.DecisionApprove {
		t.Fatalf("expected one manager approve step, got %+v", steps)
	}
}

func TestCourseRequestUsecase_ManagerApprove_AtThresholdRoutesToHR(t *testing.T) {
	f := newRequestFixture(t, config.Policy{CourseCostHRThreshold: 500}, 500)

	req := f.toManagerReview(t)
	req, err := f.uc.ManagerApprove(context.Background(), req.ID, DecisionInput{ActorUserID: f.managerID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if req.State != course.StateHRReview {
		t.Fatalf("cost at threshold must route to HR review, got %s", req.State)
	}
	if req.ApprovedOn != nil {
		t.Fatalf("ApprovedOn must stay empty until final approval")
	}

	req, err = f.uc.HRApprove(context.Background(), req.ID, DecisionInput{ActorUserID: f.hrID})
	if err != nil {
		t.Fatalf("hr approve: %v", err)
	}
	if req.State != course.StateApproved || req.ApprovedOn == nil {
		t.Fatalf("expected approved after HR, got %+v", req)
	}

	steps, _ := f.uc.ListSteps(context.Background(), req.ID)
	if len(steps) != 2 || steps[1].StepType != course.StepHR {
		t.Fatalf("expected manager then HR steps, got %+v", steps)
	}
}

func TestCourseRequestUsecase_ManagerApprove_ZeroThresholdSkipsHR(t *testing.T) {
	f := newRequestFixture(t, config.Policy{CourseCostHRThreshold: 0}, 100000)

	req := f.toManagerReview(t)
	req, err := f.uc.ManagerApprove(context.Background(), req.ID, DecisionInput{ActorUserID: f.managerID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if req.State != course.StateApproved {
		t.Fatalf("zero threshold disables the HR stage, got %s", req.State)
	}
}

func TestCourseRequestUsecase_ManagerApprove_RequiresCapability(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)

	req := f.toManagerReview(t)
	_, err := f.uc.ManagerApprove(context.Background(), req.ID, DecisionInput{ActorUserID: uuid.New()})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCourseRequestUsecase_HRApprove_RequiresHRCapability(t *testing.T) {
	f := newRequestFixture(t, config.Policy{CourseCostHRThreshold: 1}, 100)

	req := f.toManagerReview(t)
	req, err := f.uc.ManagerApprove(context.Background(), req.ID, DecisionInput{ActorUserID: f.managerID})
	if err != nil {
		t.Fatalf("manager approve: %v", err)
	}
	_, err = f.uc.HRApprove(context.Background(), req.ID, DecisionInput{ActorUserID: f.managerID})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("manager must not pass the HR stage, got %v", err)
	}
}

func TestCourseRequestUsecase_Reject_FromAnyState(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)

	for _, prepare := range []func() course.Request{
		func() course.Request { return f.create(t) },
		func() course.Request { return f.toManagerReview(t) },
	} {
		for id := range f.requests.requests {
			delete(f.requests.requests, id)
		}

		req := prepare()
		rejected, err := f.uc.Reject(context.Background(), req.ID, DecisionInput{ActorUserID: f.hrID, Comments: "budget"})
		if err != nil {
			t.Fatalf("reject from %s: %v", req.State, err)
		}
		if rejected.State != course.StateRejected {
			t.Fatalf("expected rejected, got %s", rejected.State)
		}

		steps, _ := f.uc.ListSteps(context.Background(), req.ID)
		last := steps[len(steps)-1]
		if last.StepType != course.StepHR || *last.Decision != course.DecisionReject {
			t.Fatalf("expected HR reject step, got %+v", last)
		}
	}
}

func TestCourseRequestUsecase_Reject_AlreadyRejectedIsNoOp(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)

	req := f.create(t)
	rejected, err := f.uc.Reject(context.Background(), req.ID, DecisionInput{ActorUserID: f.hrID, Comments: "budget"})
	if err != nil {
		t.Fatalf("first reject: %v", err)
	}
	notified := len(f.sink.sent)

	again, err := f.uc.Reject(context.Background(), req.ID, DecisionInput{ActorUserID: f.hrID, Comments: "still no budget"})
	if err != nil {
		t.Fatalf("second reject: %v", err)
	}
	if again.State != course.StateRejected {
		t.Fatalf("expected rejected, got %s", again.State)
	}

	steps, _ := f.uc.ListSteps(context.Background(), rejected.ID)
	if len(steps) != 1 {
		t.Fatalf("expected a single reject step, got %+v", steps)
	}
	if len(f.sink.sent) != notified {
		t.Fatalf("expected no extra notification on repeat reject, got %+v", f.sink.sent)
	}
}

func TestCourseRequestUsecase_StartAndComplete(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)

	req := f.toManagerReview(t)
	req, err := f.uc.ManagerApprove(context.Background(), req.ID, DecisionInput{ActorUserID: f.managerID})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	req, err = f.uc.Start(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if req.State != course.StateInProgress {
		t.Fatalf("expected in_progress, got %s", req.State)
	}

	req, err = f.uc.Complete(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if req.State != course.StateCompleted || req.CompletedOn == nil {
		t.Fatalf("expected completed with CompletedOn, got %+v", req)
	}

	if _, err := f.uc.Complete(context.Background(), req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on double complete, got %v", err)
	}
}

func TestCourseRequestUsecase_Submit_NotifiesEmployeeManager(t *testing.T) {
	f := newRequestFixture(t, config.Policy{}, 100)
	managerUserID := uuid.New()
	f.uc.employees.(*mockEmployeeRepo).managerUserID = &managerUserID

	req := f.create(t)
	if _, err := f.uc.Submit(context.Background(), req.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.sink.sent) != 1 || f.sink.sent[0].UserID != managerUserID {
		t.Fatalf("expected manager notification, got %+v", f.sink.sent)
	}
}
