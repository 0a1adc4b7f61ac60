package handler

import (
	"context"
	"errors"

	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/domain/course"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CourseRequestHandler struct {
	uc usecase.CourseRequestUsecase
}

type createCourseRequestRequest struct {
	EmployeeID     uuid.UUID   `json:"employee_id"`
	CourseID       uuid.UUID   `json:"course_id"`
	Justification  string      `json:"justification"`
	TargetSkillIDs []uuid.UUID `json:"target_skill_ids"`
}

type decisionRequest struct {
	Comments string `json:"comments"`
}

func NewCourseRequestHandler(uc usecase.CourseRequestUsecase) *CourseRequestHandler {
	return &CourseRequestHandler{uc: uc}
}

func (h *CourseRequestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/course-requests")
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Get("/:id/steps", h.ListSteps)
	grp.Post("/:id/submit", h.Submit)
	grp.Post("/:id/manager-approve", h.ManagerApprove)
	grp.Post("/:id/hr-approve", h.HRApprove)
	grp.Post("/:id/reject", h.Reject)
	grp.Post("/:id/start", h.Start)
	grp.Post("/:id/complete", h.Complete)
}

func (h *CourseRequestHandler) Create(c fiber.Ctx) error {
	var req createCourseRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), usecase.CreateRequestInput{
		EmployeeID:     req.EmployeeID,
		CourseID:       req.CourseID,
		Justification:  req.Justification,
		TargetSkillIDs: req.TargetSkillIDs,
	})
	if err != nil {
		return mapCourseRequestUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, courseRequestResponse(created))
}

func (h *CourseRequestHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	req, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapCourseRequestUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, courseRequestResponse(req))
}

func (h *CourseRequestHandler) ListSteps(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	steps, err := h.uc.ListSteps(c.Context(), id)
	if err != nil {
		return mapCourseRequestUsecaseError(err)
	}

	res := make([]dto.ApprovalStepResponse, 0, len(steps))
	for _, st := range steps {
		res = append(res, approvalStepResponse(st))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CourseRequestHandler) Submit(c fiber.Ctx) error {
	return h.simpleTransition(c, h.uc.Submit)
}

func (h *CourseRequestHandler) Start(c fiber.Ctx) error {
	return h.simpleTransition(c, h.uc.Start)
}

func (h *CourseRequestHandler) Complete(c fiber.Ctx) error {
	return h.simpleTransition(c, h.uc.Complete)
}

func (h *CourseRequestHandler) ManagerApprove(c fiber.Ctx) error {
	return h.decision(c, h.uc.ManagerApprove)
}

func (h *CourseRequestHandler) HRApprove(c fiber.Ctx) error {
	return h.decision(c, h.uc.HRApprove)
}

func (h *CourseRequestHandler) Reject(c fiber.Ctx) error {
	return h.decision(c, h.uc.Reject)
}

func (h *CourseRequestHandler) simpleTransition(c fiber.Ctx, op func(ctx context.Context, id uuid.UUID) (course.Request, error)) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	req, err := op(c.Context(), id)
	if err != nil {
		return mapCourseRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, courseRequestResponse(req))
}

func (h *CourseRequestHandler) decision(c fiber.Ctx, op func(ctx context.Context, id uuid.UUID, in usecase.DecisionInput) (course.Request, error)) error {
	actorUserID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req decisionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := op(c.Context(), id, usecase.DecisionInput{ActorUserID: actorUserID, Comments: req.Comments})
	if err != nil {
		return mapCourseRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, courseRequestResponse(updated))
}

func courseRequestResponse(req course.Request) dto.CourseRequestResponse {
	return dto.CourseRequestResponse{
		ID:             req.ID,
		Number:         req.Number,
		EmployeeID:     req.EmployeeID,
		CourseID:       req.CourseID,
		Justification:  req.Justification,
		TargetSkillIDs: req.TargetSkillIDs,
		State:          string(req.State),
		ApprovedOn:     req.ApprovedOn,
		CompletedOn:    req.CompletedOn,
		CreatedAt:      req.CreatedAt,
	}
}

func approvalStepResponse(st course.ApprovalStep) dto.ApprovalStepResponse {
	var decision *string
	if st.Decision != nil {
		d := string(*st.Decision)
		decision = &d
	}
	return dto.ApprovalStepResponse{
		ID:             st.ID,
		RequestID:      st.RequestID,
		StepType:       string(st.StepType),
		ApproverUserID: st.ApproverUserID,
		Decision:       decision,
		DecisionOn:     st.DecisionOn,
		Comments:       st.Comments,
	}
}

func mapCourseRequestUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrCourseNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Course not found", nil, err)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Course request not found", nil, err)
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", nil, err)
	case errors.Is(err, usecase.ErrCourseInactive):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Course is not active", nil, err)
	case errors.Is(err, usecase.ErrJustificationTooShort):
		return middleware.NewAppError(fiber.StatusBadRequest, "Justification must be at least 10 characters", nil, err)
	case errors.Is(err, usecase.ErrDuplicateRequest):
		return middleware.NewAppError(fiber.StatusConflict, "A request for this course already exists", nil, err)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Course request is not in the expected state", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
