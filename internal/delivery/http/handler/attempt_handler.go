package handler

import (
	"errors"

	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/domain/assessment"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AttemptHandler struct {
	uc usecase.AttemptUsecase
}

type createAttemptRequest struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	Score        float64   `json:"score"`
}

func NewAttemptHandler(uc usecase.AttemptUsecase) *AttemptHandler {
	return &AttemptHandler{uc: uc}
}

func (h *AttemptHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/assessment-attempts")
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/apply", h.Apply)
}

func (h *AttemptHandler) Create(c fiber.Ctx) error {
	var req createAttemptRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	att, err := h.uc.Create(c.Context(), usecase.CreateAttemptInput{
		EmployeeID:   req.EmployeeID,
		AssessmentID: req.AssessmentID,
		Score:        req.Score,
	})
	if err != nil {
		return mapAttemptUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, attemptResponse(att))
}

func (h *AttemptHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	att, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapAttemptUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, attemptResponse(att))
}

func (h *AttemptHandler) Apply(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	att, err := h.uc.Apply(c.Context(), id)
	if err != nil {
		return mapAttemptUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, attemptResponse(att))
}

func attemptResponse(a assessment.Attempt) dto.AttemptResponse {
	return dto.AttemptResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		AssessmentID:   a.AssessmentID,
		Score:          a.Score,
		AwardedLevelID: a.AwardedLevelID,
		State:          string(a.State),
		CompletedOn:    a.CompletedOn,
		CreatedAt:      a.CreatedAt,
	}
}

func mapAttemptUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Assessment not found", nil, err)
	case errors.Is(err, usecase.ErrAttemptNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Assessment attempt not found", nil, err)
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", nil, err)
	case errors.Is(err, usecase.ErrAssessmentInactive):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Assessment is not active", nil, err)
	case errors.Is(err, usecase.ErrScoreOutOfRange):
		return middleware.NewAppError(fiber.StatusBadRequest, "Score must be between 0 and 100", nil, err)
	case errors.Is(err, usecase.ErrAttemptAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, "Assessment attempt already applied", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
