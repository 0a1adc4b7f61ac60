package handler

import (
	"errors"

	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ReadinessHandler struct {
	uc usecase.ReadinessUsecase
}

func NewReadinessHandler(uc usecase.ReadinessUsecase) *ReadinessHandler {
	return &ReadinessHandler{uc: uc}
}

func (h *ReadinessHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/employees/:id/readiness", h.ForEmployee)
}

func (h *ReadinessHandler) ForEmployee(c fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	result, err := h.uc.ForEmployee(c.Context(), employeeID)
	if err != nil {
		return mapReadinessUsecaseError(err)
	}

	lines := make([]dto.ReadinessLineResponse, 0, len(result.Lines))
	for _, ln := range result.Lines {
		lines = append(lines, dto.ReadinessLineResponse{
			SkillID:         ln.SkillID,
			TargetSequence:  ln.TargetSequence,
			CurrentSequence: ln.CurrentSequence,
			Achieved:        ln.Achieved,
		})
	}

	res := dto.ReadinessResponse{
		ProfileID:   result.ProfileID,
		ProfileName: result.ProfileName,
		Score:       result.Score,
		Gaps:        result.Gaps,
		Lines:       lines,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func mapReadinessUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
