package handler

import (
	"errors"

	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/domain/scoring"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ScoringRuleHandler struct {
	uc usecase.ScoringRuleUsecase
}

type createScoringRuleRequest struct {
	Name string `json:"name"`
}

type scoringRuleLineRequest struct {
	MinScore float64   `json:"min_score"`
	MaxScore float64   `json:"max_score"`
	LevelID  uuid.UUID `json:"level_id"`
}

func NewScoringRuleHandler(uc usecase.ScoringRuleUsecase) *ScoringRuleHandler {
	return &ScoringRuleHandler{uc: uc}
}

func (h *ScoringRuleHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/scoring-rules")
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/lines", h.AddLine)
	grp.Put("/:id/lines/:lineId", h.UpdateLine)
}

func (h *ScoringRuleHandler) Create(c fiber.Ctx) error {
	var req createScoringRuleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	rule, err := h.uc.CreateRule(c.Context(), usecase.CreateRuleInput{Name: req.Name})
	if err != nil {
		return mapScoringRuleUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, scoringRuleResponse(rule))
}

func (h *ScoringRuleHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	rule, err := h.uc.GetRule(c.Context(), id)
	if err != nil {
		return mapScoringRuleUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, scoringRuleResponse(rule))
}

func (h *ScoringRuleHandler) AddLine(c fiber.Ctx) error {
	ruleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req scoringRuleLineRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	line, err := h.uc.AddLine(c.Context(), ruleID, usecase.RuleLineInput{
		MinScore: req.MinScore,
		MaxScore: req.MaxScore,
		LevelID:  req.LevelID,
	})
	if err != nil {
		return mapScoringRuleUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, scoringRuleLineResponse(line))
}

func (h *ScoringRuleHandler) UpdateLine(c fiber.Ctx) error {
	ruleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	lineID, err := uuid.Parse(c.Params("lineId"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req scoringRuleLineRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	line, err := h.uc.UpdateLine(c.Context(), ruleID, lineID, usecase.RuleLineInput{
		MinScore: req.MinScore,
		MaxScore: req.MaxScore,
		LevelID:  req.LevelID,
	})
	if err != nil {
		return mapScoringRuleUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, scoringRuleLineResponse(line))
}

func scoringRuleResponse(rule scoring.Rule) dto.ScoringRuleResponse {
	lines := make([]dto.ScoringRuleLineResponse, 0, len(rule.Lines))
	for _, ln := range rule.Lines {
		lines = append(lines, scoringRuleLineResponse(ln))
	}
	return dto.ScoringRuleResponse{ID: rule.ID, Name: rule.Name, Lines: lines}
}

func scoringRuleLineResponse(ln scoring.RuleLine) dto.ScoringRuleLineResponse {
	return dto.ScoringRuleLineResponse{
		ID:       ln.ID,
		RuleID:   ln.RuleID,
		MinScore: ln.MinScore,
		MaxScore: ln.MaxScore,
		LevelID:  ln.LevelID,
	}
}

func mapScoringRuleUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrRuleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Scoring rule not found", nil, err)
	case errors.Is(err, usecase.ErrRuleLineNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Scoring rule line not found", nil, err)
	case errors.Is(err, usecase.ErrLevelNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Proficiency level not found", nil, err)
	case errors.Is(err, scoring.ErrRangeInvalid):
		return middleware.NewAppError(fiber.StatusBadRequest, "Score range is inverted", nil, err)
	case errors.Is(err, scoring.ErrRangeOverlap):
		return middleware.NewAppError(fiber.StatusConflict, "Score range overlaps an existing line", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
