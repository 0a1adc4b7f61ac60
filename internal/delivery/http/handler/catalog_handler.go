package handler

import (
	"errors"

	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

type createLevelRequest struct {
	Name        string `json:"name"`
	Sequence    int    `json:"sequence"`
	Description string `json:"description"`
}

type createSkillRequest struct {
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Description string     `json:"description"`
}

func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/levels", h.ListLevels)
	r.Post("/levels", h.CreateLevel)
	r.Get("/skills", h.ListSkills)
	r.Post("/skills", h.CreateSkill)
}

func (h *CatalogHandler) ListLevels(c fiber.Ctx) error {
	levels, err := h.uc.ListLevels(c.Context())
	if err != nil {
		return mapCatalogUsecaseError(err)
	}

	res := make([]dto.LevelResponse, 0, len(levels))
	for _, lv := range levels {
		res = append(res, dto.LevelResponse{
			ID:          lv.ID,
			Name:        lv.Name,
			Sequence:    lv.Sequence,
			Description: lv.Description,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CatalogHandler) CreateLevel(c fiber.Ctx) error {
	var req createLevelRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateLevel(c.Context(), usecase.CreateLevelInput{
		Name:        req.Name,
		Sequence:    req.Sequence,
		Description: req.Description,
	})
	if err != nil {
		return mapCatalogUsecaseError(err)
	}

	res := dto.LevelResponse{
		ID:          created.ID,
		Name:        created.Name,
		Sequence:    created.Sequence,
		Description: created.Description,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CatalogHandler) ListSkills(c fiber.Ctx) error {
	skills, err := h.uc.ListSkills(c.Context())
	if err != nil {
		return mapCatalogUsecaseError(err)
	}

	res := make([]dto.SkillResponse, 0, len(skills))
	for _, s := range skills {
		res = append(res, skillResponse(s))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CatalogHandler) CreateSkill(c fiber.Ctx) error {
	var req createSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateSkill(c.Context(), usecase.CreateSkillInput{
		Name:        req.Name,
		Type:        skill.Type(req.Type),
		CategoryID:  req.CategoryID,
		Description: req.Description,
	})
	if err != nil {
		return mapCatalogUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, skillResponse(created))
}

func skillResponse(s skill.Skill) dto.SkillResponse {
	return dto.SkillResponse{
		ID:          s.ID,
		Name:        s.Name,
		Type:        string(s.Type),
		CategoryID:  s.CategoryID,
		Description: s.Description,
		Active:      s.Active,
	}
}

func mapCatalogUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrLevelSequenceTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Level sequence already in use", nil, err)
	case errors.Is(err, usecase.ErrSkillNameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", nil, err)
	case errors.Is(err, usecase.ErrInvalidSkillType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill type", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
