package handler

import (
	"errors"
	"time"

	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/domain/skill"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type EmployeeSkillHandler struct {
	uc usecase.EmployeeSkillUsecase
}

type upsertEmployeeSkillRequest struct {
	SkillID       uuid.UUID  `json:"skill_id"`
	LevelID       uuid.UUID  `json:"level_id"`
	Source        string     `json:"source"`
	TargetLevelID *uuid.UUID `json:"target_level_id"`
	ExpiresOn     *time.Time `json:"expires_on"`
	Notes         string     `json:"notes"`
}

type setVerifiedRequest struct {
	Verified bool `json:"verified"`
}

type addEvidenceRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func NewEmployeeSkillHandler(uc usecase.EmployeeSkillUsecase) *EmployeeSkillHandler {
	return &EmployeeSkillHandler{uc: uc}
}

func (h *EmployeeSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/employees/:id/skills", h.ListLedger)
	r.Post("/employees/:id/skills", h.UpsertSkill)

	grp := r.Group("/skill-ledger/:id")
	grp.Post("/verify", h.SetVerified)
	grp.Post("/request-verification", h.RequestVerification)
	grp.Get("/evidence", h.ListEvidence)
	grp.Post("/evidence", h.AddEvidence)
}

func (h *EmployeeSkillHandler) ListLedger(c fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	entries, err := h.uc.ListLedger(c.Context(), employeeID)
	if err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}

	res := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, ledgerEntryResponse(e))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *EmployeeSkillHandler) UpsertSkill(c fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req upsertEmployeeSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	entry, err := h.uc.UpsertSkill(c.Context(), employeeID, usecase.UpsertSkillInput{
		SkillID:       req.SkillID,
		LevelID:       req.LevelID,
		Source:        skill.SourceType(req.Source),
		TargetLevelID: req.TargetLevelID,
		ExpiresOn:     req.ExpiresOn,
		Notes:         req.Notes,
	})
	if err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, ledgerEntryResponse(entry))
}

func (h *EmployeeSkillHandler) SetVerified(c fiber.Ctx) error {
	actorUserID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	ledgerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req setVerifiedRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.SetVerified(c.Context(), actorUserID, ledgerID, req.Verified); err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *EmployeeSkillHandler) RequestVerification(c fiber.Ctx) error {
	ledgerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.RequestVerification(c.Context(), ledgerID); err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *EmployeeSkillHandler) AddEvidence(c fiber.Ctx) error {
	actorUserID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	ledgerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req addEvidenceRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	ev, err := h.uc.AddEvidence(c.Context(), ledgerID, usecase.EvidenceInput{
		Type:         skill.EvidenceType(req.Type),
		URL:          req.URL,
		UploadedByID: &actorUserID,
	})
	if err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, evidenceResponse(ev))
}

func (h *EmployeeSkillHandler) ListEvidence(c fiber.Ctx) error {
	ledgerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.ListEvidence(c.Context(), ledgerID)
	if err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}

	res := make([]dto.EvidenceResponse, 0, len(items))
	for _, ev := range items {
		res = append(res, evidenceResponse(ev))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func ledgerEntryResponse(e skill.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:                 e.ID,
		EmployeeID:         e.EmployeeID,
		SkillID:            e.SkillID,
		CurrentLevelID:     e.CurrentLevelID,
		TargetLevelID:      e.TargetLevelID,
		OverrideTarget:     e.OverrideTarget,
		SourceType:         string(e.SourceType),
		VerificationStatus: string(e.VerificationStatus),
		LastUpdated:        e.LastUpdated,
		ExpiresOn:          e.ExpiresOn,
		Notes:              e.Notes,
	}
}

func evidenceResponse(ev skill.Evidence) dto.EvidenceResponse {
	return dto.EvidenceResponse{
		ID:           ev.ID,
		LedgerID:     ev.LedgerID,
		Type:         string(ev.Type),
		URL:          ev.URL,
		UploadedByID: ev.UploadedByID,
		UploadedOn:   ev.UploadedOn,
	}
}

func mapEmployeeSkillUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrLevelNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Proficiency level not found", nil, err)
	case errors.Is(err, usecase.ErrLedgerEntryNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee skill not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
