package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/internal/service"
	"vanguard-hq/backend/pkg/response"
)

// PromotionHandler serves the promotion engine endpoints: progress,
// checklist, the promote action, requirements and waivers.
type PromotionHandler struct {
	promotionSvc service.PromotionService
}

// NewPromotionHandler creates the PromotionHandler.
func NewPromotionHandler(promotionSvc service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionSvc: promotionSvc}
}

// GetMyProgress evaluates the caller against their candidate next rank.
// GET /api/v1/promotions/progress
func (h *PromotionHandler) GetMyProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}

	progress, err := h.promotionSvc.GetProgress(c.Request.Context(), userID)
	if err != nil {
		h.handleEvalError(c, err)
		return
	}

	response.OK(c, progress)
}

// GetProgress evaluates a user against their candidate next rank.
// Members may view their own progress; any other target requires an
// officer or admin.
// GET /api/v1/promotions/progress/:user_id
func (h *PromotionHandler) GetProgress(c *gin.Context) {
	callerID, _ := currentUserID(c)
	targetID := c.Param("user_id")

	if targetID != callerID {
		role := currentRole(c)
		if role != model.RoleAdmin && role != model.RoleOfficer {
			response.Forbidden(c, 10003, "insufficient permissions")
			return
		}
	}

	progress, err := h.promotionSvc.GetProgress(c.Request.Context(), targetID)
	if err != nil {
		h.handleEvalError(c, err)
		return
	}

	response.OK(c, progress)
}

// GetMyChecklist returns the caller's simplified progress view.
// GET /api/v1/promotions/checklist
func (h *PromotionHandler) GetMyChecklist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}

	checklist, err := h.promotionSvc.GetChecklist(c.Request.Context(), userID)
	if err != nil {
		h.handleEvalError(c, err)
		return
	}

	response.OK(c, checklist)
}

func (h *PromotionHandler) handleEvalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "user not found")
	case errors.Is(err, service.ErrNoNextRank):
		response.NotFound(c, 16001, "no higher rank exists for this branch")
	case errors.Is(err, service.ErrUnknownEvaluationType):
		response.Error(c, http.StatusInternalServerError, 16002, "requirement catalog misconfigured")
	default:
		response.InternalError(c)
	}
}

// Promote transitions a user to a new rank.
// POST /api/v1/promotions/promote
func (h *PromotionHandler) Promote(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.promotionSvc.Promote(c.Request.Context(), &req, callerID)
	if err != nil {
		var notMet *service.RequirementsNotMetError
		switch {
		case errors.As(err, &notMet):
			response.ErrorWithDetails(c, http.StatusBadRequest, 16003,
				"promotion requirements not met",
				gin.H{"unmet_requirement_ids": notMet.UnmetIDs})
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "user not found")
		case errors.Is(err, service.ErrRankNotFound):
			response.NotFound(c, 13001, "rank not found")
		case errors.Is(err, service.ErrSameOrLowerRank):
			response.BadRequest(c, 16004, "target rank tier must exceed current rank tier")
		case errors.Is(err, service.ErrBranchMismatch):
			response.BadRequest(c, 16005, "target rank belongs to a different branch")
		case errors.Is(err, service.ErrUnknownEvaluationType):
			response.Error(c, http.StatusInternalServerError, 16002, "requirement catalog misconfigured")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// CreateRequirementType adds a requirement kind to the catalog.
// POST /api/v1/promotions/requirement-types
func (h *PromotionHandler) CreateRequirementType(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.CreateRequirementTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	rt, err := h.promotionSvc.CreateRequirementType(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownEvaluationType) {
			response.BadRequest(c, 16006, "unknown evaluation type")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, rt)
}

// ListRequirementTypes lists the requirement catalog.
// GET /api/v1/promotions/requirement-types
func (h *PromotionHandler) ListRequirementTypes(c *gin.Context) {
	types, err := h.promotionSvc.ListRequirementTypes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, types)
}

// CreateRequirement attaches a requirement to a rank.
// POST /api/v1/promotions/requirements
func (h *PromotionHandler) CreateRequirement(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.CreateRankRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	requirement, err := h.promotionSvc.CreateRequirement(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRankNotFound):
			response.NotFound(c, 13001, "rank not found")
		case errors.Is(err, service.ErrRequirementTypeNotFound):
			response.NotFound(c, 16007, "requirement type not found")
		case errors.Is(err, service.ErrRequirementGroupRequired):
			response.BadRequest(c, 16008, "optional requirements must carry a requirement group")
		case errors.Is(err, service.ErrRequirementRefMissing):
			response.BadRequest(c, 16009, "requirement is missing its certification or position reference")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, requirement)
}

// ListRequirements lists a rank's requirements.
// GET /api/v1/ranks/:id/requirements
func (h *PromotionHandler) ListRequirements(c *gin.Context) {
	reqs, err := h.promotionSvc.ListRequirements(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, reqs)
}

// DeleteRequirement removes a requirement from a rank.
// DELETE /api/v1/promotions/requirements/:id
func (h *PromotionHandler) DeleteRequirement(c *gin.Context) {
	if err := h.promotionSvc.DeleteRequirement(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrRequirementNotFound) {
			response.NotFound(c, 16010, "requirement not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// GrantWaiver excuses a requirement for a user.
// POST /api/v1/promotions/waivers
func (h *PromotionHandler) GrantWaiver(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.GrantWaiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	waiver, err := h.promotionSvc.GrantWaiver(c.Request.Context(), &req, callerID, currentRole(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequirementNotFound):
			response.NotFound(c, 16010, "requirement not found")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "user not found")
		case errors.Is(err, service.ErrNotWaiverable):
			response.BadRequest(c, 16011, "requirement is not waiverable")
		case errors.Is(err, service.ErrWaiverAuthority):
			response.Forbidden(c, 16012, "insufficient authority to waive this requirement")
		case errors.Is(err, service.ErrWaiverExists):
			response.BadRequest(c, 16013, "an active waiver already exists")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, waiver)
}

// ListWaivers lists a user's waivers.
// GET /api/v1/promotions/waivers/:user_id
func (h *PromotionHandler) ListWaivers(c *gin.Context) {
	waivers, err := h.promotionSvc.ListWaivers(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, waivers)
}

// RevokeWaiver deactivates a waiver.
// POST /api/v1/promotions/waivers/:id/revoke
func (h *PromotionHandler) RevokeWaiver(c *gin.Context) {
	callerID, _ := currentUserID(c)

	if err := h.promotionSvc.RevokeWaiver(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrWaiverNotFound) {
			response.NotFound(c, 16014, "waiver not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
