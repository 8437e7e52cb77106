package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/service"
	"vanguard-hq/backend/pkg/response"
)

// RankHandler serves the rank ladder endpoints.
type RankHandler struct {
	rankSvc service.RankService
}

// NewRankHandler creates the RankHandler.
func NewRankHandler(rankSvc service.RankService) *RankHandler {
	return &RankHandler{rankSvc: rankSvc}
}

// CreateRank adds a rank to a branch ladder.
// POST /api/v1/ranks
func (h *RankHandler) CreateRank(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.CreateRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	rank, err := h.rankSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, rank)
}

// GetRank returns one rank.
// GET /api/v1/ranks/:id
func (h *RankHandler) GetRank(c *gin.Context) {
	rank, err := h.rankSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRankNotFound) {
			response.NotFound(c, 13001, "rank not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, rank)
}

// ListRanks lists ranks, optionally by branch, ordered by tier.
// GET /api/v1/ranks?branch=xxx
func (h *RankHandler) ListRanks(c *gin.Context) {
	ranks, err := h.rankSvc.List(c.Request.Context(), c.Query("branch"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, ranks)
}

// UpdateRank edits a rank.
// PUT /api/v1/ranks/:id
func (h *RankHandler) UpdateRank(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.UpdateRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	rank, err := h.rankSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrRankNotFound) {
			response.NotFound(c, 13001, "rank not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, rank)
}

// DeleteRank removes a rank.
// DELETE /api/v1/ranks/:id
func (h *RankHandler) DeleteRank(c *gin.Context) {
	if err := h.rankSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrRankNotFound):
			response.NotFound(c, 13001, "rank not found")
		case errors.Is(err, service.ErrRankInUse):
			response.BadRequest(c, 13002, "rank is held by at least one member")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// ListRankHistory returns a user's rank ledger, newest first.
// GET /api/v1/users/:id/rank-history
func (h *RankHandler) ListRankHistory(c *gin.Context) {
	history, err := h.rankSvc.ListHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, history)
}
