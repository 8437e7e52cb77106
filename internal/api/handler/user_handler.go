package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/internal/service"
	"vanguard-hq/backend/pkg/response"
)

// UserHandler serves the member roster endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates the UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetCurrentUser returns the caller's profile.
// GET /api/v1/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// ListUsers lists members with optional status filter.
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// GetUser returns one member's profile.
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// UpdateUser edits a profile. Admins may edit anyone; members only
// themselves.
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}

	targetID := c.Param("id")
	if callerID != targetID && currentRole(c) != model.RoleAdmin {
		response.Forbidden(c, 10003, "insufficient permissions")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), targetID, &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "user not found")
		case errors.Is(err, service.ErrUnitNotFound):
			response.NotFound(c, 12001, "unit not found")
		case errors.Is(err, service.ErrEmailTaken):
			response.BadRequest(c, 11002, "email already registered")
		case errors.Is(err, service.ErrCallsignTaken):
			response.BadRequest(c, 11003, "callsign already in use")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, user)
}

// AssignRole changes a member's platform role.
// PUT /api/v1/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	user, err := h.userSvc.AssignRole(c.Request.Context(), c.Param("id"), req.Role, callerID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// ApproveApplication activates an applicant and starts their service
// clock.
// POST /api/v1/users/:id/approve
func (h *UserHandler) ApproveApplication(c *gin.Context) {
	callerID, _ := currentUserID(c)

	user, err := h.userSvc.ApproveApplication(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "user not found")
		case errors.Is(err, service.ErrUserNotApplicant):
			response.BadRequest(c, 20002, "user is not an applicant")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, user)
}

// Discharge marks a member as discharged.
// POST /api/v1/users/:id/discharge
func (h *UserHandler) Discharge(c *gin.Context) {
	callerID, _ := currentUserID(c)

	if err := h.userSvc.Discharge(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
