package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/service"
	"vanguard-hq/backend/pkg/response"
)

// UnitHandler serves the ORBAT endpoints: units, positions and
// assignments.
type UnitHandler struct {
	unitSvc service.UnitService
}

// NewUnitHandler creates the UnitHandler.
func NewUnitHandler(unitSvc service.UnitService) *UnitHandler {
	return &UnitHandler{unitSvc: unitSvc}
}

// CreateUnit adds a node to the ORBAT.
// POST /api/v1/units
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	unit, err := h.unitSvc.CreateUnit(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrParentUnitNotFound) {
			response.NotFound(c, 12002, "parent unit not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, unit)
}

// GetUnit returns one unit.
// GET /api/v1/units/:id
func (h *UnitHandler) GetUnit(c *gin.Context) {
	unit, err := h.unitSvc.GetUnit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			response.NotFound(c, 12001, "unit not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, unit)
}

// ListUnits lists all units.
// GET /api/v1/units
func (h *UnitHandler) ListUnits(c *gin.Context) {
	units, err := h.unitSvc.ListUnits(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, units)
}

// UpdateUnit edits a unit.
// PUT /api/v1/units/:id
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	unit, err := h.unitSvc.UpdateUnit(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnitNotFound):
			response.NotFound(c, 12001, "unit not found")
		case errors.Is(err, service.ErrParentUnitNotFound):
			response.NotFound(c, 12002, "parent unit not found")
		case errors.Is(err, service.ErrUnitCycle):
			response.BadRequest(c, 12003, "unit cannot be its own ancestor")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, unit)
}

// DeleteUnit removes a unit.
// DELETE /api/v1/units/:id
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	callerID, _ := currentUserID(c)

	if err := h.unitSvc.DeleteUnit(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			response.NotFound(c, 12001, "unit not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// GetOrbat renders the full unit tree.
// GET /api/v1/units/orbat
func (h *UnitHandler) GetOrbat(c *gin.Context) {
	tree, err := h.unitSvc.GetOrbat(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, tree)
}

// CreatePosition adds a billet to a unit.
// POST /api/v1/positions
func (h *UnitHandler) CreatePosition(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	pos, err := h.unitSvc.CreatePosition(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			response.NotFound(c, 12001, "unit not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, pos)
}

// GetPosition returns one billet with its current holders.
// GET /api/v1/positions/:id
func (h *UnitHandler) GetPosition(c *gin.Context) {
	pos, err := h.unitSvc.GetPosition(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPositionNotFound) {
			response.NotFound(c, 12004, "position not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, pos)
}

// ListPositions lists billets, optionally by unit.
// GET /api/v1/positions?unit_id=xxx
func (h *UnitHandler) ListPositions(c *gin.Context) {
	positions, err := h.unitSvc.ListPositions(c.Request.Context(), c.Query("unit_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, positions)
}

// UpdatePosition edits a billet.
// PUT /api/v1/positions/:id
func (h *UnitHandler) UpdatePosition(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	pos, err := h.unitSvc.UpdatePosition(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrPositionNotFound) {
			response.NotFound(c, 12004, "position not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, pos)
}

// DeletePosition removes a billet.
// DELETE /api/v1/positions/:id
func (h *UnitHandler) DeletePosition(c *gin.Context) {
	if err := h.unitSvc.DeletePosition(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrPositionNotFound) {
			response.NotFound(c, 12004, "position not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// AssignPosition places a user in a billet.
// POST /api/v1/positions/assign
func (h *UnitHandler) AssignPosition(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.AssignPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	up, err := h.unitSvc.AssignPosition(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "user not found")
		case errors.Is(err, service.ErrPositionNotFound):
			response.NotFound(c, 12004, "position not found")
		case errors.Is(err, service.ErrAlreadyAssigned):
			response.BadRequest(c, 12005, "user already holds this position")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, up)
}

// EndAssignment closes an assignment span.
// POST /api/v1/positions/assignments/:id/end
func (h *UnitHandler) EndAssignment(c *gin.Context) {
	callerID, _ := currentUserID(c)

	if err := h.unitSvc.EndAssignment(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFound(c, 12006, "assignment not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ListUserAssignments lists a user's assignment history.
// GET /api/v1/users/:id/positions
func (h *UnitHandler) ListUserAssignments(c *gin.Context) {
	assignments, err := h.unitSvc.ListUserAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, assignments)
}
