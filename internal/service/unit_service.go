package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/internal/repository"
)

var (
	ErrPositionNotFound   = errors.New("position not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrParentUnitNotFound = errors.New("parent unit not found")
	ErrUnitCycle          = errors.New("unit cannot be its own ancestor")
	ErrAlreadyAssigned    = errors.New("user already holds this position")
)

// UnitService manages the ORBAT: units, positions and assignments.
type UnitService interface {
	CreateUnit(ctx context.Context, req *dto.CreateUnitRequest, callerID string) (*dto.UnitResponse, error)
	GetUnit(ctx context.Context, id string) (*dto.UnitResponse, error)
	ListUnits(ctx context.Context) ([]dto.UnitResponse, error)
	UpdateUnit(ctx context.Context, id string, req *dto.UpdateUnitRequest, callerID string) (*dto.UnitResponse, error)
	DeleteUnit(ctx context.Context, id, callerID string) error
	// GetOrbat renders the full unit tree with positions and holders.
	GetOrbat(ctx context.Context) ([]dto.OrbatNode, error)

	CreatePosition(ctx context.Context, req *dto.CreatePositionRequest, callerID string) (*dto.PositionResponse, error)
	GetPosition(ctx context.Context, id string) (*dto.PositionResponse, error)
	ListPositions(ctx context.Context, unitID string) ([]dto.PositionResponse, error)
	UpdatePosition(ctx context.Context, id string, req *dto.UpdatePositionRequest, callerID string) (*dto.PositionResponse, error)
	DeletePosition(ctx context.Context, id string) error

	// AssignPosition opens a new assignment span, closing any open span
	// the user holds on the same position first.
	AssignPosition(ctx context.Context, req *dto.AssignPositionRequest, callerID string) (*dto.UserPositionResponse, error)
	// EndAssignment closes an open assignment span.
	EndAssignment(ctx context.Context, assignmentID, callerID string) error
	ListUserAssignments(ctx context.Context, userID string) ([]dto.UserPositionResponse, error)
}

type unitService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewUnitService creates the UnitService.
func NewUnitService(repo *repository.Repository, logger *zap.Logger) UnitService {
	return &unitService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Units ──────────────────────

func (s *unitService) CreateUnit(ctx context.Context, req *dto.CreateUnitRequest, callerID string) (*dto.UnitResponse, error) {
	if req.ParentUnitID != nil {
		if _, err := s.repo.Unit.GetByID(ctx, *req.ParentUnitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentUnitNotFound
			}
			return nil, err
		}
	}

	unit := &model.Unit{
		Name:         req.Name,
		Callsign:     req.Callsign,
		UnitType:     req.UnitType,
		Branch:       req.Branch,
		ParentUnitID: req.ParentUnitID,
	}
	unit.CreatedBy = &callerID
	unit.UpdatedBy = &callerID

	if err := s.repo.Unit.Create(ctx, unit); err != nil {
		s.logger.Error("create unit failed", zap.Error(err))
		return nil, err
	}
	return toUnitResponse(unit), nil
}

func (s *unitService) GetUnit(ctx context.Context, id string) (*dto.UnitResponse, error) {
	unit, err := s.repo.Unit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return toUnitResponse(unit), nil
}

func (s *unitService) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	units, err := s.repo.Unit.List(ctx)
	if err != nil {
		s.logger.Error("list units failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		result = append(result, *toUnitResponse(&units[i]))
	}
	return result, nil
}

func (s *unitService) UpdateUnit(ctx context.Context, id string, req *dto.UpdateUnitRequest, callerID string) (*dto.UnitResponse, error) {
	unit, err := s.repo.Unit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		unit.Name = *req.Name
	}
	if req.Callsign != nil {
		unit.Callsign = *req.Callsign
	}
	if req.UnitType != nil {
		unit.UnitType = *req.UnitType
	}
	if req.ParentUnitID != nil {
		if *req.ParentUnitID == "" {
			unit.ParentUnitID = nil
		} else {
			if *req.ParentUnitID == id {
				return nil, ErrUnitCycle
			}
			if err := s.checkNoCycle(ctx, id, *req.ParentUnitID); err != nil {
				return nil, err
			}
			unit.ParentUnitID = req.ParentUnitID
		}
	}

	unit.UpdatedBy = &callerID
	if err := s.repo.Unit.Update(ctx, unit); err != nil {
		s.logger.Error("update unit failed", zap.String("unit_id", id), zap.Error(err))
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// checkNoCycle walks the ancestor chain of the proposed parent and
// rejects a reparent that would make the unit its own ancestor.
func (s *unitService) checkNoCycle(ctx context.Context, unitID, parentID string) error {
	current := parentID
	for current != "" {
		parent, err := s.repo.Unit.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParentUnitNotFound
			}
			return err
		}
		if parent.UnitID == unitID {
			return ErrUnitCycle
		}
		if parent.ParentUnitID == nil {
			break
		}
		current = *parent.ParentUnitID
	}
	return nil
}

func (s *unitService) DeleteUnit(ctx context.Context, id, callerID string) error {
	if _, err := s.repo.Unit.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		return err
	}
	return s.repo.Unit.Delete(ctx, id, callerID)
}

func (s *unitService) GetOrbat(ctx context.Context) ([]dto.OrbatNode, error) {
	units, err := s.repo.Unit.List(ctx)
	if err != nil {
		s.logger.Error("list units failed", zap.Error(err))
		return nil, err
	}

	children := make(map[string][]*model.Unit)
	var roots []*model.Unit
	for i := range units {
		u := &units[i]
		if u.ParentUnitID == nil {
			roots = append(roots, u)
		} else {
			children[*u.ParentUnitID] = append(children[*u.ParentUnitID], u)
		}
	}

	var build func(u *model.Unit) (dto.OrbatNode, error)
	build = func(u *model.Unit) (dto.OrbatNode, error) {
		node := dto.OrbatNode{Unit: *toUnitResponse(u)}

		positions, err := s.ListPositions(ctx, u.UnitID)
		if err != nil {
			return node, err
		}
		node.Positions = positions

		for _, child := range children[u.UnitID] {
			childNode, err := build(child)
			if err != nil {
				return node, err
			}
			node.Children = append(node.Children, childNode)
		}
		return node, nil
	}

	tree := make([]dto.OrbatNode, 0, len(roots))
	for _, root := range roots {
		node, err := build(root)
		if err != nil {
			return nil, err
		}
		tree = append(tree, node)
	}
	return tree, nil
}

// ────────────────────── Positions ──────────────────────

func (s *unitService) CreatePosition(ctx context.Context, req *dto.CreatePositionRequest, callerID string) (*dto.PositionResponse, error) {
	if _, err := s.repo.Unit.GetByID(ctx, req.UnitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	pos := &model.Position{
		UnitID:       req.UnitID,
		Title:        req.Title,
		RoleCategory: req.RoleCategory,
		IsCommand:    req.IsCommand,
		IsNCO:        req.IsNCO,
		MOSCode:      req.MOSCode,
	}
	pos.CreatedBy = &callerID
	pos.UpdatedBy = &callerID

	if err := s.repo.Unit.CreatePosition(ctx, pos); err != nil {
		s.logger.Error("create position failed", zap.Error(err))
		return nil, err
	}
	return s.toPositionResponse(ctx, pos)
}

func (s *unitService) GetPosition(ctx context.Context, id string) (*dto.PositionResponse, error) {
	pos, err := s.repo.Unit.GetPosition(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	return s.toPositionResponse(ctx, pos)
}

func (s *unitService) ListPositions(ctx context.Context, unitID string) ([]dto.PositionResponse, error) {
	positions, err := s.repo.Unit.ListPositions(ctx, unitID)
	if err != nil {
		s.logger.Error("list positions failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PositionResponse, 0, len(positions))
	for i := range positions {
		resp, err := s.toPositionResponse(ctx, &positions[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *unitService) UpdatePosition(ctx context.Context, id string, req *dto.UpdatePositionRequest, callerID string) (*dto.PositionResponse, error) {
	pos, err := s.repo.Unit.GetPosition(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		pos.Title = *req.Title
	}
	if req.RoleCategory != nil {
		pos.RoleCategory = *req.RoleCategory
	}
	if req.IsCommand != nil {
		pos.IsCommand = *req.IsCommand
	}
	if req.IsNCO != nil {
		pos.IsNCO = *req.IsNCO
	}
	if req.MOSCode != nil {
		pos.MOSCode = *req.MOSCode
	}

	pos.UpdatedBy = &callerID
	if err := s.repo.Unit.UpdatePosition(ctx, pos); err != nil {
		s.logger.Error("update position failed", zap.String("position_id", id), zap.Error(err))
		return nil, err
	}
	return s.toPositionResponse(ctx, pos)
}

func (s *unitService) DeletePosition(ctx context.Context, id string) error {
	if _, err := s.repo.Unit.GetPosition(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPositionNotFound
		}
		return err
	}
	return s.repo.Unit.DeletePosition(ctx, id)
}

// ────────────────────── Assignments ──────────────────────

func (s *unitService) AssignPosition(ctx context.Context, req *dto.AssignPositionRequest, callerID string) (*dto.UserPositionResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pos, err := s.repo.Unit.GetPosition(ctx, req.PositionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}

	existing, err := s.repo.Unit.ListUserAssignments(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].PositionID == req.PositionID && existing[i].EndDate == nil {
			return nil, ErrAlreadyAssigned
		}
	}

	up := &model.UserPosition{
		UserID:     req.UserID,
		PositionID: req.PositionID,
		StartDate:  s.now(),
	}
	up.CreatedBy = &callerID
	up.UpdatedBy = &callerID

	if err := s.repo.Unit.CreateAssignment(ctx, up); err != nil {
		s.logger.Error("create assignment failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("position assigned",
		zap.String("user_id", req.UserID),
		zap.String("position", pos.Title),
	)

	up.Position = pos
	return toUserPositionResponse(up), nil
}

func (s *unitService) EndAssignment(ctx context.Context, assignmentID, callerID string) error {
	up, err := s.repo.Unit.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if up.EndDate != nil {
		return nil // already closed
	}

	now := s.now()
	up.EndDate = &now
	up.UpdatedBy = &callerID
	if err := s.repo.Unit.UpdateAssignment(ctx, up); err != nil {
		s.logger.Error("end assignment failed", zap.String("assignment_id", assignmentID), zap.Error(err))
		return err
	}
	return nil
}

func (s *unitService) ListUserAssignments(ctx context.Context, userID string) ([]dto.UserPositionResponse, error) {
	assignments, err := s.repo.Unit.ListUserAssignments(ctx, userID)
	if err != nil {
		s.logger.Error("list assignments failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.UserPositionResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, *toUserPositionResponse(&assignments[i]))
	}
	return result, nil
}

// ── DTO conversion helpers ──

func toUnitResponse(unit *model.Unit) *dto.UnitResponse {
	resp := &dto.UnitResponse{
		ID:       unit.UnitID,
		Name:     unit.Name,
		Callsign: unit.Callsign,
		UnitType: unit.UnitType,
		Branch:   unit.Branch,
	}
	if unit.ParentUnitID != nil {
		resp.ParentUnitID = *unit.ParentUnitID
	}
	return resp
}

func (s *unitService) toPositionResponse(ctx context.Context, pos *model.Position) (*dto.PositionResponse, error) {
	holders, err := s.repo.Unit.ListOpenByPosition(ctx, pos.PositionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PositionResponse{
		ID:           pos.PositionID,
		UnitID:       pos.UnitID,
		Title:        pos.Title,
		RoleCategory: pos.RoleCategory,
		IsCommand:    pos.IsCommand,
		IsNCO:        pos.IsNCO,
		MOSCode:      pos.MOSCode,
		Holders:      make([]dto.PositionHolder, 0, len(holders)),
		Vacant:       len(holders) == 0,
	}
	for i := range holders {
		h := dto.PositionHolder{
			UserID:    holders[i].UserID,
			StartDate: holders[i].StartDate.Format("2006-01-02"),
		}
		if holders[i].User != nil {
			h.Callsign = holders[i].User.Callsign
		}
		resp.Holders = append(resp.Holders, h)
	}
	return resp, nil
}

func toUserPositionResponse(up *model.UserPosition) *dto.UserPositionResponse {
	resp := &dto.UserPositionResponse{
		ID:        up.UserPositionID,
		StartDate: up.StartDate.Format("2006-01-02"),
	}
	if up.EndDate != nil {
		resp.EndDate = up.EndDate.Format("2006-01-02")
	}
	if up.Position != nil {
		resp.Position = &dto.PositionResponse{
			ID:           up.Position.PositionID,
			UnitID:       up.Position.UnitID,
			Title:        up.Position.Title,
			RoleCategory: up.Position.RoleCategory,
			IsCommand:    up.Position.IsCommand,
			IsNCO:        up.Position.IsNCO,
			MOSCode:      up.Position.MOSCode,
		}
	}
	return resp
}
