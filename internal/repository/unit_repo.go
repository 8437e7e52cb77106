package repository

import (
	"context"

	"gorm.io/gorm"

	"vanguard-hq/backend/internal/model"
)

// UnitRepository is the unit/position data-access interface.
type UnitRepository interface {
	Create(ctx context.Context, unit *model.Unit) error
	GetByID(ctx context.Context, id string) (*model.Unit, error)
	List(ctx context.Context) ([]model.Unit, error)
	Update(ctx context.Context, unit *model.Unit) error
	Delete(ctx context.Context, id, callerID string) error

	CreatePosition(ctx context.Context, pos *model.Position) error
	GetPosition(ctx context.Context, id string) (*model.Position, error)
	ListPositions(ctx context.Context, unitID string) ([]model.Position, error)
	UpdatePosition(ctx context.Context, pos *model.Position) error
	DeletePosition(ctx context.Context, id string) error

	CreateAssignment(ctx context.Context, up *model.UserPosition) error
	GetAssignment(ctx context.Context, id string) (*model.UserPosition, error)
	UpdateAssignment(ctx context.Context, up *model.UserPosition) error
	// ListUserAssignments returns all of a user's position spans,
	// position preloaded, newest first.
	ListUserAssignments(ctx context.Context, userID string) ([]model.UserPosition, error)
	// ListOpenByPosition returns current holders of a position.
	ListOpenByPosition(ctx context.Context, positionID string) ([]model.UserPosition, error)
}

type unitRepo struct {
	db *gorm.DB
}

// NewUnitRepo creates the GORM-backed UnitRepository.
func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db: db}
}

func (r *unitRepo) Create(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepo) GetByID(ctx context.Context, id string) (*model.Unit, error) {
	var unit model.Unit
	if err := r.db.WithContext(ctx).Where("unit_id = ?", id).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) List(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *unitRepo) Update(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *unitRepo) Delete(ctx context.Context, id, callerID string) error {
	return r.db.WithContext(ctx).Model(&model.Unit{}).
		Where("unit_id = ?", id).
		Update("deleted_by", callerID).
		Delete(&model.Unit{}, "unit_id = ?", id).Error
}

func (r *unitRepo) CreatePosition(ctx context.Context, pos *model.Position) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

func (r *unitRepo) GetPosition(ctx context.Context, id string) (*model.Position, error) {
	var pos model.Position
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Where("position_id = ?", id).
		First(&pos).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *unitRepo) ListPositions(ctx context.Context, unitID string) ([]model.Position, error) {
	var positions []model.Position
	db := r.db.WithContext(ctx)
	if unitID != "" {
		db = db.Where("unit_id = ?", unitID)
	}
	if err := db.Order("title ASC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *unitRepo) UpdatePosition(ctx context.Context, pos *model.Position) error {
	return r.db.WithContext(ctx).Save(pos).Error
}

func (r *unitRepo) DeletePosition(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("position_id = ?", id).Delete(&model.Position{}).Error
}

func (r *unitRepo) CreateAssignment(ctx context.Context, up *model.UserPosition) error {
	return r.db.WithContext(ctx).Create(up).Error
}

func (r *unitRepo) GetAssignment(ctx context.Context, id string) (*model.UserPosition, error) {
	var up model.UserPosition
	err := r.db.WithContext(ctx).
		Preload("Position").
		Where("user_position_id = ?", id).
		First(&up).Error
	if err != nil {
		return nil, err
	}
	return &up, nil
}

func (r *unitRepo) UpdateAssignment(ctx context.Context, up *model.UserPosition) error {
	return r.db.WithContext(ctx).Save(up).Error
}

func (r *unitRepo) ListUserAssignments(ctx context.Context, userID string) ([]model.UserPosition, error) {
	var assignments []model.UserPosition
	err := r.db.WithContext(ctx).
		Preload("Position").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *unitRepo) ListOpenByPosition(ctx context.Context, positionID string) ([]model.UserPosition, error) {
	var assignments []model.UserPosition
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("position_id = ? AND end_date IS NULL", positionID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
