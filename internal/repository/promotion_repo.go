package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vanguard-hq/backend/internal/model"
)

// PromotionRepository is the promotion-engine data-access interface:
// requirement types, rank requirements, the progress cache and waivers.
type PromotionRepository interface {
	CreateType(ctx context.Context, rt *model.RequirementType) error
	GetType(ctx context.Context, id string) (*model.RequirementType, error)
	GetTypeByCode(ctx context.Context, code string) (*model.RequirementType, error)
	ListTypes(ctx context.Context) ([]model.RequirementType, error)

	CreateRequirement(ctx context.Context, req *model.RankRequirement) error
	GetRequirement(ctx context.Context, id string) (*model.RankRequirement, error)
	// ListRequirements returns a rank's requirements with their
	// requirement types preloaded.
	ListRequirements(ctx context.Context, rankID string) ([]model.RankRequirement, error)
	UpdateRequirement(ctx context.Context, req *model.RankRequirement) error
	DeleteRequirement(ctx context.Context, id string) error

	GetProgress(ctx context.Context, userID string) (*model.UserPromotionProgress, error)
	// SaveProgress upserts the per-user progress snapshot.
	SaveProgress(ctx context.Context, progress *model.UserPromotionProgress) error
	DeleteProgress(ctx context.Context, userID string) error

	CreateWaiver(ctx context.Context, waiver *model.PromotionWaiver) error
	GetWaiver(ctx context.Context, id string) (*model.PromotionWaiver, error)
	UpdateWaiver(ctx context.Context, waiver *model.PromotionWaiver) error
	ListWaivers(ctx context.Context, userID string) ([]model.PromotionWaiver, error)
	// ListActiveWaivers returns unexpired active waivers for a user.
	ListActiveWaivers(ctx context.Context, userID string) ([]model.PromotionWaiver, error)
	// GetActiveWaiver returns the active waiver for a user+requirement
	// pair, if one exists.
	GetActiveWaiver(ctx context.Context, userID, requirementID string) (*model.PromotionWaiver, error)
}

type promotionRepo struct {
	db *gorm.DB
}

// NewPromotionRepo creates the GORM-backed PromotionRepository.
func NewPromotionRepo(db *gorm.DB) PromotionRepository {
	return &promotionRepo{db: db}
}

func (r *promotionRepo) CreateType(ctx context.Context, rt *model.RequirementType) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *promotionRepo) GetType(ctx context.Context, id string) (*model.RequirementType, error) {
	var rt model.RequirementType
	if err := r.db.WithContext(ctx).Where("requirement_type_id = ?", id).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *promotionRepo) GetTypeByCode(ctx context.Context, code string) (*model.RequirementType, error) {
	var rt model.RequirementType
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *promotionRepo) ListTypes(ctx context.Context) ([]model.RequirementType, error) {
	var types []model.RequirementType
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *promotionRepo) CreateRequirement(ctx context.Context, req *model.RankRequirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *promotionRepo) GetRequirement(ctx context.Context, id string) (*model.RankRequirement, error) {
	var req model.RankRequirement
	err := r.db.WithContext(ctx).
		Preload("RequirementType").
		Where("requirement_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *promotionRepo) ListRequirements(ctx context.Context, rankID string) ([]model.RankRequirement, error) {
	var reqs []model.RankRequirement
	err := r.db.WithContext(ctx).
		Preload("RequirementType").
		Where("rank_id = ?", rankID).
		Order("is_mandatory DESC, requirement_group ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *promotionRepo) UpdateRequirement(ctx context.Context, req *model.RankRequirement) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *promotionRepo) DeleteRequirement(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("requirement_id = ?", id).Delete(&model.RankRequirement{}).Error
}

func (r *promotionRepo) GetProgress(ctx context.Context, userID string) (*model.UserPromotionProgress, error) {
	var progress model.UserPromotionProgress
	err := r.db.WithContext(ctx).
		Preload("NextRank").
		Where("user_id = ?", userID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *promotionRepo) SaveProgress(ctx context.Context, progress *model.UserPromotionProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"next_rank_id", "requirements_met", "overall_eligible",
				"eligibility_percentage", "active_waiver_ids",
				"last_evaluated_at", "updated_at",
			}),
		}).
		Create(progress).Error
}

func (r *promotionRepo) DeleteProgress(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.UserPromotionProgress{}).Error
}

func (r *promotionRepo) CreateWaiver(ctx context.Context, waiver *model.PromotionWaiver) error {
	return r.db.WithContext(ctx).Create(waiver).Error
}

func (r *promotionRepo) GetWaiver(ctx context.Context, id string) (*model.PromotionWaiver, error) {
	var waiver model.PromotionWaiver
	err := r.db.WithContext(ctx).
		Preload("Requirement").
		Where("waiver_id = ?", id).
		First(&waiver).Error
	if err != nil {
		return nil, err
	}
	return &waiver, nil
}

func (r *promotionRepo) UpdateWaiver(ctx context.Context, waiver *model.PromotionWaiver) error {
	return r.db.WithContext(ctx).Save(waiver).Error
}

func (r *promotionRepo) ListWaivers(ctx context.Context, userID string) ([]model.PromotionWaiver, error) {
	var waivers []model.PromotionWaiver
	err := r.db.WithContext(ctx).
		Preload("Requirement").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&waivers).Error
	if err != nil {
		return nil, err
	}
	return waivers, nil
}

func (r *promotionRepo) ListActiveWaivers(ctx context.Context, userID string) ([]model.PromotionWaiver, error) {
	var waivers []model.PromotionWaiver
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true", userID).
		Where("expires_at IS NULL OR expires_at > CURRENT_TIMESTAMP").
		Find(&waivers).Error
	if err != nil {
		return nil, err
	}
	return waivers, nil
}

func (r *promotionRepo) GetActiveWaiver(ctx context.Context, userID, requirementID string) (*model.PromotionWaiver, error) {
	var waiver model.PromotionWaiver
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND requirement_id = ? AND is_active = true", userID, requirementID).
		First(&waiver).Error
	if err != nil {
		return nil, err
	}
	return &waiver, nil
}
