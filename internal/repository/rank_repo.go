package repository

import (
	"context"

	"gorm.io/gorm"

	"vanguard-hq/backend/internal/model"
)

// RankRepository is the rank and rank-history data-access interface.
type RankRepository interface {
	Create(ctx context.Context, rank *model.Rank) error
	GetByID(ctx context.Context, id string) (*model.Rank, error)
	List(ctx context.Context, branch string) ([]model.Rank, error)
	Update(ctx context.Context, rank *model.Rank) error
	Delete(ctx context.Context, id string) error
	// GetNextRank returns the lowest-tier rank of the branch strictly
	// above the given tier.
	GetNextRank(ctx context.Context, branch string, aboveTier int) (*model.Rank, error)
	// CountHolders counts members currently holding the rank.
	CountHolders(ctx context.Context, rankID string) (int64, error)

	CreateHistory(ctx context.Context, entry *model.UserRankHistory) error
	// GetOpenHistory returns the user's rank-history row with a null
	// end date, if any.
	GetOpenHistory(ctx context.Context, userID string) (*model.UserRankHistory, error)
	// GetLatestForRank returns the most recent history row for a given
	// user and rank.
	GetLatestForRank(ctx context.Context, userID, rankID string) (*model.UserRankHistory, error)
	UpdateHistory(ctx context.Context, entry *model.UserRankHistory) error
	ListHistory(ctx context.Context, userID string) ([]model.UserRankHistory, error)
}

type rankRepo struct {
	db *gorm.DB
}

// NewRankRepo creates the GORM-backed RankRepository.
func NewRankRepo(db *gorm.DB) RankRepository {
	return &rankRepo{db: db}
}

func (r *rankRepo) Create(ctx context.Context, rank *model.Rank) error {
	return r.db.WithContext(ctx).Create(rank).Error
}

func (r *rankRepo) GetByID(ctx context.Context, id string) (*model.Rank, error) {
	var rank model.Rank
	if err := r.db.WithContext(ctx).Where("rank_id = ?", id).First(&rank).Error; err != nil {
		return nil, err
	}
	return &rank, nil
}

func (r *rankRepo) List(ctx context.Context, branch string) ([]model.Rank, error) {
	var ranks []model.Rank
	db := r.db.WithContext(ctx)
	if branch != "" {
		db = db.Where("branch = ?", branch)
	}
	if err := db.Order("branch ASC, tier ASC").Find(&ranks).Error; err != nil {
		return nil, err
	}
	return ranks, nil
}

func (r *rankRepo) Update(ctx context.Context, rank *model.Rank) error {
	return r.db.WithContext(ctx).Save(rank).Error
}

func (r *rankRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("rank_id = ?", id).Delete(&model.Rank{}).Error
}

func (r *rankRepo) CountHolders(ctx context.Context, rankID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("current_rank_id = ?", rankID).
		Count(&count).Error
	return count, err
}

func (r *rankRepo) GetNextRank(ctx context.Context, branch string, aboveTier int) (*model.Rank, error) {
	var rank model.Rank
	err := r.db.WithContext(ctx).
		Where("branch = ? AND tier > ?", branch, aboveTier).
		Order("tier ASC").
		First(&rank).Error
	if err != nil {
		return nil, err
	}
	return &rank, nil
}

func (r *rankRepo) CreateHistory(ctx context.Context, entry *model.UserRankHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *rankRepo) GetOpenHistory(ctx context.Context, userID string) (*model.UserRankHistory, error) {
	var entry model.UserRankHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date_ended IS NULL", userID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rankRepo) GetLatestForRank(ctx context.Context, userID, rankID string) (*model.UserRankHistory, error) {
	var entry model.UserRankHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND rank_id = ?", userID, rankID).
		Order("date_started DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rankRepo) UpdateHistory(ctx context.Context, entry *model.UserRankHistory) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *rankRepo) ListHistory(ctx context.Context, userID string) ([]model.UserRankHistory, error) {
	var entries []model.UserRankHistory
	err := r.db.WithContext(ctx).
		Preload("Rank").
		Where("user_id = ?", userID).
		Order("date_started DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
