package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/internal/repository"
)

var (
	ErrRankNotFound = errors.New("rank not found")
	ErrRankInUse    = errors.New("rank is held by at least one member")
)

// RankService manages the rank ladders and exposes rank history.
type RankService interface {
	Create(ctx context.Context, req *dto.CreateRankRequest, callerID string) (*dto.RankResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RankResponse, error)
	List(ctx context.Context, branch string) ([]dto.RankResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRankRequest, callerID string) (*dto.RankResponse, error)
	Delete(ctx context.Context, id string) error
	ListHistory(ctx context.Context, userID string) ([]dto.RankHistoryResponse, error)
}

type rankService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRankService creates the RankService.
func NewRankService(repo *repository.Repository, logger *zap.Logger) RankService {
	return &rankService{repo: repo, logger: logger}
}

func (s *rankService) Create(ctx context.Context, req *dto.CreateRankRequest, callerID string) (*dto.RankResponse, error) {
	rank := &model.Rank{
		Code:     req.Code,
		Name:     req.Name,
		Branch:   req.Branch,
		Tier:     req.Tier,
		PayGrade: req.PayGrade,
	}
	rank.CreatedBy = &callerID
	rank.UpdatedBy = &callerID

	if err := s.repo.Rank.Create(ctx, rank); err != nil {
		s.logger.Error("create rank failed", zap.Error(err))
		return nil, err
	}
	return toRankResponse(rank), nil
}

func (s *rankService) GetByID(ctx context.Context, id string) (*dto.RankResponse, error) {
	rank, err := s.repo.Rank.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRankNotFound
		}
		return nil, err
	}
	return toRankResponse(rank), nil
}

func (s *rankService) List(ctx context.Context, branch string) ([]dto.RankResponse, error) {
	ranks, err := s.repo.Rank.List(ctx, branch)
	if err != nil {
		s.logger.Error("list ranks failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RankResponse, 0, len(ranks))
	for i := range ranks {
		result = append(result, *toRankResponse(&ranks[i]))
	}
	return result, nil
}

func (s *rankService) Update(ctx context.Context, id string, req *dto.UpdateRankRequest, callerID string) (*dto.RankResponse, error) {
	rank, err := s.repo.Rank.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRankNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		rank.Name = *req.Name
	}
	if req.Tier != nil {
		rank.Tier = *req.Tier
	}
	if req.PayGrade != nil {
		rank.PayGrade = *req.PayGrade
	}

	rank.UpdatedBy = &callerID
	if err := s.repo.Rank.Update(ctx, rank); err != nil {
		s.logger.Error("update rank failed", zap.String("rank_id", id), zap.Error(err))
		return nil, err
	}
	return toRankResponse(rank), nil
}

func (s *rankService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Rank.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRankNotFound
		}
		return err
	}

	holders, err := s.repo.Rank.CountHolders(ctx, id)
	if err != nil {
		s.logger.Error("count rank holders failed", zap.String("rank_id", id), zap.Error(err))
		return err
	}
	if holders > 0 {
		return ErrRankInUse
	}

	return s.repo.Rank.Delete(ctx, id)
}

func (s *rankService) ListHistory(ctx context.Context, userID string) ([]dto.RankHistoryResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	entries, err := s.repo.Rank.ListHistory(ctx, userID)
	if err != nil {
		s.logger.Error("list rank history failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.RankHistoryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		resp := dto.RankHistoryResponse{
			ID:             e.HistoryID,
			DateStarted:    e.DateStarted.Format("2006-01-02"),
			PromotionOrder: e.PromotionOrder,
			Notes:          e.Notes,
			ForceOverride:  e.ForceOverride,
		}
		if e.DateEnded != nil {
			resp.DateEnded = e.DateEnded.Format("2006-01-02")
		}
		if e.Rank != nil {
			resp.Rank = toRankResponse(e.Rank)
		}
		result = append(result, resp)
	}
	return result, nil
}
