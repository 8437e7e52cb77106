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
	ErrUserNotFound     = errors.New("user not found")
	ErrUserNotApplicant = errors.New("user is not an applicant")
	ErrUnitNotFound     = errors.New("unit not found")
)

// UserService manages member profiles and the onboarding pipeline.
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	AssignRole(ctx context.Context, id, role, callerID string) (*dto.UserResponse, error)
	// ApproveApplication turns an applicant into an active member and
	// starts their service clock.
	ApproveApplication(ctx context.Context, id, callerID string) (*dto.UserResponse, error)
	Discharge(ctx context.Context, id, callerID string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService creates the UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger, now: time.Now}
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Callsign != nil && *req.Callsign != user.Callsign {
		if _, err := s.repo.User.GetByCallsign(ctx, *req.Callsign); err == nil {
			return nil, ErrCallsignTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Callsign = *req.Callsign
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Branch != nil {
		user.Branch = *req.Branch
	}
	if req.UnitID != nil {
		if *req.UnitID == "" {
			user.UnitID = nil
			user.UnitAssignmentDate = nil
			user.Unit = nil
		} else if user.UnitID == nil || *user.UnitID != *req.UnitID {
			if _, err := s.repo.Unit.GetByID(ctx, *req.UnitID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrUnitNotFound
				}
				return nil, err
			}
			now := s.now()
			user.UnitID = req.UnitID
			user.UnitAssignmentDate = &now
			user.Unit = nil
		}
	}

	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(updated), nil
}

func (s *userService) AssignRole(ctx context.Context, id, role, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("assign role failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("role assigned",
		zap.String("user_id", id),
		zap.String("role", role),
		zap.String("assigned_by", callerID),
	)
	return toUserResponse(user), nil
}

func (s *userService) ApproveApplication(ctx context.Context, id, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Status != model.UserStatusApplicant {
		return nil, ErrUserNotApplicant
	}

	now := s.now()
	user.Status = model.UserStatusActive
	user.JoinDate = &now
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("approve application failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("application approved",
		zap.String("user_id", id),
		zap.String("callsign", user.Callsign),
		zap.String("approved_by", callerID),
	)
	return toUserResponse(user), nil
}

func (s *userService) Discharge(ctx context.Context, id, callerID string) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.Status = model.UserStatusDischarged
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("discharge user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("user discharged",
		zap.String("user_id", id),
		zap.String("discharged_by", callerID),
	)
	return nil
}

func toUserResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:       user.UserID,
		Callsign: user.Callsign,
		Email:    user.Email,
		Role:     user.Role,
		Status:   user.Status,
		Branch:   user.Branch,
	}
	if user.JoinDate != nil {
		resp.JoinDate = user.JoinDate.Format("2006-01-02")
	}
	if user.UnitAssignmentDate != nil {
		resp.UnitAssignmentDate = user.UnitAssignmentDate.Format("2006-01-02")
	}
	if user.CurrentRank != nil {
		resp.CurrentRank = toRankResponse(user.CurrentRank)
	}
	if user.Unit != nil {
		resp.Unit = toUnitResponse(user.Unit)
	}
	return resp
}
