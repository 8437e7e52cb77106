package service

import (
	"go.uber.org/zap"

	"vanguard-hq/backend/config"
	"vanguard-hq/backend/internal/repository"
	"vanguard-hq/backend/pkg/jwt"
	"vanguard-hq/backend/pkg/redis"
)

// Service aggregates all business services.
type Service struct {
	Auth          AuthService
	User          UserService
	Unit          UnitService
	Rank          RankService
	Certification CertificationService
	Event         EventService
	Promotion     PromotionService
	Export        ExportService
}

// NewService creates the service aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:          NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:          NewUserService(repo, logger),
		Unit:          NewUnitService(repo, logger),
		Rank:          NewRankService(repo, logger),
		Certification: NewCertificationService(repo, logger),
		Event:         NewEventService(repo, logger),
		Promotion:     NewPromotionService(repo, logger),
		Export:        NewExportService(cfg, repo, logger),
	}
}
