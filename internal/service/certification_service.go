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
	ErrCertificationNotFound   = errors.New("certification not found")
	ErrUserCertificateNotFound = errors.New("user certificate not found")
	ErrCertificateExists       = errors.New("user already holds an active certificate")
)

// CertificationService manages the training catalog and awarded
// certificates.
type CertificationService interface {
	Create(ctx context.Context, req *dto.CreateCertificationRequest, callerID string) (*dto.CertificationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CertificationResponse, error)
	List(ctx context.Context) ([]dto.CertificationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCertificationRequest, callerID string) (*dto.CertificationResponse, error)
	Delete(ctx context.Context, id string) error

	Award(ctx context.Context, req *dto.AwardCertificateRequest, callerID string) (*dto.UserCertificateResponse, error)
	Revoke(ctx context.Context, userCertificateID, callerID string) error
	ListUserCertificates(ctx context.Context, userID string) ([]dto.UserCertificateResponse, error)
}

type certificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCertificationService creates the CertificationService.
func NewCertificationService(repo *repository.Repository, logger *zap.Logger) CertificationService {
	return &certificationService{repo: repo, logger: logger, now: time.Now}
}

func (s *certificationService) Create(ctx context.Context, req *dto.CreateCertificationRequest, callerID string) (*dto.CertificationResponse, error) {
	cert := &model.Certification{
		Code:        req.Code,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	}
	cert.CreatedBy = &callerID
	cert.UpdatedBy = &callerID

	if err := s.repo.Certification.Create(ctx, cert); err != nil {
		s.logger.Error("create certification failed", zap.Error(err))
		return nil, err
	}
	return toCertificationResponse(cert), nil
}

func (s *certificationService) GetByID(ctx context.Context, id string) (*dto.CertificationResponse, error) {
	cert, err := s.repo.Certification.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificationNotFound
		}
		return nil, err
	}
	return toCertificationResponse(cert), nil
}

func (s *certificationService) List(ctx context.Context) ([]dto.CertificationResponse, error) {
	certs, err := s.repo.Certification.List(ctx)
	if err != nil {
		s.logger.Error("list certifications failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CertificationResponse, 0, len(certs))
	for i := range certs {
		result = append(result, *toCertificationResponse(&certs[i]))
	}
	return result, nil
}

func (s *certificationService) Update(ctx context.Context, id string, req *dto.UpdateCertificationRequest, callerID string) (*dto.CertificationResponse, error) {
	cert, err := s.repo.Certification.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificationNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		cert.Name = *req.Name
	}
	if req.Category != nil {
		cert.Category = *req.Category
	}
	if req.Description != nil {
		cert.Description = *req.Description
	}

	cert.UpdatedBy = &callerID
	if err := s.repo.Certification.Update(ctx, cert); err != nil {
		s.logger.Error("update certification failed", zap.String("certification_id", id), zap.Error(err))
		return nil, err
	}
	return toCertificationResponse(cert), nil
}

func (s *certificationService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Certification.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCertificationNotFound
		}
		return err
	}
	return s.repo.Certification.Delete(ctx, id)
}

func (s *certificationService) Award(ctx context.Context, req *dto.AwardCertificateRequest, callerID string) (*dto.UserCertificateResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	cert, err := s.repo.Certification.GetByID(ctx, req.CertificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificationNotFound
		}
		return nil, err
	}

	has, err := s.repo.Certification.HasActiveCertificate(ctx, req.UserID, req.CertificationID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, ErrCertificateExists
	}

	var expiryDate *time.Time
	if req.ExpiryDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, errors.New("invalid expiry_date, expected YYYY-MM-DD")
		}
		expiryDate = &t
	}

	uc := &model.UserCertificate{
		UserID:          req.UserID,
		CertificationID: req.CertificationID,
		IssuedByID:      &callerID,
		IssueDate:       s.now(),
		ExpiryDate:      expiryDate,
		IsActive:        true,
	}
	uc.CreatedBy = &callerID
	uc.UpdatedBy = &callerID

	if err := s.repo.Certification.CreateUserCertificate(ctx, uc); err != nil {
		s.logger.Error("award certificate failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("certificate awarded",
		zap.String("user_id", req.UserID),
		zap.String("certification", cert.Code),
	)

	uc.Certification = cert
	return toUserCertificateResponse(uc), nil
}

func (s *certificationService) Revoke(ctx context.Context, userCertificateID, callerID string) error {
	uc, err := s.repo.Certification.GetUserCertificate(ctx, userCertificateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserCertificateNotFound
		}
		return err
	}

	uc.IsActive = false
	uc.UpdatedBy = &callerID
	if err := s.repo.Certification.UpdateUserCertificate(ctx, uc); err != nil {
		s.logger.Error("revoke certificate failed", zap.String("user_certificate_id", userCertificateID), zap.Error(err))
		return err
	}
	return nil
}

func (s *certificationService) ListUserCertificates(ctx context.Context, userID string) ([]dto.UserCertificateResponse, error) {
	ucs, err := s.repo.Certification.ListUserCertificates(ctx, userID)
	if err != nil {
		s.logger.Error("list user certificates failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.UserCertificateResponse, 0, len(ucs))
	for i := range ucs {
		result = append(result, *toUserCertificateResponse(&ucs[i]))
	}
	return result, nil
}

func toCertificationResponse(cert *model.Certification) *dto.CertificationResponse {
	return &dto.CertificationResponse{
		ID:          cert.CertificationID,
		Code:        cert.Code,
		Name:        cert.Name,
		Category:    cert.Category,
		Description: cert.Description,
	}
}

func toUserCertificateResponse(uc *model.UserCertificate) *dto.UserCertificateResponse {
	resp := &dto.UserCertificateResponse{
		ID:        uc.UserCertificateID,
		IssueDate: uc.IssueDate.Format("2006-01-02"),
		IsActive:  uc.IsActive,
	}
	if uc.ExpiryDate != nil {
		resp.ExpiryDate = uc.ExpiryDate.Format("2006-01-02")
	}
	if uc.Certification != nil {
		resp.Certification = toCertificationResponse(uc.Certification)
	}
	return resp
}
