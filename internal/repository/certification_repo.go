package repository

import (
	"context"

	"gorm.io/gorm"

	"vanguard-hq/backend/internal/model"
)

// CertificationRepository is the training data-access interface.
type CertificationRepository interface {
	Create(ctx context.Context, cert *model.Certification) error
	GetByID(ctx context.Context, id string) (*model.Certification, error)
	List(ctx context.Context) ([]model.Certification, error)
	Update(ctx context.Context, cert *model.Certification) error
	Delete(ctx context.Context, id string) error

	CreateUserCertificate(ctx context.Context, uc *model.UserCertificate) error
	GetUserCertificate(ctx context.Context, id string) (*model.UserCertificate, error)
	UpdateUserCertificate(ctx context.Context, uc *model.UserCertificate) error
	ListUserCertificates(ctx context.Context, userID string) ([]model.UserCertificate, error)
	// HasActiveCertificate reports whether the user holds an active
	// certificate for the given certification.
	HasActiveCertificate(ctx context.Context, userID, certificationID string) (bool, error)
}

type certificationRepo struct {
	db *gorm.DB
}

// NewCertificationRepo creates the GORM-backed CertificationRepository.
func NewCertificationRepo(db *gorm.DB) CertificationRepository {
	return &certificationRepo{db: db}
}

func (r *certificationRepo) Create(ctx context.Context, cert *model.Certification) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *certificationRepo) GetByID(ctx context.Context, id string) (*model.Certification, error) {
	var cert model.Certification
	if err := r.db.WithContext(ctx).Where("certification_id = ?", id).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificationRepo) List(ctx context.Context) ([]model.Certification, error) {
	var certs []model.Certification
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificationRepo) Update(ctx context.Context, cert *model.Certification) error {
	return r.db.WithContext(ctx).Save(cert).Error
}

func (r *certificationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("certification_id = ?", id).Delete(&model.Certification{}).Error
}

func (r *certificationRepo) CreateUserCertificate(ctx context.Context, uc *model.UserCertificate) error {
	return r.db.WithContext(ctx).Create(uc).Error
}

func (r *certificationRepo) GetUserCertificate(ctx context.Context, id string) (*model.UserCertificate, error) {
	var uc model.UserCertificate
	err := r.db.WithContext(ctx).
		Preload("Certification").
		Where("user_certificate_id = ?", id).
		First(&uc).Error
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *certificationRepo) UpdateUserCertificate(ctx context.Context, uc *model.UserCertificate) error {
	return r.db.WithContext(ctx).Save(uc).Error
}

func (r *certificationRepo) ListUserCertificates(ctx context.Context, userID string) ([]model.UserCertificate, error) {
	var ucs []model.UserCertificate
	err := r.db.WithContext(ctx).
		Preload("Certification").
		Where("user_id = ?", userID).
		Order("issue_date DESC").
		Find(&ucs).Error
	if err != nil {
		return nil, err
	}
	return ucs, nil
}

func (r *certificationRepo) HasActiveCertificate(ctx context.Context, userID, certificationID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserCertificate{}).
		Where("user_id = ? AND certification_id = ? AND is_active = true", userID, certificationID).
		Where("expiry_date IS NULL OR expiry_date > CURRENT_DATE").
		Count(&count).Error
	return count > 0, err
}
