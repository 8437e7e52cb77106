package model

import "time"

// Certification is a qualification in the training catalog — maps to
// certifications.
type Certification struct {
	CertificationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"certification_id"`
	Code            string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name            string `gorm:"type:varchar(100);not null"                     json:"name"`
	Category        string `gorm:"type:varchar(50)"                               json:"category"`
	Description     string `gorm:"type:text"                                      json:"description"`
	BaseModel
}

// TableName sets the table name.
func (Certification) TableName() string { return "certifications" }

// UserCertificate records a certification awarded to a user — maps to
// user_certificates. Revocation flips IsActive instead of deleting.
type UserCertificate struct {
	UserCertificateID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_certificate_id"`
	UserID            string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	CertificationID   string     `gorm:"type:uuid;not null"                             json:"certification_id"`
	IssuedByID        *string    `gorm:"type:uuid"                                      json:"issued_by_id,omitempty"`
	IssueDate         time.Time  `gorm:"type:date;not null"                             json:"issue_date"`
	ExpiryDate        *time.Time `gorm:"type:date"                                      json:"expiry_date,omitempty"`
	IsActive          bool       `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	Certification *Certification `gorm:"foreignKey:CertificationID;references:CertificationID" json:"certification,omitempty"`
}

// TableName sets the table name.
func (UserCertificate) TableName() string { return "user_certificates" }
