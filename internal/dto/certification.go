package dto

// CreateCertificationRequest adds a qualification to the catalog.
type CreateCertificationRequest struct {
	Code        string `json:"code"        binding:"required,max=20"`
	Name        string `json:"name"        binding:"required,max=100"`
	Category    string `json:"category"    binding:"omitempty,max=50"`
	Description string `json:"description"`
}

// UpdateCertificationRequest edits a catalog entry. Nil means unchanged.
type UpdateCertificationRequest struct {
	Name        *string `json:"name"     binding:"omitempty,max=100"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	Description *string `json:"description"`
}

// AwardCertificateRequest awards a certification to a user.
type AwardCertificateRequest struct {
	UserID          string  `json:"user_id"          binding:"required,uuid"`
	CertificationID string  `json:"certification_id" binding:"required,uuid"`
	ExpiryDate      *string `json:"expiry_date"` // YYYY-MM-DD
}

// CertificationResponse is the public view of a catalog entry.
type CertificationResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// UserCertificateResponse is one awarded certificate.
type UserCertificateResponse struct {
	ID            string                 `json:"id"`
	Certification *CertificationResponse `json:"certification,omitempty"`
	IssueDate     string                 `json:"issue_date"`
	ExpiryDate    string                 `json:"expiry_date,omitempty"`
	IsActive      bool                   `json:"is_active"`
}
