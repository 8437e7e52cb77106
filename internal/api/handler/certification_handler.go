package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/service"
	"vanguard-hq/backend/pkg/response"
)

// CertificationHandler serves the training catalog endpoints.
type CertificationHandler struct {
	certSvc service.CertificationService
}

// NewCertificationHandler creates the CertificationHandler.
func NewCertificationHandler(certSvc service.CertificationService) *CertificationHandler {
	return &CertificationHandler{certSvc: certSvc}
}

// CreateCertification adds a qualification to the catalog.
// POST /api/v1/certifications
func (h *CertificationHandler) CreateCertification(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.CreateCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	cert, err := h.certSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, cert)
}

// GetCertification returns one catalog entry.
// GET /api/v1/certifications/:id
func (h *CertificationHandler) GetCertification(c *gin.Context) {
	cert, err := h.certSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCertificationNotFound) {
			response.NotFound(c, 14001, "certification not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, cert)
}

// ListCertifications lists the catalog.
// GET /api/v1/certifications
func (h *CertificationHandler) ListCertifications(c *gin.Context) {
	certs, err := h.certSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, certs)
}

// UpdateCertification edits a catalog entry.
// PUT /api/v1/certifications/:id
func (h *CertificationHandler) UpdateCertification(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.UpdateCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	cert, err := h.certSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCertificationNotFound) {
			response.NotFound(c, 14001, "certification not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, cert)
}

// DeleteCertification removes a catalog entry.
// DELETE /api/v1/certifications/:id
func (h *CertificationHandler) DeleteCertification(c *gin.Context) {
	if err := h.certSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCertificationNotFound) {
			response.NotFound(c, 14001, "certification not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// AwardCertificate awards a certification to a user.
// POST /api/v1/certifications/award
func (h *CertificationHandler) AwardCertificate(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.AwardCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	uc, err := h.certSvc.Award(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "user not found")
		case errors.Is(err, service.ErrCertificationNotFound):
			response.NotFound(c, 14001, "certification not found")
		case errors.Is(err, service.ErrCertificateExists):
			response.BadRequest(c, 14002, "user already holds an active certificate")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, uc)
}

// RevokeCertificate deactivates an awarded certificate.
// POST /api/v1/certifications/certificates/:id/revoke
func (h *CertificationHandler) RevokeCertificate(c *gin.Context) {
	callerID, _ := currentUserID(c)

	if err := h.certSvc.Revoke(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrUserCertificateNotFound) {
			response.NotFound(c, 14003, "user certificate not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ListUserCertificates lists a user's awarded certificates.
// GET /api/v1/users/:id/certificates
func (h *CertificationHandler) ListUserCertificates(c *gin.Context) {
	ucs, err := h.certSvc.ListUserCertificates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, ucs)
}
