package handler

import (
	"github.com/gin-gonic/gin"

	"vanguard-hq/backend/internal/service"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth          *AuthHandler
	User          *UserHandler
	Unit          *UnitHandler
	Rank          *RankHandler
	Certification *CertificationHandler
	Event         *EventHandler
	Promotion     *PromotionHandler
	Export        *ExportHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service, orgName string) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		User:          NewUserHandler(svc.User),
		Unit:          NewUnitHandler(svc.Unit),
		Rank:          NewRankHandler(svc.Rank),
		Certification: NewCertificationHandler(svc.Certification),
		Event:         NewEventHandler(svc.Event, orgName),
		Promotion:     NewPromotionHandler(svc.Promotion),
		Export:        NewExportHandler(svc.Export),
	}
}

// currentUserID reads the authenticated user id injected by JWTAuth.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	return userID.(string), true
}

// currentRole reads the authenticated role injected by JWTAuth.
func currentRole(c *gin.Context) string {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}
	return role.(string)
}
