package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vanguard-hq/backend/config"
	"vanguard-hq/backend/internal/api/handler"
	"vanguard-hq/backend/internal/api/middleware"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/pkg/jwt"
	"vanguard-hq/backend/pkg/redis"
)

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	officers := middleware.RoleAuth(model.RoleAdmin, model.RoleOfficer)
	admins := middleware.RoleAuth(model.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		// Authentication (no token required).
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Public calendar feed for external subscriptions.
		v1.GET("/events/calendar.ics", h.Event.CalendarFeed)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", officers, h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser) // admin or self, checked in handler
				users.PUT("/:id/role", admins, h.User.AssignRole)
				users.POST("/:id/approve", officers, h.User.ApproveApplication)
				users.POST("/:id/discharge", admins, h.User.Discharge)
				users.GET("/:id/positions", h.Unit.ListUserAssignments)
				users.GET("/:id/rank-history", h.Rank.ListRankHistory)
				users.GET("/:id/certificates", h.Certification.ListUserCertificates)
			}

			units := authorized.Group("/units")
			{
				units.GET("", h.Unit.ListUnits)
				units.GET("/orbat", h.Unit.GetOrbat)
				units.GET("/:id", h.Unit.GetUnit)
				units.POST("", admins, h.Unit.CreateUnit)
				units.PUT("/:id", admins, h.Unit.UpdateUnit)
				units.DELETE("/:id", admins, h.Unit.DeleteUnit)
			}

			positions := authorized.Group("/positions")
			{
				positions.GET("", h.Unit.ListPositions)
				positions.GET("/:id", h.Unit.GetPosition)
				positions.POST("", admins, h.Unit.CreatePosition)
				positions.PUT("/:id", admins, h.Unit.UpdatePosition)
				positions.DELETE("/:id", admins, h.Unit.DeletePosition)
				positions.POST("/assign", officers, h.Unit.AssignPosition)
				positions.POST("/assignments/:id/end", officers, h.Unit.EndAssignment)
			}

			ranks := authorized.Group("/ranks")
			{
				ranks.GET("", h.Rank.ListRanks)
				ranks.GET("/:id", h.Rank.GetRank)
				ranks.GET("/:id/requirements", h.Promotion.ListRequirements)
				ranks.POST("", admins, h.Rank.CreateRank)
				ranks.PUT("/:id", admins, h.Rank.UpdateRank)
				ranks.DELETE("/:id", admins, h.Rank.DeleteRank)
			}

			certifications := authorized.Group("/certifications")
			{
				certifications.GET("", h.Certification.ListCertifications)
				certifications.GET("/:id", h.Certification.GetCertification)
				certifications.POST("", admins, h.Certification.CreateCertification)
				certifications.PUT("/:id", admins, h.Certification.UpdateCertification)
				certifications.DELETE("/:id", admins, h.Certification.DeleteCertification)
				certifications.POST("/award", officers, h.Certification.AwardCertificate)
				certifications.POST("/certificates/:id/revoke", officers, h.Certification.RevokeCertificate)
			}

			events := authorized.Group("/events")
			{
				events.GET("", h.Event.ListEvents)
				events.GET("/:id", h.Event.GetEvent)
				events.POST("", officers, h.Event.CreateEvent)
				events.PUT("/:id", officers, h.Event.UpdateEvent)
				events.DELETE("/:id", officers, h.Event.DeleteEvent)
				events.POST("/:id/rsvp", h.Event.RSVP)
				events.POST("/:id/check-in/:user_id", officers, h.Event.CheckIn)
				events.GET("/:id/attendance", officers, h.Event.ListAttendance)
			}

			promotions := authorized.Group("/promotions")
			{
				promotions.GET("/checklist", h.Promotion.GetMyChecklist)
				promotions.GET("/progress", h.Promotion.GetMyProgress)
				promotions.GET("/progress/:user_id", h.Promotion.GetProgress) // self or officer, checked in handler
				promotions.POST("/promote", officers, h.Promotion.Promote)
				promotions.GET("/requirement-types", officers, h.Promotion.ListRequirementTypes)
				promotions.POST("/requirement-types", admins, h.Promotion.CreateRequirementType)
				promotions.POST("/requirements", admins, h.Promotion.CreateRequirement)
				promotions.DELETE("/requirements/:id", admins, h.Promotion.DeleteRequirement)
				promotions.POST("/waivers", officers, h.Promotion.GrantWaiver)
				promotions.GET("/waivers/:user_id", officers, h.Promotion.ListWaivers)
				promotions.POST("/waivers/:id/revoke", officers, h.Promotion.RevokeWaiver)
			}

			export := authorized.Group("/export")
			{
				export.GET("/roster.xlsx", officers, h.Export.RosterXLSX)
			}
		}
	}

	return r
}
