package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recruit-backend/internal/config"
	"recruit-backend/internal/handlers"
	"recruit-backend/internal/meeting"
	"recruit-backend/internal/middleware"
	"recruit-backend/internal/services"
	"recruit-backend/internal/storage"
)

type Deps struct {
	DB        *gorm.DB
	Cfg       config.Config
	Presigner *storage.Presigner
	Issuer    *meeting.TokenIssuer
}

func Register(router *gin.Engine, deps Deps) {
	router.Use(corsMiddleware(deps.Cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "recruit-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sync := services.NewGroupSyncService(deps.DB)

	authHandler := handlers.NewAuthHandler(deps.DB, deps.Cfg)
	candidateHandler := handlers.NewCandidateHandler(deps.DB, sync)
	holidayHandler := handlers.NewHolidayHandler(deps.DB)
	groupHandler := handlers.NewGroupHandler(deps.DB, sync)
	attendanceHandler := handlers.NewAttendanceHandler(deps.DB)
	shiftHandler := handlers.NewShiftHandler(deps.DB)
	activityHandler := handlers.NewActivityHandler(deps.DB)

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password/start", authHandler.ForgotPasswordStart)
		api.POST("/auth/forgot-password/verify", authHandler.ForgotPasswordVerify)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/logout", authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(deps.Cfg.JwtSecret))
	protected.Use(middleware.ActivityLogger(deps.DB))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me", authHandler.UpdateProfile)
		protected.PUT("/me/password", authHandler.ChangePassword)

		protected.GET("/candidates", candidateHandler.List)
		protected.GET("/candidates/:id", middleware.RequireAnyRole("admin", "recruiter"), candidateHandler.Get)
		protected.POST("/candidates", middleware.RequireAnyRole("admin", "recruiter"), candidateHandler.Create)
		protected.PUT("/candidates/:id", middleware.RequireAnyRole("admin", "recruiter"), candidateHandler.Update)
		protected.DELETE("/candidates/:id", middleware.RequireRole("admin"), candidateHandler.Delete)
		protected.POST("/candidates/:id/user", middleware.RequireAnyRole("admin", "recruiter"), candidateHandler.CreateUser)
		protected.POST("/candidates/:id/holidays", candidateHandler.AssignHolidays)
		protected.DELETE("/candidates/:id/holidays", candidateHandler.RemoveHolidays)

		protected.GET("/holidays", holidayHandler.List)
		protected.POST("/holidays", middleware.RequireRole("admin"), holidayHandler.Create)
		protected.PUT("/holidays/:id", middleware.RequireRole("admin"), holidayHandler.Update)
		protected.DELETE("/holidays/:id", middleware.RequireRole("admin"), holidayHandler.Delete)

		protected.GET("/groups", middleware.RequireAnyRole("admin", "recruiter"), groupHandler.List)
		protected.GET("/groups/:id", middleware.RequireAnyRole("admin", "recruiter"), groupHandler.Get)
		protected.POST("/groups", middleware.RequireRole("admin"), groupHandler.Create)
		protected.PUT("/groups/:id", middleware.RequireRole("admin"), groupHandler.Update)
		protected.DELETE("/groups/:id", middleware.RequireRole("admin"), groupHandler.Delete)
		protected.POST("/groups/:id/members", groupHandler.AddMembers)
		protected.DELETE("/groups/:id/members", groupHandler.RemoveMembers)
		protected.POST("/groups/:id/holidays", groupHandler.AssignHolidays)
		protected.DELETE("/groups/:id/holidays", groupHandler.RemoveHolidays)

		protected.GET("/attendance", attendanceHandler.List)
		protected.POST("/attendance/punch-in", attendanceHandler.PunchIn)
		protected.POST("/attendance/punch-out", attendanceHandler.PunchOut)
		protected.DELETE("/attendance/:id", middleware.RequireRole("admin"), attendanceHandler.Delete)

		protected.GET("/shifts", shiftHandler.List)
		protected.POST("/shifts", middleware.RequireAnyRole("admin", "recruiter"), shiftHandler.Create)
		protected.PUT("/shifts/:id", middleware.RequireAnyRole("admin", "recruiter"), shiftHandler.Update)
		protected.DELETE("/shifts/:id", middleware.RequireAnyRole("admin", "recruiter"), shiftHandler.Delete)

		protected.GET("/activity", middleware.RequireRole("admin"), activityHandler.List)

		if deps.Issuer != nil {
			meetingHandler := handlers.NewMeetingHandler(deps.Issuer)
			protected.POST("/meetings/token", middleware.RequireAnyRole("admin", "recruiter"), meetingHandler.IssueToken)
		}

		if deps.Presigner != nil {
			uploadHandler := handlers.NewUploadHandler(deps.Presigner)
			protected.POST("/uploads/presign", uploadHandler.PresignUpload)
			protected.POST("/uploads/presign-download", uploadHandler.PresignDownload)
		}
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
