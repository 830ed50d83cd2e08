// Package routes assembles the HTTP surface: global middleware, the public
// auth and health endpoints, and the role-guarded resource groups.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/authz"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/controllers"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/services"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SetupRouter builds the engine. The database must already be installed
// with config.SetDB.
func SetupRouter(cfg *config.Config, tokens *services.TokenService, blacklist services.TokenBlacklist, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log),
		middleware.CORS(cfg.ClientURL),
		middleware.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst),
	)
	router.NoRoute(middleware.NotFound())

	api := router.Group("/api")

	health := api.Group("/health")
	{
		health.GET("", controllers.HealthCheck)
		health.GET("/database", controllers.DatabaseStatus)
	}

	protect := []gin.HandlerFunc{
		middleware.EnsureValidToken(tokens, blacklist, log),
		middleware.LoadCurrentUser(config.GetDB()),
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register",
			middleware.RequireFields("name", "email", "password", "phone", "address"),
			middleware.ValidateEmail(),
			middleware.ValidatePhone(),
			controllers.Register,
		)
		auth.POST("/login",
			middleware.RequireFields("email", "password"),
			middleware.ValidateEmail(),
			controllers.Login,
		)
		auth.GET("/me", append(protect, controllers.GetMe)...)
		auth.POST("/logout", append(protect, controllers.Logout)...)
	}

	secured := api.Group("", protect...)

	installations := secured.Group("/installations")
	{
		installations.GET("", middleware.Authorize(authz.Installations, authz.ActionList), controllers.GetInstallations)
		installations.POST("",
			middleware.Authorize(authz.Installations, authz.ActionCreate),
			middleware.RequireFields("address", "systemSize", "panelType", "numberOfPanels", "estimatedCost"),
			controllers.CreateInstallation,
		)
		installations.GET("/:id", middleware.Authorize(authz.Installations, authz.ActionGet), controllers.GetInstallation)
		installations.PUT("/:id", middleware.Authorize(authz.Installations, authz.ActionUpdate), controllers.UpdateInstallation)
		installations.DELETE("/:id", middleware.Authorize(authz.Installations, authz.ActionDelete), controllers.DeleteInstallation)
		installations.POST("/:id/photo", middleware.Authorize(authz.Installations, authz.ActionUpload), controllers.UploadSitePhoto)
		installations.GET("/:id/photo", middleware.Authorize(authz.Installations, authz.ActionGet), controllers.GetSitePhoto)
	}

	maintenance := secured.Group("/maintenance")
	{
		maintenance.GET("", middleware.Authorize(authz.Maintenance, authz.ActionList), controllers.GetMaintenanceRequests)
		maintenance.POST("",
			middleware.Authorize(authz.Maintenance, authz.ActionCreate),
			middleware.RequireFields("installation", "requestType", "description"),
			controllers.CreateMaintenance,
		)
		maintenance.GET("/:id", middleware.Authorize(authz.Maintenance, authz.ActionGet), controllers.GetMaintenanceRequest)
		maintenance.PUT("/:id", middleware.Authorize(authz.Maintenance, authz.ActionUpdate), controllers.UpdateMaintenance)
		maintenance.DELETE("/:id", middleware.Authorize(authz.Maintenance, authz.ActionDelete), controllers.DeleteMaintenance)
	}

	tickets := secured.Group("/tickets")
	{
		tickets.GET("", middleware.Authorize(authz.Tickets, authz.ActionList), controllers.GetTickets)
		tickets.POST("",
			middleware.Authorize(authz.Tickets, authz.ActionCreate),
			middleware.RequireFields("title", "description", "category"),
			controllers.CreateTicket,
		)
		tickets.GET("/:id", middleware.Authorize(authz.Tickets, authz.ActionGet), controllers.GetTicket)
		tickets.PUT("/:id", middleware.Authorize(authz.Tickets, authz.ActionUpdate), controllers.UpdateTicket)
		tickets.DELETE("/:id", middleware.Authorize(authz.Tickets, authz.ActionDelete), controllers.DeleteTicket)
		tickets.POST("/:id/close", middleware.Authorize(authz.Tickets, authz.ActionClose), controllers.CloseTicket)
	}

	// static segments are registered before /:id
	equipment := secured.Group("/equipment")
	{
		equipment.GET("/lowstock", middleware.Authorize(authz.Equipment, authz.ActionLowStock), controllers.GetLowStockEquipment)
		equipment.GET("/export", middleware.Authorize(authz.Equipment, authz.ActionExport), controllers.ExportEquipment)
		equipment.GET("", middleware.Authorize(authz.Equipment, authz.ActionList), controllers.GetEquipment)
		equipment.POST("",
			middleware.Authorize(authz.Equipment, authz.ActionCreate),
			middleware.RequireFields("name", "category", "manufacturer", "model", "quantity", "unitPrice", "supplier"),
			controllers.CreateEquipment,
		)
		equipment.GET("/:id", middleware.Authorize(authz.Equipment, authz.ActionGet), controllers.GetEquipmentItem)
		equipment.PUT("/:id", middleware.Authorize(authz.Equipment, authz.ActionUpdate), controllers.UpdateEquipment)
		equipment.DELETE("/:id", middleware.Authorize(authz.Equipment, authz.ActionDelete), controllers.DeleteEquipment)
	}

	schedules := secured.Group("/schedules")
	{
		schedules.GET("", middleware.Authorize(authz.Schedules, authz.ActionList), controllers.GetSchedules)
		schedules.POST("",
			middleware.Authorize(authz.Schedules, authz.ActionCreate),
			middleware.RequireFields("technician", "date", "timeSlot", "jobType", "location", "estimatedDuration"),
			controllers.CreateSchedule,
		)
		schedules.GET("/:id", middleware.Authorize(authz.Schedules, authz.ActionGet), controllers.GetSchedule)
		schedules.PUT("/:id", middleware.Authorize(authz.Schedules, authz.ActionUpdate), controllers.UpdateSchedule)
		schedules.DELETE("/:id", middleware.Authorize(authz.Schedules, authz.ActionDelete), controllers.DeleteSchedule)
	}

	users := secured.Group("/users")
	{
		users.GET("", middleware.Authorize(authz.Users, authz.ActionList), controllers.GetUsers)
		users.GET("/role/:role", middleware.Authorize(authz.Users, authz.ActionListByRole), controllers.GetUsersByRole)
		users.GET("/:id", middleware.Authorize(authz.Users, authz.ActionGet), controllers.GetUser)
		users.PUT("/:id", middleware.Authorize(authz.Users, authz.ActionUpdate), controllers.UpdateUser)
		users.DELETE("/:id", middleware.Authorize(authz.Users, authz.ActionDelete), controllers.DeleteUser)
	}

	return router
}
