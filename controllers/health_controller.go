package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/config"
)

// HealthCheck handles GET /api/health
func HealthCheck(c *gin.Context) {
	environment := ""
	if cfg := config.GetConfig(); cfg != nil {
		environment = cfg.GoEnv
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "SunServe API is running successfully",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": environment,
	})
}

// DatabaseStatus handles GET /api/health/database: pings the pool and
// lists the tables it can see
func DatabaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		respondError(c, apperror.Unavailable("Database connection failed"))
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		respondError(c, apperror.Unavailable("Database connection failed"))
		return
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		respondError(c, apperror.Unavailable("Database connection failed"))
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
