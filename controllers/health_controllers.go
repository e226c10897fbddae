package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Health -> liveness plus database connectivity
func (hc *HealthController) Health(c *gin.Context) {
	state := "connected"
	code := http.StatusOK

	sqlDB, err := hc.DB.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		state = "disconnected"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    code == http.StatusOK,
		"database":  state,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
