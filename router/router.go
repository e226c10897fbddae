package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-reservation/config"
	"github.com/yeremiapane/table-reservation/controllers"
	"github.com/yeremiapane/table-reservation/hub"
	"github.com/yeremiapane/table-reservation/middlewares"
	"github.com/yeremiapane/table-reservation/scheduling"
	"github.com/yeremiapane/table-reservation/utils"
)

// Dependencies are the collaborators the HTTP layer is built on.
type Dependencies struct {
	DB        *gorm.DB
	Scheduler *scheduling.Scheduler
	Hub       *hub.Hub
	Config    *config.Config
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	secret := []byte(cfg.StaffTokenSecret)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSAllowedOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())

	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, errors.New("route not found"))
	})

	healthCtrl := controllers.NewHealthController(deps.DB)
	tableCtrl := controllers.NewTableController(deps.Scheduler, deps.Hub)
	reservationCtrl := controllers.NewReservationController(deps.Scheduler, deps.Hub)
	reportCtrl := controllers.NewReportController(deps.Scheduler)

	r.GET("/health", healthCtrl.Health)
	r.GET("/tables", tableCtrl.GetAllTables)

	reservations := r.Group("/reservations")
	{
		reservations.POST("", reservationCtrl.CreateReservation)
		reservations.GET("", reservationCtrl.GetReservations)
		reservations.GET("/:id", reservationCtrl.GetReservationByID)
		reservations.PUT("/:id", reservationCtrl.UpdateReservation)
		reservations.PATCH("/:id", reservationCtrl.UpdateReservation)
		reservations.DELETE("/:id", reservationCtrl.CancelReservation)
	}

	admin := r.Group("/admin")
	admin.Use(middlewares.StaffAuth(secret))
	{
		admin.POST("/tables", middlewares.RequireRole(middlewares.RoleManager), tableCtrl.CreateTable)
		admin.GET("/reservations/sheet",
			middlewares.RequireRole(middlewares.RoleHost, middlewares.RoleManager),
			reportCtrl.DailySheet)
	}

	r.GET("/ws",
		middlewares.WebSocketAuthMiddleware(secret),
		controllers.BoardHandler(deps.Hub, cfg.CORSAllowedOrigin))

	return r
}
