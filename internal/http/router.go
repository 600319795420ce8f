package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinehub/internal/config"
	"cinehub/internal/http/handler"
	"cinehub/internal/http/middleware"
	"cinehub/internal/service"
)

// Handlers bundles everything the router needs; cmd/api-server builds
// it once all dependencies are wired.
type Handlers struct {
	Auth         *handler.AuthHandler
	Collection   *handler.CollectionHandler
	Reminder     *handler.ReminderHandler
	Notification *handler.NotificationHandler
	Admin        *handler.AdminHandler
}

// NewRouter assembles the gin engine. Everything under /api plus logout
// requires an authenticated user; login and register do not.
func NewRouter(cfg *config.Config, logger *slog.Logger, authService service.AuthService, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/login", h.Auth.Login)
	r.POST("/register", h.Auth.Register)

	authed := r.Group("/", middleware.AuthMiddleware(authService))
	authed.POST("/logout", h.Auth.Logout)

	me := authed.Group("/api/me")
	h.Collection.RegisterRoutes(me)
	h.Reminder.RegisterRoutes(me)

	api := authed.Group("/api")
	h.Notification.RegisterRoutes(api)

	admin := authed.Group("/api/admin")
	h.Admin.RegisterRoutes(admin)

	return r
}
