package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cinehub/internal/http/middleware"
	"cinehub/internal/service"
)

type AdminHandler struct {
	fetchSvc service.TMDBFetchService
}

func NewAdminHandler(fetchSvc service.TMDBFetchService) *AdminHandler {
	return &AdminHandler{fetchSvc: fetchSvc}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/fetch-tmdb-notifications", h.FetchTMDBNotifications)
}

// FetchTMDBNotifications pulls the TMDB category feeds and persists the
// results as notifications for the calling user. Per-category fetch
// failures degrade to zero items for that category.
func (h *AdminHandler) FetchTMDBNotifications(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	created, err := h.fetchSvc.FetchNotifications(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"created": created,
	})
}
