package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cinehub/internal/http/dto"
	"cinehub/internal/http/middleware"
	"cinehub/internal/repository"
	"cinehub/internal/service"
)

type CollectionHandler struct {
	svc service.CollectionService
}

func NewCollectionHandler(svc service.CollectionService) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

// RegisterRoutes wires the three collection variants. Trailers watched
// is append-only and gets no DELETE route.
func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/my-list", h.list(repository.KindMyList))
	rg.POST("/my-list", h.save(repository.KindMyList))
	rg.DELETE("/my-list", h.remove(repository.KindMyList))

	rg.GET("/likes", h.list(repository.KindLikes))
	rg.POST("/likes", h.save(repository.KindLikes))
	rg.DELETE("/likes", h.remove(repository.KindLikes))

	rg.GET("/trailers", h.list(repository.KindTrailers))
	rg.POST("/trailers", h.save(repository.KindTrailers))
}

func (h *CollectionHandler) list(kind repository.CollectionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		items, err := h.svc.List(ctx, kind, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		// Clients iterate the response directly, so this is a bare array.
		c.JSON(http.StatusOK, items)
	}
}

func (h *CollectionHandler) save(kind repository.CollectionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		var req dto.CollectionItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.svc.Save(ctx, kind, userID, req.TMDBID, req.MediaType, req.Data); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (h *CollectionHandler) remove(kind repository.CollectionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		var req dto.CollectionItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Removing an absent key is success, not an error.
		if err := h.svc.Remove(ctx, kind, userID, req.TMDBID, req.MediaType); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
