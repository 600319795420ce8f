package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinehub/internal/http/dto"
	"cinehub/internal/http/middleware"
	"cinehub/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"redirect": "/login",
		"user_id":  user.ID,
		"username": user.Username,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identifier := req.ResolveIdentifier()
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier is required"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	// Cookie lets the page scripts hit the API without carrying the
	// token themselves; API clients can use the bearer header instead.
	c.SetCookie(middleware.AuthCookieName, token, 24*60*60, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": "/browse",
		"token":    token,
		"username": user.Username,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": "/login",
	})
}
