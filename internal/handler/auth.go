package handler

import (
	"errors"
	"net/http"

	"daily-bread/internal/logger"
	"daily-bread/internal/middleware"
	"daily-bread/internal/model"
	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth      *service.AuthService
	jwtSecret []byte
}

func NewAuthHandler(auth *service.AuthService, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{auth: auth, jwtSecret: jwtSecret}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req)
	if errors.Is(err, service.ErrUsernameTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}
	if err != nil {
		logger.Error("register failed", "username", req.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	logger.Info("register.ok", "uid", u.ID, "username", u.Username)
	h.respondWithToken(c, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login.failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	logger.Info("login.ok", "uid", u.ID, "name", u.Name)
	h.respondWithToken(c, u)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, u *model.User) {
	token, err := middleware.IssueToken(h.jwtSecret, u.ID, u.Name, u.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.SessionUser{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Role: u.Role},
	})
}
