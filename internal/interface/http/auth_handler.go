package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/finman/user-service/internal/application"
	"github.com/finman/user-service/pkg/response"
	"github.com/finman/user-service/pkg/validation"
)

type AuthHandler struct {
	Service *application.Service
	Logger  *logrus.Logger
}

func NewAuthHandler(service *application.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Service: service, Logger: logger}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	result, err := h.Service.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", "/api/users/"+result.ID)
	response.Success(c, http.StatusCreated, result, "user registered")
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginPayload struct {
	User   *application.LoginResponse `json:"user"`
	Tokens application.TokenPair      `json:"tokens"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	user, pair, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, loginPayload{User: user, Tokens: pair}, "login successful")
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh POST /api/auth/refresh
// Exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	pair, err := h.Service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pair, "tokens refreshed")
}

// Reactivate POST /api/auth/reactivate
// Restores a deactivated or soft-deleted account for a caller presenting
// valid credentials.
func (h *AuthHandler) Reactivate(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Service.Reactivate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user_id": u.ID, "is_active": u.IsActive}, "account reactivated")
}
