package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/finman/user-service/internal/application"
	"github.com/finman/user-service/internal/domain/entity"
	"github.com/finman/user-service/internal/interface/middleware"
	"github.com/finman/user-service/pkg/response"
	"github.com/finman/user-service/pkg/validation"
)

type UserHandler struct {
	Service *application.Service
	Logger  *logrus.Logger
}

func NewUserHandler(service *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Service: service, Logger: logger}
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Service.GetProfile(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(u), "profile")
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Service.UpdateProfile(c.Request.Context(), uid, req.FirstName, req.LastName)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(u), "profile updated")
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword PUT /api/profile/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Service.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated")
}

// Deactivate POST /api/profile/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Service.Deactivate(c.Request.Context(), uid); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account deactivated")
}

// Delete DELETE /api/profile
func (h *UserHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Service.DeleteAccount(c.Request.Context(), uid); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account deleted")
}

// Search GET /api/users/search?q=...&size=...
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Service.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "results")
}

func toProfile(u *entity.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Email:     u.Email.Value(),
		Username:  u.Username.Value(),
		FirstName: u.FirstName.Value(),
		LastName:  u.LastName.Value(),
		FullName:  u.FullName(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
