package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finman/user-service/internal/container"
	handlers "github.com/finman/user-service/internal/interface/http"
	"github.com/finman/user-service/internal/interface/middleware"
)

// AuthModule wires the public registration and login endpoints.
// POST /api/auth/register, POST /api/auth/login, POST /api/auth/refresh,
// POST /api/auth/reactivate

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/refresh", loginLimiter, m.Handler.Refresh)
	auth.POST("/reactivate", loginLimiter, m.Handler.Reactivate)
}
