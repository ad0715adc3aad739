package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finman/user-service/internal/container"
	handlers "github.com/finman/user-service/internal/interface/http"
	"github.com/finman/user-service/internal/interface/middleware"
)

// UserModule wires the JWT-protected profile endpoints.
// GET/PUT /api/profile, PUT /api/profile/password,
// POST /api/profile/deactivate, DELETE /api/profile, GET /api/users/search

type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	protected := rg.Group("/")
	protected.Use(middleware.Auth(container.GetRedis(), container.GetJWT()))
	protected.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP()))
	{
		protected.GET("/profile", m.Handler.GetProfile)
		protected.PUT("/profile", m.Handler.UpdateProfile)
		protected.PUT("/profile/password", m.Handler.ChangePassword)
		protected.POST("/profile/deactivate", m.Handler.Deactivate)
		protected.DELETE("/profile", m.Handler.Delete)
		protected.GET("/users/search", m.Handler.Search)
	}
}
