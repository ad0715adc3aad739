package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/finman/user-service/pkg/helpers"
	"github.com/finman/user-service/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the bearer access token and, when Redis is configured,
// requires an active session. It sets userID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}
		if rdb != nil {
			key := "user:session:" + claims.UserID
			var sess struct {
				UserID   string `json:"user_id"`
				LoggedIn bool   `json:"logged_in"`
			}
			found, err := helpers.RedisGetJSON(c.Request.Context(), rdb, key, &sess)
			if err != nil || !found || !sess.LoggedIn {
				response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	// Fall back to the cookie set by browser clients.
	if tok, err := c.Cookie("access_token"); err == nil {
		return tok
	}
	return ""
}
