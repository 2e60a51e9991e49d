package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"socialite/pkg/helpers"
)

// GuestOnly keeps logged-in users away from the auth pages. The presence
// of the userToken cookie alone is enough to redirect; the token is not
// verified here (the authenticated guard does that on guarded routes).
func GuestOnly(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(helpers.UserTokenCookie); err == nil && token != "" {
			helpers.SetFlash(c.Request.Context(), rdb, c.GetString(CtxSessionIDKey), "You already logged in!")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
