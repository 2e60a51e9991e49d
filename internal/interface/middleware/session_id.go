package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialite/pkg/helpers"
)

const CtxSessionIDKey = "sid"

// SessionID guarantees every visitor carries the anonymous sid cookie that
// keys flash messages, setting a fresh uuid on first contact.
func SessionID(cookies *helpers.CookieManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(helpers.SessionIDCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			cookies.SetSessionID(c, sid)
		}
		c.Set(CtxSessionIDKey, sid)
		c.Next()
	}
}
