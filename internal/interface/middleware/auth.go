package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	repo "socialite/internal/domain/repository"
	"socialite/pkg/helpers"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

// RequireUser is the authenticated gatekeeper. It verifies the userToken
// cookie as a session-purpose token, then loads the referenced user fresh
// from the store so handlers never act on a stale snapshot. Any failure
// clears session state and bounces to /login; the clear is idempotent, so
// re-running it on every guarded request is safe.
//
// Per request: NoToken -> ClearAndReject; ParseFail -> ClearAndReject;
// UserMissing -> ClearAndReject; otherwise Accept.
func RequireUser(users repo.UserRepository, tokens *helpers.TokenManager, rdb *redis.Client, cookies *helpers.CookieManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func(msg, userID string) {
			if rdb != nil && userID != "" {
				_ = rdb.Del(c.Request.Context(), helpers.SessionKey(userID)).Err()
			}
			cookies.ClearUserToken(c)
			helpers.SetFlash(c.Request.Context(), rdb, c.GetString(CtxSessionIDKey), msg)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}

		token, err := c.Cookie(helpers.UserTokenCookie)
		if err != nil || token == "" {
			reject("You aren't authorized", "")
			return
		}
		claims, err := tokens.Parse(token, helpers.PurposeSession)
		if err != nil {
			reject("Invalid token", "")
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			reject("Token user not found", claims.UserID)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}
