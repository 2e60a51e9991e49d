package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// UserTokenCookie carries the session-purpose JWT.
	UserTokenCookie = "userToken"
	// SessionIDCookie keys anonymous flash-message state in Redis.
	SessionIDCookie = "sid"
)

type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

func (m *CookieManager) SetUserToken(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(UserTokenCookie, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) ClearUserToken(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(UserTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
}

// SetSessionID stores the anonymous session id; long-lived so flash
// messages survive the redirect dance across visits.
func (m *CookieManager) SetSessionID(c *gin.Context, sid string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionIDCookie, sid, int((30 * 24 * time.Hour).Seconds()), "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
