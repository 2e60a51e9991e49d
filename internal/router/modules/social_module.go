package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"socialite/internal/container"
	repo "socialite/internal/domain/repository"
	handlers "socialite/internal/interface/http"
	"socialite/internal/interface/middleware"
)

// SocialModule wires discovery and the follow graph.
// Protected: GET /find, GET /follow/:id, GET /unfollow/:id, GET /:id
// The :id route resolves after every static route at the same level.

type SocialModule struct {
	Handler *handlers.SocialHandler
	Users   repo.UserRepository
}

func NewSocialModule(h *handlers.SocialHandler, users repo.UserRepository) *SocialModule {
	return &SocialModule{Handler: h, Users: users}
}

func (m *SocialModule) Register(rg *gin.RouterGroup) {
	followLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil)
	searchLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil)

	auth := rg.Group("/")
	auth.Use(middleware.RequireUser(m.Users, container.GetTokens(), container.GetRedis(), container.GetCookies()))
	{
		auth.GET("/find", searchLimiter, m.Handler.Find)
		auth.GET("/follow/:id", followLimiter, m.Handler.Follow)
		auth.GET("/unfollow/:id", followLimiter, m.Handler.Unfollow)
		auth.GET("/:id", m.Handler.UserProfile)
	}
}
