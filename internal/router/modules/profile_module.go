package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"socialite/internal/container"
	repo "socialite/internal/domain/repository"
	handlers "socialite/internal/interface/http"
	"socialite/internal/interface/middleware"
)

// ProfileModule wires the signed-in user's own pages.
// Protected: GET /, GET/POST /profile-edit, GET/POST /pass-change,
// GET/POST /photo-up, GET/POST /gallery-up

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Users   repo.UserRepository
}

func NewProfileModule(h *handlers.ProfileHandler, users repo.UserRepository) *ProfileModule {
	return &ProfileModule{Handler: h, Users: users}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	uploadLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
	passLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil)

	auth := rg.Group("/")
	auth.Use(middleware.RequireUser(m.Users, container.GetTokens(), container.GetRedis(), container.GetCookies()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		auth.GET("/", m.Handler.Home)
		auth.GET("/profile-edit", m.Handler.EditPage)
		auth.POST("/profile-edit", m.Handler.Edit)
		auth.GET("/pass-change", m.Handler.PassChangePage)
		auth.POST("/pass-change", passLimiter, m.Handler.PassChange)
		auth.GET("/photo-up", m.Handler.PhotoUpPage)
		auth.POST("/photo-up", uploadLimiter, m.Handler.PhotoUp)
		auth.GET("/gallery-up", m.Handler.GalleryUpPage)
		auth.POST("/gallery-up", uploadLimiter, m.Handler.GalleryUp)
	}
}
