package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"socialite/internal/container"
	handlers "socialite/internal/interface/http"
	"socialite/internal/interface/middleware"
)

// AuthModule wires the anonymous flows: register, login, activation,
// logout and password reset.
// Guest-guarded: GET/POST /register, GET/POST /login, GET/POST /forget-pass
// Public: GET /logout, GET /activate/:token, GET/POST /resetpass/:token

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	activateLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	guest := rg.Group("/")
	guest.Use(middleware.GuestOnly(container.GetRedis()))
	{
		guest.GET("/register", m.Handler.RegisterPage)
		guest.POST("/register", registerLimiter, m.Handler.Register)
		guest.GET("/login", m.Handler.LoginPage)
		guest.POST("/login", loginLimiter, m.Handler.Login)
		guest.GET("/forget-pass", m.Handler.ForgetPassPage)
		guest.POST("/forget-pass", forgetLimiter, m.Handler.ForgetPass)
	}

	rg.GET("/logout", m.Handler.Logout)
	rg.GET("/activate/:token", activateLimiter, m.Handler.Activate)
	rg.GET("/resetpass/:token", m.Handler.ResetPassPage)
	rg.POST("/resetpass/:token", resetLimiter, m.Handler.ResetPass)
}
