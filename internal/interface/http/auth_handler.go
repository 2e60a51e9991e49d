package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"socialite/internal/application"
	"socialite/pkg/helpers"
	"socialite/pkg/response"
)

// AuthHandler owns the register, login, activation and password-reset flows.
type AuthHandler struct {
	Svc     *application.Service
	RDB     *redis.Client
	Cookies *helpers.CookieManager
	Tokens  *helpers.TokenManager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.Service, rdb *redis.Client, cookies *helpers.CookieManager, tokens *helpers.TokenManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, RDB: rdb, Cookies: cookies, Tokens: tokens, Logger: logger}
}

type registerForm struct {
	Name     string `form:"name" binding:"required,max=100"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,pwd"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type forgetPassForm struct {
	Email string `form:"email" binding:"required,email"`
}

type resetPassForm struct {
	NewPass     string `form:"newPass" binding:"required,pwd"`
	ConfirmPass string `form:"confirmPass" binding:"required"`
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{"page": "register"}))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, h.RDB, "All fields required!", "/register")
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), form.Name, form.Email, form.Password)
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		flashRedirect(c, h.RDB, "Email already exist!", "/register")
		return
	case err != nil:
		h.Logger.WithError(err).Error("register failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/register")
		return
	}

	h.Logger.WithField("user_id", u.ID).Info("user registered")
	flashRedirect(c, h.RDB, "User Registered", "/login")
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{"page": "login"}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, h.RDB, "All fields required!", "/login")
		return
	}

	u, token, exp, err := h.Svc.Login(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		flashRedirect(c, h.RDB, "Email not exist", "/login")
		return
	case errors.Is(err, application.ErrNotActivated):
		flashRedirect(c, h.RDB, "Please activate!", "/login")
		return
	case errors.Is(err, application.ErrInvalidPassword):
		flashRedirect(c, h.RDB, "Invalid Password", "/login")
		return
	case err != nil:
		h.Logger.WithError(err).Error("login failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/login")
		return
	}

	h.Cookies.SetUserToken(c, token, exp)
	h.Logger.WithField("user_id", u.ID).Info("user logged in")
	flashRedirect(c, h.RDB, "Login Success", "/")
}

// Logout is reachable without the authenticated guard, matching the flow it
// replaces. The session record is dropped best effort from the cookie's
// claims; the cookie is always cleared.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(helpers.UserTokenCookie); err == nil && token != "" {
		if claims, err := h.Tokens.Parse(token, helpers.PurposeSession); err == nil {
			h.Svc.Logout(c.Request.Context(), claims.UserID)
		}
	}
	h.Cookies.ClearUserToken(c)
	flashRedirect(c, h.RDB, "Logout Success", "/login")
}

func (h *AuthHandler) Activate(c *gin.Context) {
	alreadyActive, err := h.Svc.Activate(c.Request.Context(), c.Param("token"))
	switch {
	case errors.Is(err, application.ErrInvalidToken), errors.Is(err, application.ErrUserNotFound):
		flashRedirect(c, h.RDB, "Invalid activation link", "/login")
		return
	case err != nil:
		h.Logger.WithError(err).Error("activation failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/login")
		return
	case alreadyActive:
		flashRedirect(c, h.RDB, "Account activated", "/login")
		return
	}
	flashRedirect(c, h.RDB, "Account activation success, Please login", "/login")
}

func (h *AuthHandler) ForgetPassPage(c *gin.Context) {
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{"page": "forget-pass"}))
}

func (h *AuthHandler) ForgetPass(c *gin.Context) {
	var form forgetPassForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, h.RDB, "All fields required!", "/forget-pass")
		return
	}

	err := h.Svc.ForgotPassword(c.Request.Context(), form.Email)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		flashRedirect(c, h.RDB, "Email not found on our end", "/forget-pass")
		return
	case err != nil:
		h.Logger.WithError(err).Error("forgot password failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/forget-pass")
		return
	}
	flashRedirect(c, h.RDB, "Email Send success", "/forget-pass")
}

func (h *AuthHandler) ResetPassPage(c *gin.Context) {
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{
		"page":  "resetpass",
		"token": c.Param("token"),
	}))
}

func (h *AuthHandler) ResetPass(c *gin.Context) {
	token := c.Param("token")

	var form resetPassForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, h.RDB, "All fields required!", "/resetpass/"+token)
		return
	}
	if form.NewPass != form.ConfirmPass {
		flashRedirect(c, h.RDB, "Password not match", "/resetpass/"+token)
		return
	}

	err := h.Svc.ResetPassword(c.Request.Context(), token, form.NewPass)
	switch {
	case errors.Is(err, application.ErrInvalidToken), errors.Is(err, application.ErrUserNotFound):
		flashRedirect(c, h.RDB, "Token not valid", "/forget-pass")
		return
	case err != nil:
		h.Logger.WithError(err).Error("password reset failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/forget-pass")
		return
	}
	flashRedirect(c, h.RDB, "Pass successfully reset", "/login")
}
