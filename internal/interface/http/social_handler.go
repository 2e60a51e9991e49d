package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"socialite/internal/application"
	"socialite/internal/interface/middleware"
	"socialite/pkg/response"
)

// SocialHandler owns user discovery, public profiles and the follow graph.
type SocialHandler struct {
	Svc    *application.Service
	RDB    *redis.Client
	Logger *logrus.Logger
}

func NewSocialHandler(svc *application.Service, rdb *redis.Client, logger *logrus.Logger) *SocialHandler {
	return &SocialHandler{Svc: svc, RDB: rdb, Logger: logger}
}

// Find lists everyone except the requester. With ?q= it runs a full-text
// search over the users index instead.
func (h *SocialHandler) Find(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		hits, err := h.Svc.SearchUsers(c.Request.Context(), q, 10)
		if err != nil {
			h.Logger.WithError(err).WithField("query", q).Error("user search failed")
			c.JSON(http.StatusInternalServerError, response.Error[gin.H](c, http.StatusInternalServerError, "search failed"))
			return
		}
		c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{
			"page":  "find",
			"query": q,
			"users": hits,
		}))
		return
	}

	users, err := h.Svc.FindUsers(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		c.JSON(http.StatusInternalServerError, response.Error[gin.H](c, http.StatusInternalServerError, "failed to load users"))
		return
	}
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{
		"page":  "find",
		"users": viewUsers(users),
	}))
}

// UserProfile renders another user's public profile.
func (h *SocialHandler) UserProfile(c *gin.Context) {
	id := c.Param("id")

	u, following, followers, err := h.Svc.GetProfile(c.Request.Context(), id)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		flashRedirect(c, h.RDB, "User not found", "/find")
		return
	case err != nil:
		h.Logger.WithError(err).WithField("user_id", id).Error("load user profile failed")
		c.JSON(http.StatusInternalServerError, response.Error[gin.H](c, http.StatusInternalServerError, "failed to load profile"))
		return
	}

	self := c.GetString(middleware.CtxUserIDKey)
	followedBySelf := false
	for _, fid := range followers {
		if fid == self {
			followedBySelf = true
			break
		}
	}

	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{
		"page":      "user",
		"user":      viewUser(u),
		"following": following,
		"followers": followers,
		"followed":  followedBySelf,
	}))
}

func (h *SocialHandler) Follow(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	target := c.Param("id")

	err := h.Svc.Follow(c.Request.Context(), uid, target)
	switch {
	case errors.Is(err, application.ErrSelfFollow):
		flashRedirect(c, h.RDB, "You can't follow yourself", "/find")
		return
	case errors.Is(err, application.ErrUserNotFound):
		flashRedirect(c, h.RDB, "User not found", "/find")
		return
	case err != nil:
		h.Logger.WithError(err).WithField("target_id", target).Error("follow failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/find")
		return
	}
	flashRedirect(c, h.RDB, "Follows updated", "/"+target)
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	target := c.Param("id")

	err := h.Svc.Unfollow(c.Request.Context(), uid, target)
	switch {
	case errors.Is(err, application.ErrSelfFollow):
		flashRedirect(c, h.RDB, "You can't follow yourself", "/find")
		return
	case err != nil:
		h.Logger.WithError(err).WithField("target_id", target).Error("unfollow failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/find")
		return
	}
	flashRedirect(c, h.RDB, "Follows updated", "/"+target)
}
