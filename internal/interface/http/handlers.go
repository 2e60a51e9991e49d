package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"socialite/internal/domain/entity"
	"socialite/internal/interface/middleware"
	"socialite/pkg/helpers"
)

// Every POST action finishes the same way the source flow does: store a
// one-shot flash message, then redirect.
func flashRedirect(c *gin.Context, rdb *redis.Client, msg, location string) {
	helpers.SetFlash(c.Request.Context(), rdb, c.GetString(middleware.CtxSessionIDKey), msg)
	c.Redirect(http.StatusFound, location)
}

func popFlash(c *gin.Context, rdb *redis.Client) string {
	return helpers.PopFlash(c.Request.Context(), rdb, c.GetString(middleware.CtxSessionIDKey))
}

// currentUser returns the fresh user record placed in context by the
// authenticated guard.
func currentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(middleware.CtxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

// viewUser is the public projection of a user record; the password hash
// never leaves the handler layer.
func viewUser(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"username":   u.Username,
		"email":      u.Email,
		"location":   u.Location,
		"cell":       u.Cell,
		"age":        u.Age,
		"gender":     u.Gender,
		"skill":      u.Skill,
		"photo":      u.Photo,
		"gallery":    u.Gallery,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func viewUsers(users []*entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, viewUser(u))
	}
	return out
}
