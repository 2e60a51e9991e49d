package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"socialite/internal/application"
	"socialite/internal/interface/middleware"
	"socialite/pkg/helpers"
	"socialite/pkg/response"
)

const maxGalleryUpload = 5

// ProfileHandler owns the signed-in user's own pages: home, profile edit,
// password change and the two upload flows.
type ProfileHandler struct {
	Svc     *application.Service
	RDB     *redis.Client
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewProfileHandler(svc *application.Service, rdb *redis.Client, cookies *helpers.CookieManager, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, RDB: rdb, Cookies: cookies, Logger: logger}
}

type profileEditForm struct {
	Name     string `form:"name" binding:"required,max=100"`
	Username string `form:"username" binding:"required,max=50"`
	Cell     string `form:"cell" binding:"required,max=30"`
	Location string `form:"location" binding:"required,max=100"`
	Gender   string `form:"gender" binding:"required,oneof=male female"`
	Age      int    `form:"age" binding:"omitempty,gte=1"`
	Skill    string `form:"skill" binding:"omitempty,max=100"`
}

type passChangeForm struct {
	OldPass     string `form:"oldPass" binding:"required"`
	NewPass     string `form:"newPass" binding:"required,pwd"`
	ConfirmPass string `form:"confirmPass" binding:"required"`
}

// Home renders the signed-in user's own profile with both sides of the
// follow graph.
func (h *ProfileHandler) Home(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	_, following, followers, err := h.Svc.GetProfile(c.Request.Context(), u.ID)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("load profile failed")
		c.JSON(http.StatusInternalServerError, response.Error[gin.H](c, http.StatusInternalServerError, "failed to load profile"))
		return
	}

	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{
		"page":      "profile",
		"user":      viewUser(u),
		"following": following,
		"followers": followers,
	}))
}

func (h *ProfileHandler) EditPage(c *gin.Context) {
	u := currentUser(c)
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{
		"page": "profile-edit",
		"user": viewUser(u),
	}))
}

func (h *ProfileHandler) Edit(c *gin.Context) {
	var form profileEditForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, h.RDB, "All fields required!", "/profile-edit")
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	_, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Name:     form.Name,
		Username: form.Username,
		Location: form.Location,
		Cell:     form.Cell,
		Age:      form.Age,
		Gender:   form.Gender,
		Skill:    form.Skill,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("profile update failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/profile-edit")
		return
	}
	flashRedirect(c, h.RDB, "Updated successfully", "/")
}

func (h *ProfileHandler) PassChangePage(c *gin.Context) {
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{"page": "pass-change"}))
}

// PassChange verifies the old password against the stored hash and, on
// success, invalidates the session so the user signs in again.
func (h *ProfileHandler) PassChange(c *gin.Context) {
	var form passChangeForm
	if err := c.ShouldBind(&form); err != nil {
		flashRedirect(c, h.RDB, "All fields required!", "/pass-change")
		return
	}
	if form.NewPass != form.ConfirmPass {
		flashRedirect(c, h.RDB, "Password not match", "/pass-change")
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	err := h.Svc.ChangePassword(c.Request.Context(), uid, form.OldPass, form.NewPass)
	switch {
	case errors.Is(err, application.ErrInvalidPassword):
		flashRedirect(c, h.RDB, "Invalid Password", "/pass-change")
		return
	case err != nil:
		h.Logger.WithError(err).WithField("user_id", uid).Error("password change failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/pass-change")
		return
	}

	h.Cookies.ClearUserToken(c)
	flashRedirect(c, h.RDB, "password change success", "/login")
}

func (h *ProfileHandler) PhotoUpPage(c *gin.Context) {
	u := currentUser(c)
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{
		"page":  "photo-up",
		"photo": u.Photo,
	}))
}

func (h *ProfileHandler) PhotoUp(c *gin.Context) {
	file, err := c.FormFile("profile-p")
	if err != nil {
		flashRedirect(c, h.RDB, "All fields required!", "/photo-up")
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	src, err := file.Open()
	if err != nil {
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/photo-up")
		return
	}
	defer func() { _ = src.Close() }()

	if _, err := h.Svc.UploadPhoto(c.Request.Context(), uid, src, file.Filename, contentTypeOf(file)); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("photo upload failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/photo-up")
		return
	}
	flashRedirect(c, h.RDB, "Photo uploaded", "/photo-up")
}

func (h *ProfileHandler) GalleryUpPage(c *gin.Context) {
	u := currentUser(c)
	c.JSON(http.StatusOK, response.Page(c, http.StatusOK, popFlash(c, h.RDB), gin.H{
		"page":    "gallery-up",
		"gallery": u.Gallery,
	}))
}

// GalleryUp accepts up to five photos per request under the gallery-p field.
func (h *ProfileHandler) GalleryUp(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["gallery-p"]) == 0 {
		flashRedirect(c, h.RDB, "All fields required!", "/gallery-up")
		return
	}
	files := form.File["gallery-p"]
	if len(files) > maxGalleryUpload {
		flashRedirect(c, h.RDB, "Max 5 photos allowed", "/gallery-up")
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	uploads := make([]application.GalleryFile, 0, len(files))
	opened := make([]multipart.File, 0, len(files))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			flashRedirect(c, h.RDB, "Something went wrong, try again", "/gallery-up")
			return
		}
		opened = append(opened, src)
		uploads = append(uploads, application.GalleryFile{
			Reader:      src,
			Filename:    fh.Filename,
			ContentType: contentTypeOf(fh),
		})
	}

	if _, err := h.Svc.UploadGallery(c.Request.Context(), uid, uploads); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("gallery upload failed")
		flashRedirect(c, h.RDB, "Something went wrong, try again", "/gallery-up")
		return
	}
	flashRedirect(c, h.RDB, "gallery photo uploaded", "/gallery-up")
}

func contentTypeOf(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}
