package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"socialite/internal/domain/entity"
	"socialite/internal/infrastructure/memory"
	"socialite/pkg/helpers"
)

func newGuardedRouter(t *testing.T) (*gin.Engine, *memory.UserRepository, *helpers.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewUserRepository()
	tokens := helpers.NewTokenManager("testsecret", time.Hour, time.Hour, time.Hour)
	cookies := helpers.NewCookieManager("localhost", false)

	r := gin.New()
	r.GET("/guarded", RequireUser(repo, tokens, nil, cookies), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey))
	})
	return r, repo, tokens
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: helpers.UserTokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireUserNoToken(t *testing.T) {
	r, _, _ := newGuardedRouter(t)

	rec := doGet(r, "/guarded", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireUserBadToken(t *testing.T) {
	r, _, _ := newGuardedRouter(t)

	rec := doGet(r, "/guarded", "garbage")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireUserWrongPurpose(t *testing.T) {
	r, repo, tokens := newGuardedRouter(t)

	u := &entity.User{Name: "Jane", Email: "jane@example.com", Password: "x"}
	require.NoError(t, repo.Create(context.Background(), u))

	// an activation token is not a session
	token, _, err := tokens.Issue(u.ID, helpers.PurposeActivate)
	require.NoError(t, err)

	rec := doGet(r, "/guarded", token)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireUserMissingUser(t *testing.T) {
	r, _, tokens := newGuardedRouter(t)

	token, _, err := tokens.Issue("gone-user", helpers.PurposeSession)
	require.NoError(t, err)

	rec := doGet(r, "/guarded", token)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// the stale cookie gets cleared on rejection
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == helpers.UserTokenCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared)
}

func TestRequireUserAccepts(t *testing.T) {
	r, repo, tokens := newGuardedRouter(t)

	u := &entity.User{Name: "Jane", Email: "jane@example.com", Password: "x"}
	require.NoError(t, repo.Create(context.Background(), u))

	token, _, err := tokens.Issue(u.ID, helpers.PurposeSession)
	require.NoError(t, err)

	rec := doGet(r, "/guarded", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, u.ID, rec.Body.String())
}

func TestGuestOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/login", GuestOnly(nil), func(c *gin.Context) {
		c.String(http.StatusOK, "login page")
	})

	// anonymous visitor passes through
	rec := doGet(r, "/login", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// any userToken cookie bounces home, verified or not
	rec = doGet(r, "/login", "whatever")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}
