package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"socialite/config"
	"socialite/internal/domain/entity"
	"socialite/internal/infrastructure/memory"
	"socialite/pkg/helpers"
)

// newTestService wires the service against the in-memory repository with no
// external infrastructure; Redis, GCS, ES and the queue are nil and the
// service degrades around them.
func newTestService(t *testing.T) (*Service, *memory.UserRepository) {
	t.Helper()
	repo := memory.NewUserRepository()
	cfg := &config.Config{
		AppName:      "socialite",
		AppURL:       "http://localhost:8080",
		ESUsersIndex: "users",
	}
	tokens := helpers.NewTokenManager("testsecret", time.Hour, time.Hour, time.Hour)
	return NewService(repo, tokens, nil, nil, nil, nil, nil, cfg), repo
}

func register(t *testing.T, svc *Service, name, email, password string) *entity.User {
	t.Helper()
	u, err := svc.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	return u
}

func TestRegisterCreatesInactiveUser(t *testing.T) {
	svc, _ := newTestService(t)

	u := register(t, svc, "Jane", "jane@example.com", "secret123")
	require.NotEmpty(t, u.ID)
	require.False(t, u.IsActivated)
	require.NotEqual(t, "secret123", u.Password) // stored as bcrypt hash

	_, err := svc.Register(context.Background(), "Other Jane", "jane@example.com", "different")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestActivate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "Jane", "jane@example.com", "secret123")
	token, _, err := svc.Tokens.Issue(u.ID, helpers.PurposeActivate)
	require.NoError(t, err)

	already, err := svc.Activate(ctx, token)
	require.NoError(t, err)
	require.False(t, already)

	// exercising the same link again is a no-op
	already, err = svc.Activate(ctx, token)
	require.NoError(t, err)
	require.True(t, already)

	_, err = svc.Activate(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	// a session token must not activate anything
	sess, _, err := svc.Tokens.Issue(u.ID, helpers.PurposeSession)
	require.NoError(t, err)
	_, err = svc.Activate(ctx, sess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func activate(t *testing.T, svc *Service, userID string) {
	t.Helper()
	token, _, err := svc.Tokens.Issue(userID, helpers.PurposeActivate)
	require.NoError(t, err)
	_, err = svc.Activate(context.Background(), token)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "Jane", "jane@example.com", "secret123")

	_, _, _, err := svc.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrUserNotFound)

	// account must be activated before it can sign in
	_, _, _, err = svc.Login(ctx, "jane@example.com", "secret123")
	require.ErrorIs(t, err, ErrNotActivated)

	activate(t, svc, u.ID)

	_, _, _, err = svc.Login(ctx, "jane@example.com", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidPassword)

	logged, token, exp, err := svc.Login(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, u.ID, logged.ID)
	require.True(t, exp.After(time.Now()))

	claims, err := svc.Tokens.Parse(token, helpers.PurposeSession)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "Jane", "jane@example.com", "secret123")
	activate(t, svc, u.ID)

	err := svc.ChangePassword(ctx, u.ID, "wrongold", "newsecret")
	require.ErrorIs(t, err, ErrInvalidPassword)

	err = svc.ChangePassword(ctx, "missing-id", "secret123", "newsecret")
	require.ErrorIs(t, err, ErrUserNotFound)

	err = svc.ChangePassword(ctx, u.ID, "secret123", "newsecret")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "jane@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidPassword)
	_, _, _, err = svc.Login(ctx, "jane@example.com", "newsecret")
	require.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.ForgotPassword(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	u := register(t, svc, "Jane", "jane@example.com", "secret123")
	activate(t, svc, u.ID)

	require.NoError(t, svc.ForgotPassword(ctx, "jane@example.com"))

	err = svc.ResetPassword(ctx, "garbage", "resetpass1")
	require.ErrorIs(t, err, ErrInvalidToken)

	// session tokens are not reset tokens
	sess, _, err := svc.Tokens.Issue(u.ID, helpers.PurposeSession)
	require.NoError(t, err)
	err = svc.ResetPassword(ctx, sess, "resetpass1")
	require.ErrorIs(t, err, ErrInvalidToken)

	reset, _, err := svc.Tokens.Issue(u.ID, helpers.PurposeReset)
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(ctx, reset, "resetpass1"))

	_, _, _, err = svc.Login(ctx, "jane@example.com", "resetpass1")
	require.NoError(t, err)
}

func TestFollowGraph(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := register(t, svc, "A", "a@example.com", "secret123")
	b := register(t, svc, "B", "b@example.com", "secret123")

	require.ErrorIs(t, svc.Follow(ctx, a.ID, a.ID), ErrSelfFollow)
	require.ErrorIs(t, svc.Follow(ctx, a.ID, "missing-id"), ErrUserNotFound)

	require.NoError(t, svc.Follow(ctx, a.ID, b.ID))
	// following again is idempotent
	require.NoError(t, svc.Follow(ctx, a.ID, b.ID))

	// one edge, both directions visible
	_, following, _, err := svc.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, []string{b.ID}, following)

	_, _, followers, err := svc.GetProfile(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, []string{a.ID}, followers)

	require.NoError(t, svc.Unfollow(ctx, a.ID, b.ID))
	// removing a missing edge is a no-op
	require.NoError(t, svc.Unfollow(ctx, a.ID, b.ID))

	_, following, _, err = svc.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, following)
	_, _, followers, err = svc.GetProfile(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, followers)
}

func TestFindUsersExcludesSelf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := register(t, svc, "A", "a@example.com", "secret123")
	b := register(t, svc, "B", "b@example.com", "secret123")

	users, err := svc.FindUsers(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, b.ID, users[0].ID)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "Jane", "jane@example.com", "secret123")

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{
		Name:     "Jane D",
		Username: "janed",
		Location: "Oslo",
		Cell:     "555-0100",
		Age:      30,
		Gender:   "female",
		Skill:    "go",
	})
	require.NoError(t, err)
	require.Equal(t, "Jane D", updated.Name)
	require.Equal(t, "janed", updated.Username)
	require.Equal(t, 30, updated.Age)
	require.Equal(t, "go", updated.Skill)

	// zero age and empty skill keep the previous values
	updated, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{
		Name:     "Jane D",
		Username: "janed",
		Location: "Bergen",
		Cell:     "555-0100",
		Gender:   "female",
	})
	require.NoError(t, err)
	require.Equal(t, "Bergen", updated.Location)
	require.Equal(t, 30, updated.Age)
	require.Equal(t, "go", updated.Skill)

	_, err = svc.UpdateProfile(ctx, "missing-id", UpdateProfileInput{})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUploadRequiresStorage(t *testing.T) {
	svc, _ := newTestService(t)
	u := register(t, svc, "Jane", "jane@example.com", "secret123")

	_, err := svc.UploadPhoto(context.Background(), u.ID, nil, "me.png", "image/png")
	require.Error(t, err)
}
