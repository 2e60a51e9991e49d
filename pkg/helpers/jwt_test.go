package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestTokens() *TokenManager {
	return NewTokenManager("testsecret", time.Hour, time.Hour, time.Hour)
}

func TestIssueAndParse(t *testing.T) {
	m := newTestTokens()

	token, exp, err := m.Issue("user-1", PurposeSession)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token, PurposeSession)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, string(PurposeSession), claims.Purpose)
}

func TestParseRejectsWrongPurpose(t *testing.T) {
	m := newTestTokens()

	// an activation token must never open a session, and vice versa
	token, _, err := m.Issue("user-1", PurposeActivate)
	require.NoError(t, err)

	_, err = m.Parse(token, PurposeSession)
	require.ErrorIs(t, err, ErrWrongPurpose)

	_, err = m.Parse(token, PurposeReset)
	require.ErrorIs(t, err, ErrWrongPurpose)

	_, err = m.Parse(token, PurposeActivate)
	require.NoError(t, err)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	m := newTestTokens()
	other := NewTokenManager("othersecret", time.Hour, time.Hour, time.Hour)

	token, _, err := other.Issue("user-1", PurposeSession)
	require.NoError(t, err)

	_, err = m.Parse(token, PurposeSession)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewTokenManager("testsecret", -time.Minute, -time.Minute, -time.Minute)

	token, _, err := m.Issue("user-1", PurposeReset)
	require.NoError(t, err)

	_, err = m.Parse(token, PurposeReset)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := newTestTokens()
	_, err := m.Parse("not-a-token", PurposeSession)
	require.Error(t, err)
}
