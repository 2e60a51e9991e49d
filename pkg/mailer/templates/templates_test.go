package templates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderAccountActivation(t *testing.T) {
	data := ActivationData{
		Name:    "Jane",
		Email:   "jane@example.com",
		Link:    "http://localhost:8080/activate/tok123",
		AppName: "socialite",
	}

	subject, text, html, err := Render(AccountActivation, data)
	require.NoError(t, err)
	require.Equal(t, "Activate your socialite account", subject)
	require.Contains(t, text, "jane@example.com")
	require.Contains(t, text, data.Link)
	require.Contains(t, html, data.Link)
	require.Contains(t, html, "Jane")
}

func TestRenderPasswordReset(t *testing.T) {
	data := ResetData{
		Name:    "Jane",
		Email:   "jane@example.com",
		Link:    "http://localhost:8080/resetpass/tok123",
		AppName: "socialite",
	}

	subject, text, html, err := Render(PasswordReset, data)
	require.NoError(t, err)
	require.Equal(t, "Reset your socialite password", subject)
	require.Contains(t, text, data.Link)
	require.Contains(t, html, data.Link)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("does_not_exist", nil)
	require.Error(t, err)
}
