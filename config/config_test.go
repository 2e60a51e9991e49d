package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "socialite", cfg.AppName)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "http://localhost:8080", cfg.AppURL)
	require.Equal(t, "db/migrations", cfg.MigrationsDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_URL", "https://social.example.com")
	t.Setenv("TOKEN_SESSION_TTL", "24h")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200")

	cfg := Load()
	require.Equal(t, "https://social.example.com", cfg.AppURL)
	require.Equal(t, "24h0m0s", cfg.SessionTTL.String())
	require.False(t, cfg.MailSendEnabled)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins())
	require.Equal(t, []string{"http://es1:9200"}, cfg.ESAddrs())
}

func TestLinksAndDSN(t *testing.T) {
	cfg := Load()
	require.Equal(t, cfg.AppURL+"/activate/tok", cfg.ActivateLink("tok"))
	require.Equal(t, cfg.AppURL+"/resetpass/tok", cfg.ResetLink("tok"))
	require.Contains(t, cfg.PostgresDSN(), "postgres://")
	require.Contains(t, cfg.PostgresDSN(), cfg.DBName)
}
