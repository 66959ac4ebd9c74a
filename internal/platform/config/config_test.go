package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com,")
	t.Setenv("UPLOAD_BACKEND", "DRIVE")
	t.Setenv("DEFAULT_TAX_RATE", "8.25")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, UploadBackendDrive, cfg.UploadBackend)
	assert.Equal(t, "8.25", cfg.DefaultTaxRate.String())
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.AuthEnabled)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	viper.Reset()
	t.Setenv("UPLOAD_BACKEND", "ftp")
	t.Setenv("DEFAULT_TAX_RATE", "-3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, UploadBackendLocal, cfg.UploadBackend)
	assert.True(t, cfg.DefaultTaxRate.IsZero())
}
