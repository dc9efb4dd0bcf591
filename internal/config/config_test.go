package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "11, 22,x,33")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MAX_FILE_SIZE_MB", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("COMING_SOON_FEATURES", "sign, crop")

	cfg := Load()

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, []int64{11, 22, 33}, cfg.Bot.AdminIDs)
	assert.True(t, cfg.IsAdmin(22))
	assert.False(t, cfg.IsAdmin(44))
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxFileSize())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"sign", "crop"}, cfg.Features.ComingSoon)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults with token", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Bot.Token = "" }, wantErr: true},
		{name: "unknown mode", mutate: func(c *Config) { c.Bot.Mode = "push" }, wantErr: true},
		{name: "webhook without url", mutate: func(c *Config) { c.Bot.Mode = ModeWebhook }, wantErr: true},
		{name: "webhook with url", mutate: func(c *Config) {
			c.Bot.Mode = ModeWebhook
			c.Bot.WebhookURL = "https://bot.example.com/webhook"
		}},
		{name: "zero file size", mutate: func(c *Config) { c.Files.MaxFileSizeMB = 0 }, wantErr: true},
		{name: "merge limit below two", mutate: func(c *Config) { c.Files.MaxPDFsToMerge = 1 }, wantErr: true},
		{name: "unsupported language", mutate: func(c *Config) { c.App.DefaultLanguage = "de" }, wantErr: true},
		{name: "admin hash without secret", mutate: func(c *Config) { c.Admin.PasswordHash = "$2a$10$x" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "123:abc")
			cfg := Load()
			cfg.Bot.Mode = ModePolling
			cfg.Bot.WebhookURL = ""
			cfg.Admin = AdminConfig{}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
