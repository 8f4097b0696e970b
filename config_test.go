package labauth

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidatesWithKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.JWT.SigningKey = []byte("0123456789abcdef0123456789abcdef")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with key must validate, got %v", err)
	}

	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Fatalf("access ttl = %v, want 15m", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("refresh ttl = %v, want 168h", cfg.JWT.RefreshTTL)
	}
	if cfg.LoginLimiter.MaxAttempts != 5 || cfg.LoginLimiter.RefillWindow != time.Minute {
		t.Fatalf("login limiter defaults = %+v", cfg.LoginLimiter)
	}
	if cfg.ResetLimiter.MaxAttempts != 3 || cfg.ResetLimiter.RefillWindow != time.Hour {
		t.Fatalf("reset limiter defaults = %+v", cfg.ResetLimiter)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	base := func() Config {
		cfg := defaultConfig()
		cfg.JWT.SigningKey = []byte("0123456789abcdef0123456789abcdef")
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"short key", func(c *Config) { c.JWT.SigningKey = []byte("too-short") }, "SigningKey"},
		{"zero access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }, "AccessTTL"},
		{"zero refresh ttl", func(c *Config) { c.JWT.RefreshTTL = 0 }, "RefreshTTL"},
		{"negative leeway", func(c *Config) { c.JWT.Leeway = -time.Second }, "Leeway"},
		{"zero login attempts", func(c *Config) { c.LoginLimiter.MaxAttempts = 0 }, "LoginLimiter"},
		{"zero reset window", func(c *Config) { c.ResetLimiter.RefillWindow = 0 }, "ResetLimiter"},
		{"zero login ban", func(c *Config) { c.LoginLimiter.BanDuration = 0 }, "LoginLimiter"},
		{"weak min length", func(c *Config) { c.Password.MinLength = 6 }, "MinLength"},
		{"audit zero buffer", func(c *Config) { c.Audit.BufferSize = 0 }, "BufferSize"},
		{"empty time zone", func(c *Config) { c.DisplayTimeZone = "" }, "DisplayTimeZone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestCloneConfigCopiesSigningKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.JWT.SigningKey = []byte("0123456789abcdef0123456789abcdef")

	clone := cloneConfig(cfg)
	clone.JWT.SigningKey[0] = 'X'

	if cfg.JWT.SigningKey[0] == 'X' {
		t.Fatal("clone must not alias the signing key")
	}
}
