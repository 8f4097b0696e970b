package labauth

import (
	"errors"
	"time"

	"github.com/labforge/labauth/jwt"
)

// Config is the full engine configuration. Zero values are filled from
// defaultConfig by the Builder; Validate runs once at Build time and a
// bad config is fatal, never a degraded engine.
type Config struct {
	JWT          JWTConfig
	LoginLimiter LimiterConfig
	ResetLimiter LimiterConfig
	Password     PasswordConfig
	Audit        AuditConfig
	Metrics      MetricsConfig

	// DisplayTimeZone is the IANA zone used when formatting ban horizons
	// for operator-facing APIs. Storage and comparison stay in UTC.
	DisplayTimeZone string
}

type JWTConfig struct {
	// SigningKey is the process-wide HS256 secret, 32 bytes minimum.
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Leeway     time.Duration
}

// LimiterConfig parameterizes one penalty box.
type LimiterConfig struct {
	MaxAttempts  int
	RefillWindow time.Duration
	BanDuration  time.Duration
}

type PasswordConfig struct {
	// BcryptCost of 0 selects the library default.
	BcryptCost       int
	MinLength        int
	RequireMixedCase bool
}

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "labauth",
		},
		LoginLimiter: LimiterConfig{
			MaxAttempts:  5,
			RefillWindow: time.Minute,
			BanDuration:  2 * time.Hour,
		},
		ResetLimiter: LimiterConfig{
			MaxAttempts:  3,
			RefillWindow: time.Hour,
			BanDuration:  2 * time.Hour,
		},
		Password: PasswordConfig{
			MinLength:        10,
			RequireMixedCase: true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		DisplayTimeZone: "UTC",
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.SigningKey = cloneBytes(cfg.JWT.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.SigningKey) < jwt.MinKeyBytes {
		return errors.New("JWT SigningKey must be at least 32 bytes")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT RefreshTTL must be > 0")
	}
	if c.JWT.Leeway < 0 {
		return errors.New("JWT Leeway must be >= 0")
	}

	// Limiters
	for _, limiter := range []struct {
		name string
		cfg  LimiterConfig
	}{
		{"LoginLimiter", c.LoginLimiter},
		{"ResetLimiter", c.ResetLimiter},
	} {
		if limiter.cfg.MaxAttempts < 1 {
			return errors.New(limiter.name + " MaxAttempts must be >= 1")
		}
		if limiter.cfg.RefillWindow <= 0 {
			return errors.New(limiter.name + " RefillWindow must be > 0")
		}
		if limiter.cfg.BanDuration <= 0 {
			return errors.New(limiter.name + " BanDuration must be > 0")
		}
	}

	// Password
	if c.Password.MinLength < 8 {
		return errors.New("Password MinLength must be >= 8")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("Audit BufferSize must be >= 1 when enabled")
	}

	if c.DisplayTimeZone == "" {
		return errors.New("DisplayTimeZone must not be empty")
	}

	return nil
}
