package labauth

import (
	"errors"
	"time"

	"github.com/labforge/labauth/internal/audit"
	"github.com/labforge/labauth/jwt"
	"github.com/labforge/labauth/password"
	"github.com/labforge/labauth/privilege"
	"github.com/labforge/labauth/refresh"
)

// Builder assembles an Engine. Construction is all-or-nothing: any invalid
// input fails Build, there is no partially configured engine.
type Builder struct {
	config Config

	roles           map[string][]string
	privilegeSource PrivilegeSource

	credentials  CredentialStore
	refreshStore RefreshStore
	auditSink    AuditSink

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningKey sets the process-wide HS256 secret without replacing the
// rest of the config.
func (b *Builder) WithSigningKey(key []byte) *Builder {
	b.config.JWT.SigningKey = cloneBytes(key)
	return b
}

// WithRoles registers a static role-to-privileges table. Mutually exclusive
// with WithPrivilegeSource.
func (b *Builder) WithRoles(roles map[string][]string) *Builder {
	b.roles = roles
	return b
}

// WithPrivilegeSource supplies a dynamic privilege resolver instead of a
// static role table.
func (b *Builder) WithPrivilegeSource(source PrivilegeSource) *Builder {
	b.privilegeSource = source
	return b
}

func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.credentials = store
	return b
}

func (b *Builder) WithRefreshStore(store RefreshStore) *Builder {
	b.refreshStore = store
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the Engine. The builder is
// single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.credentials == nil {
		return nil, errors.New("credential store required")
	}
	if b.refreshStore == nil {
		return nil, errors.New("refresh store required")
	}
	if len(b.roles) == 0 && b.privilegeSource == nil {
		return nil, errors.New("roles or privilege source required")
	}
	if len(b.roles) > 0 && b.privilegeSource != nil {
		return nil, errors.New("roles and privilege source are mutually exclusive")
	}

	// -------- PRIVILEGE RESOLUTION --------
	source := b.privilegeSource
	if source == nil {
		registry := privilege.NewRegistry()
		for roleName, privs := range b.roles {
			if err := registry.RegisterRole(roleName, privs); err != nil {
				return nil, err
			}
		}
		registry.Freeze()
		source = registry
	}

	resolver, err := privilege.NewResolver(source)
	if err != nil {
		return nil, err
	}

	// -------- TOKENS --------
	jwtManager, err := jwt.NewManager(jwt.Config{
		SigningKey: cfg.JWT.SigningKey,
		AccessTTL:  cfg.JWT.AccessTTL,
		Issuer:     cfg.JWT.Issuer,
		Leeway:     cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	refreshManager, err := refresh.NewManager(b.refreshStore, cfg.JWT.RefreshTTL)
	if err != nil {
		return nil, err
	}

	// -------- PASSWORDS --------
	hasher, err := password.NewHasher(cfg.Password.BcryptCost)
	if err != nil {
		return nil, err
	}
	policy := password.Policy{
		MinLength:        cfg.Password.MinLength,
		RequireMixedCase: cfg.Password.RequireMixedCase,
	}

	displayLoc, err := time.LoadLocation(cfg.DisplayTimeZone)
	if err != nil {
		return nil, errors.New("invalid DisplayTimeZone: " + cfg.DisplayTimeZone)
	}

	engine := &Engine{
		config:       cfg,
		credentials:  b.credentials,
		resolver:     resolver,
		jwtManager:   jwtManager,
		refresh:      refreshManager,
		passwordHash: hasher,
		policy:       policy,
		loginLimiter: newLoginLimiter(cfg.LoginLimiter),
		resetLimiter: newResetLimiter(cfg.ResetLimiter),
		displayLoc:   displayLoc,
		metrics:      NewMetrics(cfg.Metrics),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	return engine, nil
}
