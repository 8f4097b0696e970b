package labauth

import (
	"context"
	"io"
	"time"

	"github.com/labforge/labauth/internal/audit"
	"github.com/labforge/labauth/privilege"
	"github.com/labforge/labauth/refresh"
)

// Principal is one account row as seen by the engine. The embedding
// application owns the schema; the engine only reads these fields and writes
// PasswordHash back through [CredentialStore.Save].
type Principal struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	TenantID     string
	Active       bool
	Deleted      bool
	DeletedAt    *time.Time
}

// available reports whether the account may authenticate at all.
func (p *Principal) available() bool {
	return p != nil && p.Active && !p.Deleted
}

// CredentialStore is the application-supplied account lookup. Find methods
// return (nil, nil) for absent rows; errors are reserved for infrastructure
// failures and surface to callers as [ErrStoreUnavailable].
type CredentialStore interface {
	FindByID(ctx context.Context, id string) (*Principal, error)
	FindByEmail(ctx context.Context, email string) (*Principal, error)
	Save(ctx context.Context, principal *Principal) error
}

// PrivilegeSource resolves a role name to its privilege strings. The built-in
// registry satisfies it; applications with dynamic role tables supply their
// own.
type PrivilegeSource = privilege.Source

// RefreshStore persists refresh tokens. See [refresh.Store] for the contract.
type RefreshStore = refresh.Store

// LoginResult is the token pair issued by a successful [Engine.Login] or
// [Engine.Refresh].
type LoginResult struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is the identity snapshot produced by [Engine.Validate]. It
// reflects the principal's role and privileges as of token issuance.
type AuthResult struct {
	PrincipalID string
	Role        string
	Privileges  []string
}

// PasswordUpdateOption selects the flow [Engine.UpdatePassword] runs.
type PasswordUpdateOption string

const (
	// PasswordChange requires the current password and rejects reuse.
	PasswordChange PasswordUpdateOption = "change"
	// PasswordReset overwrites the password without the current one. The
	// caller must have authenticated the principal through an out-of-band
	// channel first.
	PasswordReset PasswordUpdateOption = "reset"
)

// Audit surface, aliased so application sinks implement one interface
// whether they import the root package or not.
type (
	AuditEvent = audit.Event
	AuditSink  = audit.Sink

	NoOpSink       = audit.NoOpSink
	ChannelSink    = audit.ChannelSink
	JSONWriterSink = audit.JSONWriterSink
)

// NewChannelSink returns a sink buffering events in a channel of the given
// capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing one JSON event per line to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
