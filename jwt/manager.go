package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyBytes is the smallest signing key accepted by [NewManager]. A shorter
// key is a configuration error, not a runtime condition.
const MinKeyBytes = 32

var (
	// ErrTokenInvalid covers bad signature, malformed structure, and any other
	// verification failure except expiry.
	ErrTokenInvalid = errors.New("invalid access token")
	// ErrTokenExpired indicates a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("access token expired")
)

// Config holds the token engine parameters. The signing key is process-wide,
// loaded once, and immutable for the life of the Manager.
type Config struct {
	SigningKey []byte
	AccessTTL  time.Duration
	Issuer     string
	Leeway     time.Duration
}

// Manager signs and verifies short-lived access tokens with a single HS256
// symmetric key. It is stateless and safe for concurrent use.
type Manager struct {
	config Config
}

// AccessClaims is the signed claim set embedded in every access token. The
// privilege set is a snapshot taken at issuance and is never re-checked
// against current role state before expiry.
type AccessClaims struct {
	Role       string   `json:"role"`
	Privileges []string `json:"prv,omitempty"`
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.SigningKey) < MinKeyBytes {
		return nil, fmt.Errorf("signing key must be at least %d bytes", MinKeyBytes)
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: Config{
		SigningKey: append([]byte(nil), cfg.SigningKey...),
		AccessTTL:  cfg.AccessTTL,
		Issuer:     cfg.Issuer,
		Leeway:     cfg.Leeway,
	}}, nil
}

// CreateAccess issues a signed access token for the given subject with the
// role code and privilege snapshot embedded verbatim.
func (m *Manager) CreateAccess(subject, role string, privileges []string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Role:       role,
		Privileges: privileges,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
			Issuer:    m.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.SigningKey)
}

// ParseAccess verifies signature and expiry and returns the claims.
// Expired-but-valid tokens fail with [ErrTokenExpired]; every other failure
// maps to [ErrTokenInvalid]. The original cause is retained on the wrapped
// error for observability.
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Subject extracts the subject claim from an already-validated token. By
// contract callers run ParseAccess first; this implementation re-verifies
// anyway so a skipped validation cannot turn into a forged-subject footgun.
func (m *Manager) Subject(tokenStr string) (string, error) {
	claims, err := m.ParseAccess(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
