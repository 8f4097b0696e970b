package labauth

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/labforge/labauth/internal/stores"
	"github.com/labforge/labauth/password"
)

type mockCredentialStore struct {
	mu      sync.Mutex
	byID    map[string]*Principal
	byEmail map[string]string
	findErr error
	saveErr error
	saves   int
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{
		byID:    make(map[string]*Principal),
		byEmail: make(map[string]string),
	}
}

func (m *mockCredentialStore) add(p *Principal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	m.byEmail[p.Email] = p.ID
}

func (m *mockCredentialStore) FindByID(_ context.Context, id string) (*Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockCredentialStore) FindByEmail(ctx context.Context, email string) (*Principal, error) {
	m.mu.Lock()
	id, ok := m.byEmail[email]
	m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if !ok {
		return nil, nil
	}
	return m.FindByID(ctx, id)
}

func (m *mockCredentialStore) Save(_ context.Context, p *Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *p
	m.byID[p.ID] = &cp
	m.byEmail[p.Email] = p.ID
	m.saves++
	return nil
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.SigningKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.BcryptCost = 4
	cfg.Audit.Enabled = false
	return cfg
}

func testRoles() map[string][]string {
	return map[string][]string{
		"scientist": {"experiment.read", "experiment.write"},
		"auditor":   {"experiment.read"},
	}
}

func newTestHasher(t *testing.T) *password.Hasher {
	t.Helper()

	hasher, err := password.NewHasher(4)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return hasher
}

func seedPrincipal(t *testing.T, cs *mockCredentialStore, id, email, plaintext, role string) {
	t.Helper()

	hash, err := newTestHasher(t).Hash(plaintext)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	cs.add(&Principal{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		TenantID:     "lab-west",
		Active:       true,
	})
}

func newTestEngine(t *testing.T, cfg Config, cs *mockCredentialStore) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithCredentialStore(cs).
		WithRefreshStore(stores.NewMemoryRefreshStore()).
		WithRoles(testRoles()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
