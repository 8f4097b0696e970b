package labauth

import (
	"context"
	"strings"
	"testing"

	"github.com/labforge/labauth/internal/stores"
	"github.com/labforge/labauth/privilege"
)

func TestBuildRequiresSigningKey(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.SigningKey = nil

	_, err := New().
		WithConfig(cfg).
		WithCredentialStore(newMockCredentialStore()).
		WithRefreshStore(stores.NewMemoryRefreshStore()).
		WithRoles(testRoles()).
		Build()
	if err == nil || !strings.Contains(err.Error(), "SigningKey") {
		t.Fatalf("err = %v, want signing key rejection", err)
	}
}

func TestBuildRequiresStores(t *testing.T) {
	if _, err := New().WithConfig(testConfig()).WithRoles(testRoles()).Build(); err == nil {
		t.Fatal("expected error without credential store")
	}

	_, err := New().
		WithConfig(testConfig()).
		WithCredentialStore(newMockCredentialStore()).
		WithRoles(testRoles()).
		Build()
	if err == nil {
		t.Fatal("expected error without refresh store")
	}
}

func TestBuildRequiresRolesOrSource(t *testing.T) {
	_, err := New().
		WithConfig(testConfig()).
		WithCredentialStore(newMockCredentialStore()).
		WithRefreshStore(stores.NewMemoryRefreshStore()).
		Build()
	if err == nil {
		t.Fatal("expected error without roles or privilege source")
	}
}

func TestBuildRejectsDuplicateRoleSources(t *testing.T) {
	source := rolesSource{"scientist": {"experiment.read"}}
	_, err := New().
		WithConfig(testConfig()).
		WithCredentialStore(newMockCredentialStore()).
		WithRefreshStore(stores.NewMemoryRefreshStore()).
		WithRoles(testRoles()).
		WithPrivilegeSource(source).
		Build()
	if err == nil {
		t.Fatal("expected error with both roles and privilege source")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().
		WithConfig(testConfig()).
		WithCredentialStore(newMockCredentialStore()).
		WithRefreshStore(stores.NewMemoryRefreshStore()).
		WithRoles(testRoles())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestBuildRejectsInvalidTimeZone(t *testing.T) {
	cfg := testConfig()
	cfg.DisplayTimeZone = "Mars/Olympus_Mons"

	_, err := New().
		WithConfig(cfg).
		WithCredentialStore(newMockCredentialStore()).
		WithRefreshStore(stores.NewMemoryRefreshStore()).
		WithRoles(testRoles()).
		Build()
	if err == nil || !strings.Contains(err.Error(), "DisplayTimeZone") {
		t.Fatalf("err = %v, want time zone rejection", err)
	}
}

func TestBuildWithCustomPrivilegeSource(t *testing.T) {
	source := rolesSource{"scientist": {"experiment.read"}}
	engine, err := New().
		WithConfig(testConfig()).
		WithCredentialStore(newMockCredentialStore()).
		WithRefreshStore(stores.NewMemoryRefreshStore()).
		WithPrivilegeSource(source).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()
}

type rolesSource map[string][]string

func (r rolesSource) PrivilegesForRole(_ context.Context, role string) ([]string, error) {
	privs, ok := r[role]
	if !ok {
		return nil, privilege.ErrUnknownRole
	}
	return privs, nil
}
