package profile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agri-connect/agri_connect/internal/token"
)

func TestProvisionCreatesDefaultProfile(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	p, err := svc.Provision(ctx, token.Identity{SubjectID: "uid123", PhoneNumber: "+911234567890"})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	if p.UserID != "uid123" {
		t.Fatalf("user id = %q, want uid123", p.UserID)
	}
	if p.Role != RoleFarmer {
		t.Fatalf("role = %q, want %q", p.Role, RoleFarmer)
	}
	if p.Phone != "+911234567890" {
		t.Fatalf("phone = %q, want +911234567890", p.Phone)
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at on creation, got %v / %v", p.CreatedAt, p.UpdatedAt)
	}

	stored, err := repo.Get(ctx, "uid123")
	if err != nil {
		t.Fatalf("profile was not persisted: %v", err)
	}
	if stored != p {
		t.Fatalf("stored profile %+v differs from returned %+v", stored, p)
	}
}

func TestProvisionReturnsExistingVerbatim(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.Provision(ctx, token.Identity{SubjectID: "uid123", PhoneNumber: "+911234567890"})
	if err != nil {
		t.Fatalf("first provision: %v", err)
	}

	// Role changed out-of-band between logins.
	if _, err := repo.UpdateRole(ctx, "uid123", RoleOfficial); err != nil {
		t.Fatalf("update role: %v", err)
	}

	// The second login carries a different phone; the stored profile must
	// not be refreshed.
	second, err := svc.Provision(ctx, token.Identity{SubjectID: "uid123", PhoneNumber: "+919999999999"})
	if err != nil {
		t.Fatalf("second provision: %v", err)
	}

	if second.Role != RoleOfficial {
		t.Fatalf("role = %q, want %q after out-of-band change", second.Role, RoleOfficial)
	}
	if second.Phone != first.Phone {
		t.Fatalf("phone was refreshed on login: %q", second.Phone)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at changed across logins")
	}
}

func TestProvisionDoesNotTouchUpdatedAt(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.Provision(ctx, token.Identity{SubjectID: "uid123", PhoneNumber: "+911234567890"})
	if err != nil {
		t.Fatalf("first provision: %v", err)
	}

	second, err := svc.Provision(ctx, token.Identity{SubjectID: "uid123", PhoneNumber: "+911234567890"})
	if err != nil {
		t.Fatalf("second provision: %v", err)
	}

	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("updated_at was refreshed by a login: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestProvisionConcurrentFirstLogins(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	const callers = 32
	results := make([]UserProfile, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Provision(ctx, token.Identity{SubjectID: "uid-race", PhoneNumber: "+911234567890"})
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].UserID != results[0].UserID || results[i].Role != results[0].Role {
			t.Fatalf("caller %d got divergent profile %+v", i, results[i])
		}
	}

	stored, err := repo.Get(ctx, "uid-race")
	if err != nil {
		t.Fatalf("profile missing after race: %v", err)
	}
	for i := 0; i < callers; i++ {
		if !results[i].CreatedAt.Equal(stored.CreatedAt) {
			t.Fatalf("caller %d returned a profile that was never stored", i)
		}
	}
}

func TestProvisionRequiresSubject(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	if _, err := svc.Provision(context.Background(), token.Identity{PhoneNumber: "+911234567890"}); err == nil {
		t.Fatal("expected error for empty subject id")
	}
}

func TestChangeRoleRefreshesUpdatedAt(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	seed := UserProfile{UserID: "uid123", Phone: "+911234567890", Role: RoleFarmer, CreatedAt: past, UpdatedAt: past}
	if err := repo.CreateIfAbsent(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.ChangeRole(ctx, "uid123", RoleOfficial)
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if updated.Role != RoleOfficial {
		t.Fatalf("role = %q, want %q", updated.Role, RoleOfficial)
	}
	if !updated.UpdatedAt.After(past) {
		t.Fatalf("updated_at %v was not refreshed", updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(past) {
		t.Fatalf("created_at changed on role update")
	}
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	if _, err := svc.ChangeRole(context.Background(), "uid123", "SUPREME_LEADER"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestChangeRoleUnknownUser(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	if _, err := svc.ChangeRole(context.Background(), "ghost", RoleOfficial); err == nil {
		t.Fatal("expected error for missing profile")
	}
}
