package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Name: "Ann", Email: "ann@x.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	byEmail, err := repo.FindByEmail(ctx, "ann@x.com")
	if err != nil {
		t.Fatalf("find by email failed: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("expected %q, got %q", created.ID, byEmail.ID)
	}

	if _, err := repo.Create(ctx, &domain.User{Email: "ann@x.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_ConcurrentDuplicate(t *testing.T) {
	repo := NewUserRepository()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(context.Background(), &domain.User{Email: "race@x.com"}); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("expected exactly one successful create, got %d", created)
	}
}

func TestUserRepository_UpdateKeepsEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	u, _ := repo.Create(ctx, &domain.User{Email: "ann@x.com", Role: domain.RoleUser})

	u.Email = "other@x.com"
	u.Banned = true
	updated, err := repo.Update(ctx, u)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != "ann@x.com" || !updated.Banned {
		t.Fatalf("unexpected user after update: %+v", updated)
	}

	if _, err := repo.Update(ctx, &domain.User{ID: "missing"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProductRepository_OwnerScopedLookup(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	p, _ := repo.Create(ctx, &domain.Product{OwnerID: "u-a", Name: "Widget"})

	if _, err := repo.FindByIDAndOwner(ctx, p.ID, "u-a"); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := repo.FindByIDAndOwner(ctx, p.ID, "u-b"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for foreign owner, got %v", err)
	}
	if _, err := repo.FindByIDAndOwner(ctx, p.ID, ""); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for empty owner, got %v", err)
	}
}

func TestProductRepository_ListApprovedAndDelete(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older, _ := repo.Create(ctx, &domain.Product{Name: "old", Approved: true, CreatedAt: base})
	newer, _ := repo.Create(ctx, &domain.Product{Name: "new", Approved: true, CreatedAt: base.Add(time.Hour)})
	_, _ = repo.Create(ctx, &domain.Product{Name: "pending"})

	list, err := repo.ListApproved(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("unexpected catalog order: %+v", list)
	}

	if err := repo.Delete(ctx, older.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete(ctx, older.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestProductRepository_UpdateKeepsOwner(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()
	p, _ := repo.Create(ctx, &domain.Product{OwnerID: "u-a", Name: "Widget"})

	p.OwnerID = "u-b"
	p.Approved = true
	updated, err := repo.Update(ctx, p)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.OwnerID != "u-a" || !updated.Approved {
		t.Fatalf("unexpected product after update: %+v", updated)
	}
}

func TestAuditRepository_Insert(t *testing.T) {
	repo := NewAuditRepository()
	_ = repo.Insert(context.Background(), &domain.AuditEvent{Action: domain.AuditUserBanned, ResourceID: "u-1"})

	events := repo.Events()
	if len(events) != 1 || events[0].Action != domain.AuditUserBanned {
		t.Fatalf("unexpected events: %+v", events)
	}
}
