package user

import (
	"context"
	"errors"
	"testing"

	"github.com/gestaozabele/lapor/internal/kv"
)

func TestCreateAndGetByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	created, err := repo.Create(ctx, CreateInput{
		Email:        "siti@example.com",
		PasswordHash: "hash:salt",
		Name:         "Siti",
		Phone:        "+60123456789",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.UserID == "" || created.IsAdmin {
		t.Fatalf("unexpected created user: %+v", created)
	}

	byEmail, err := repo.GetByEmail(ctx, "siti@example.com")
	if err != nil {
		t.Fatalf("getbyemail failed: %v", err)
	}
	if byEmail.UserID != created.UserID {
		t.Fatalf("email index resolved wrong user: %s", byEmail.UserID)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPublicProjectionOmitsHash(t *testing.T) {
	u := &User{UserID: "u1", Email: "a@b.co", PasswordHash: "secret", Name: "A"}

	public := u.Public()
	if _, ok := public["password_hash"]; ok {
		t.Fatalf("public projection must not expose password hash")
	}
	if public["email"] != "a@b.co" {
		t.Fatalf("unexpected projection: %+v", public)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	created, err := repo.Create(ctx, CreateInput{Email: "a@b.co", PasswordHash: "h:s", Name: "Old"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "New"
	isAdmin := true
	updated, err := repo.Update(ctx, created.UserID, UpdateInput{Name: &name, IsAdmin: &isAdmin})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "New" || !updated.IsAdmin {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if updated.Email != "a@b.co" || updated.PasswordHash != "h:s" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestDeleteRemovesEmailIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	created, err := repo.Create(ctx, CreateInput{Email: "a@b.co", PasswordHash: "h:s", Name: "A"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := repo.Delete(ctx, created.UserID)
	if err != nil || !deleted {
		t.Fatalf("delete failed: ok=%v err=%v", deleted, err)
	}

	if _, err := repo.GetByEmail(ctx, "a@b.co"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected email index gone, got %v", err)
	}

	if ok, _ := repo.Delete(ctx, created.UserID); ok {
		t.Fatalf("expected second delete to return false")
	}
}

func TestGetAll(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore())

	for _, email := range []string{"a@b.co", "b@b.co", "c@b.co"} {
		if _, err := repo.Create(ctx, CreateInput{Email: email, PasswordHash: "h:s", Name: email}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	users, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("getall failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}
