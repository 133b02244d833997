package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/avsfam/firstgoal/internal/domain/user"
	"github.com/avsfam/firstgoal/internal/infrastructure/repository/memory"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
)

func TestProfileService_Resolve(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(idgen.NewRandomGenerator())
	service := NewProfileService(store.Profiles())

	t.Run("provisions on first contact", func(t *testing.T) {
		got, err := service.Resolve(ctx, user.Principal{UserID: "u-sarah", Email: "sarah@example.com"})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got.Username != "sarah" {
			t.Fatalf("unexpected username: got=%s want=sarah", got.Username)
		}
	})

	t.Run("returns existing profile on later calls", func(t *testing.T) {
		again, err := service.Resolve(ctx, user.Principal{UserID: "u-sarah", Email: "sarah@other.example"})
		if err != nil {
			t.Fatalf("resolve again: %v", err)
		}
		if again.Username != "sarah" {
			t.Fatalf("profile must be stable across resolves, got %s", again.Username)
		}
	})

	t.Run("uniquifies colliding usernames", func(t *testing.T) {
		other, err := service.Resolve(ctx, user.Principal{UserID: "u-9921", Email: "sarah@elsewhere.example"})
		if err != nil {
			t.Fatalf("resolve collision: %v", err)
		}
		if other.Username == "sarah" {
			t.Fatalf("second sarah must get a distinct username")
		}
	})

	t.Run("rejects empty principal", func(t *testing.T) {
		_, err := service.Resolve(ctx, user.Principal{})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestUsernameFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"sarah@example.com", "sarah"},
		{"mike.jones@club.example", "mike.jones"},
		{"  padded@example.com ", "padded"},
		{"no-at-sign", "no-at-sign"},
		{"@example.com", "fan"},
		{"", "fan"},
	}
	for _, tc := range cases {
		if got := UsernameFromEmail(tc.email); got != tc.want {
			t.Fatalf("UsernameFromEmail(%q): got=%s want=%s", tc.email, got, tc.want)
		}
	}
}
