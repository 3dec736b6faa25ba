package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/repositories"
)

func TestLegacyTokensRoundTrip(t *testing.T) {
	codec := LegacyTokens{}

	token, err := codec.Encode("alice")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if token != "token_secret_pentru_alice" {
		t.Fatalf("unexpected token %q", token)
	}

	username, err := codec.Decode(token)
	if err != nil || username != "alice" {
		t.Fatalf("decode: %q, %v", username, err)
	}

	for _, bad := range []string{"alice", "token_secret_pentru_", "Bearer xyz"} {
		if _, err := codec.Decode(bad); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("expected malformed token for %q, got %v", bad, err)
		}
	}
}

func TestJWTTokensRoundTripAndExpiry(t *testing.T) {
	codec, err := NewJWTTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new jwt tokens: %v", err)
	}
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return now }

	token, err := codec.Encode("bob")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	username, err := codec.Decode(token)
	if err != nil || username != "bob" {
		t.Fatalf("decode: %q, %v", username, err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := codec.Decode(token); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	other, err := NewJWTTokens("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("new jwt tokens: %v", err)
	}
	other.now = func() time.Time { return time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC) }
	if _, err := other.Decode(token); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected foreign signature to be rejected, got %v", err)
	}

	if _, err := NewJWTTokens(" ", time.Hour); err == nil {
		t.Fatal("expected empty secret to be rejected")
	}
}

func TestSessionsValidate(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewMemoryStore().Users()
	alice, err := users.Create(ctx, models.User{Username: "alice", Password: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sessions := NewSessions(LegacyTokens{}, users)

	token, err := sessions.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	user, err := sessions.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if user.ID != alice.ID {
		t.Fatalf("expected user %d got %d", alice.ID, user.ID)
	}

	for _, token := range []string{"", "   ", "alice", "token_secret_pentru_ghost"} {
		if _, err := sessions.Validate(ctx, token); !errors.Is(err, apperr.ErrUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", token, err)
		}
	}
}

func TestSessionsValidateStorageFailure(t *testing.T) {
	sessions := NewSessions(LegacyTokens{}, failingUserStore{err: errors.New("db down")})
	if _, err := sessions.Validate(context.Background(), LegacyTokenPrefix+"alice"); !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestUserContext(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatal("expected no user on empty context")
	}
	ctx := WithUser(context.Background(), models.User{ID: 7, Username: "alice"})
	user, ok := UserFromContext(ctx)
	if !ok || user.ID != 7 {
		t.Fatalf("unexpected user from context: %+v, %v", user, ok)
	}
}
