package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/moviebuddies/backend/internal/models"
)

func TestMemoryStoreFriendPairs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	alice, err := store.Users().Create(ctx, models.User{Username: "alice", Password: "hash"})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := store.Users().Create(ctx, models.User{Username: "bob", Password: "hash"})
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	friends := store.Friends()
	if err := friends.CreatePair(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("create pair: %v", err)
	}
	if store.FriendRowCount() != 2 {
		t.Fatalf("expected 2 directed rows, got %d", store.FriendRowCount())
	}
	if err := friends.CreatePair(ctx, bob.ID, alice.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := friends.CreatePair(ctx, alice.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	if store.FriendRowCount() != 2 {
		t.Fatalf("failed inserts must not add rows, got %d", store.FriendRowCount())
	}

	carol, err := store.Users().Create(ctx, models.User{Username: "carol", Password: "hash"})
	if err != nil {
		t.Fatalf("create carol: %v", err)
	}
	store.mu.Lock()
	store.friends[friendKey{carol.ID, alice.ID}] = struct{}{}
	store.mu.Unlock()
	if err := friends.CreatePair(ctx, alice.ID, carol.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict when the reverse row exists, got %v", err)
	}
	if _, ok := store.friends[friendKey{alice.ID, carol.ID}]; ok {
		t.Fatal("failed pair insert must not leave a one-directional row")
	}
	if store.FriendRowCount() != 3 {
		t.Fatalf("expected 3 rows after rejected pair, got %d", store.FriendRowCount())
	}

	names, err := friends.ListFriendUsernames(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(names) != 1 || names[0] != "alice" {
		t.Fatalf("unexpected friends: %v", names)
	}
}

func TestMemoryStoreDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()

	if _, err := users.Create(ctx, models.User{Username: "alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.Create(ctx, models.User{Username: "alice"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := users.FindByUsername(ctx, "ALICE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}
}

func TestMemoryStoreMovieOwnership(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	owner, _ := store.Users().Create(ctx, models.User{Username: "owner"})
	other, _ := store.Users().Create(ctx, models.User{Username: "other"})

	movies := store.Movies()
	movie, err := movies.Create(ctx, models.Movie{OwnerID: owner.ID, Title: "Heat", Status: models.StatusToWatch, Rating: models.UnratedSentinel})
	if err != nil {
		t.Fatalf("create movie: %v", err)
	}

	if err := movies.UpdateStatus(ctx, other.ID, movie.ID, models.StatusWatching); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, _ := movies.ListByOwner(ctx, owner.ID)
	if list[0].Status != models.StatusToWatch {
		t.Fatalf("status must be unchanged, got %q", list[0].Status)
	}
}
