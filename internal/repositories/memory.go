package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/moviebuddies/backend/internal/models"
)

type friendKey struct {
	userID   int64
	friendID int64
}

// MemoryStore keeps every table in process memory for tests and local development.
// It enforces the same uniqueness, ownership and pairing rules as the SQL schema.
type MemoryStore struct {
	mu sync.RWMutex

	nextID          int64
	users           map[int64]models.User
	usernames       map[string]int64
	movies          map[int64]models.Movie
	friends         map[friendKey]struct{}
	recommendations map[int64]models.Recommendation

	now func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:           make(map[int64]models.User),
		usernames:       make(map[string]int64),
		movies:          make(map[int64]models.Movie),
		friends:         make(map[friendKey]struct{}),
		recommendations: make(map[int64]models.Recommendation),
		now:             time.Now,
	}
}

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() *MemoryUserRepository { return &MemoryUserRepository{s: s} }

// Movies returns the movie repository view of the store.
func (s *MemoryStore) Movies() *MemoryMovieRepository { return &MemoryMovieRepository{s: s} }

// Friends returns the friendship repository view of the store.
func (s *MemoryStore) Friends() *MemoryFriendRepository { return &MemoryFriendRepository{s: s} }

// Recommendations returns the recommendation repository view of the store.
func (s *MemoryStore) Recommendations() *MemoryRecommendationRepository {
	return &MemoryRecommendationRepository{s: s}
}

// FriendRowCount reports the number of directed friendship rows. Useful for tests.
func (s *MemoryStore) FriendRowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.friends)
}

func (s *MemoryStore) allocateIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// MemoryUserRepository implements UserRepository on a MemoryStore.
type MemoryUserRepository struct{ s *MemoryStore }

// Create stores a new user, returning ErrConflict when the username is taken.
func (r *MemoryUserRepository) Create(_ context.Context, user models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.usernames[user.Username]; exists {
		return models.User{}, ErrConflict
	}
	user.ID = r.s.allocateIDLocked()
	user.CreatedAt = r.s.now().UTC()
	r.s.users[user.ID] = user
	r.s.usernames[user.Username] = user.ID
	return user, nil
}

// FindByUsername looks up a user by exact username.
func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usernames[username]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return r.s.users[id], nil
}

// MemoryMovieRepository implements MovieRepository on a MemoryStore.
type MemoryMovieRepository struct{ s *MemoryStore }

// Create stores a movie for an existing owner.
func (r *MemoryMovieRepository) Create(_ context.Context, movie models.Movie) (models.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[movie.OwnerID]; !ok {
		return models.Movie{}, ErrNotFound
	}
	movie.ID = r.s.allocateIDLocked()
	r.s.movies[movie.ID] = movie
	return movie, nil
}

// ListByOwner returns the owner's movies in insertion order.
func (r *MemoryMovieRepository) ListByOwner(_ context.Context, ownerID int64) ([]models.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var movies []models.Movie
	for _, movie := range r.s.movies {
		if movie.OwnerID == ownerID {
			movies = append(movies, movie)
		}
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].ID < movies[j].ID })
	return movies, nil
}

// UpdateStatus changes the status of a movie owned by ownerID.
func (r *MemoryMovieRepository) UpdateStatus(_ context.Context, ownerID, movieID int64, status models.MovieStatus) error {
	return r.mutateOwned(ownerID, movieID, func(m *models.Movie) { m.Status = status })
}

// UpdateRating changes the rating of a movie owned by ownerID.
func (r *MemoryMovieRepository) UpdateRating(_ context.Context, ownerID, movieID int64, rating string) error {
	return r.mutateOwned(ownerID, movieID, func(m *models.Movie) { m.Rating = rating })
}

// Delete removes a movie owned by ownerID.
func (r *MemoryMovieRepository) Delete(_ context.Context, ownerID, movieID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	movie, ok := r.s.movies[movieID]
	if !ok || movie.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.s.movies, movieID)
	return nil
}

func (r *MemoryMovieRepository) mutateOwned(ownerID, movieID int64, apply func(*models.Movie)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	movie, ok := r.s.movies[movieID]
	if !ok || movie.OwnerID != ownerID {
		return ErrNotFound
	}
	apply(&movie)
	r.s.movies[movieID] = movie
	return nil
}

// MemoryFriendRepository implements FriendRepository on a MemoryStore.
type MemoryFriendRepository struct{ s *MemoryStore }

// Exists reports whether a friendship row exists in either direction.
func (r *MemoryFriendRepository) Exists(_ context.Context, userID, otherID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, forward := r.s.friends[friendKey{userID, otherID}]
	_, backward := r.s.friends[friendKey{otherID, userID}]
	return forward || backward, nil
}

// CreatePair inserts both directed rows or neither.
func (r *MemoryFriendRepository) CreatePair(_ context.Context, userID, friendID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return ErrNotFound
	}
	if _, ok := r.s.users[friendID]; !ok {
		return ErrNotFound
	}

	forward := friendKey{userID, friendID}
	backward := friendKey{friendID, userID}
	if _, ok := r.s.friends[forward]; ok {
		return ErrConflict
	}
	if _, ok := r.s.friends[backward]; ok {
		return ErrConflict
	}

	r.s.friends[forward] = struct{}{}
	r.s.friends[backward] = struct{}{}
	return nil
}

// ListFriendUsernames returns the sorted usernames of userID's friends.
func (r *MemoryFriendRepository) ListFriendUsernames(_ context.Context, userID int64) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[int64]struct{})
	for key := range r.s.friends {
		switch {
		case key.userID == userID && key.friendID != userID:
			seen[key.friendID] = struct{}{}
		case key.friendID == userID && key.userID != userID:
			seen[key.userID] = struct{}{}
		}
	}

	usernames := make([]string, 0, len(seen))
	for id := range seen {
		if user, ok := r.s.users[id]; ok {
			usernames = append(usernames, user.Username)
		}
	}
	sort.Strings(usernames)
	return usernames, nil
}

// MemoryRecommendationRepository implements RecommendationRepository on a MemoryStore.
type MemoryRecommendationRepository struct{ s *MemoryStore }

// Create stores a recommendation between two existing users.
func (r *MemoryRecommendationRepository) Create(_ context.Context, rec models.Recommendation) (models.Recommendation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[rec.FromUserID]; !ok {
		return models.Recommendation{}, ErrNotFound
	}
	if _, ok := r.s.users[rec.ToUserID]; !ok {
		return models.Recommendation{}, ErrNotFound
	}
	rec.ID = r.s.allocateIDLocked()
	rec.CreatedAt = r.s.now().UTC()
	r.s.recommendations[rec.ID] = rec
	return rec, nil
}

// ListInbox returns recommendations addressed to toUserID, newest first.
func (r *MemoryRecommendationRepository) ListInbox(_ context.Context, toUserID int64) ([]models.InboxItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []models.InboxItem{}
	for _, rec := range r.s.recommendations {
		if rec.ToUserID != toUserID {
			continue
		}
		sender, ok := r.s.users[rec.FromUserID]
		if !ok {
			continue
		}
		items = append(items, models.InboxItem{ID: rec.ID, MovieTitle: rec.MovieTitle, FromUsername: sender.Username})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

// Delete removes a recommendation addressed to toUserID.
func (r *MemoryRecommendationRepository) Delete(_ context.Context, toUserID, recommendationID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.recommendations[recommendationID]
	if !ok || rec.ToUserID != toUserID {
		return ErrNotFound
	}
	delete(r.s.recommendations, recommendationID)
	return nil
}

var _ UserRepository = (*MemoryUserRepository)(nil)
var _ MovieRepository = (*MemoryMovieRepository)(nil)
var _ FriendRepository = (*MemoryFriendRepository)(nil)
var _ RecommendationRepository = (*MemoryRecommendationRepository)(nil)
