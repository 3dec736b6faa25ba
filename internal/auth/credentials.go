package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the credential store.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// Credentials registers users and verifies their passwords.
type Credentials struct {
	users UserStore
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewCredentials constructs a credential store hashing passwords with bcrypt at the given cost.
// A non-positive cost selects bcrypt.DefaultCost.
func NewCredentials(users UserStore, cost int) *Credentials {
	if users == nil {
		panic("auth: user store must not be nil")
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Credentials{users: users, cost: cost}
}

// Register creates a new account. Usernames are stored exactly as given and
// must not start or end with whitespace, since tokens carrying them are trimmed
// in transit.
func (c *Credentials) Register(ctx context.Context, username, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return models.User{}, fmt.Errorf("%w: username and password cannot be empty", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(username) != username {
		return models.User{}, fmt.Errorf("%w: username cannot start or end with whitespace", apperr.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, fmt.Errorf("%w: password is too long", apperr.ErrInvalidInput)
		}
		return models.User{}, fmt.Errorf("%w: hash password: %v", apperr.ErrStorage, err)
	}

	user, err := c.users.Create(ctx, models.User{Username: username, Password: string(hashed)})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, apperr.ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("%w: create user: %v", apperr.ErrStorage, err)
	}

	return user, nil
}

// Authenticate verifies the password for the username. Unknown users and wrong
// passwords both return apperr.ErrInvalidCredentials.
func (c *Credentials) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", apperr.ErrInvalidInput)
	}

	user, err := c.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Burn a comparison so unknown usernames take as long as wrong passwords.
			_ = bcrypt.CompareHashAndPassword(c.placeholderHash(), []byte(password))
			return models.User{}, apperr.ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("%w: find user: %v", apperr.ErrStorage, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	return user, nil
}

func (c *Credentials) placeholderHash() []byte {
	c.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("moviebuddies-placeholder"), c.cost)
		if err == nil {
			c.dummyHash = hash
		}
	})
	return c.dummyHash
}
