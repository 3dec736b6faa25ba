package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/models"
	"github.com/moviebuddies/backend/internal/repositories"
)

// LegacyTokenPrefix precedes the username in legacy session tokens.
const LegacyTokenPrefix = "token_secret_pentru_"

// ErrMalformedToken indicates a token that cannot be decoded into a username.
var ErrMalformedToken = errors.New("malformed token")

// TokenCodec converts between usernames and opaque bearer tokens.
type TokenCodec interface {
	Encode(username string) (string, error)
	Decode(token string) (string, error)
}

// LegacyTokens derives the token deterministically from the username. It has
// no expiry and no revocation.
type LegacyTokens struct{}

func (LegacyTokens) Encode(username string) (string, error) {
	return LegacyTokenPrefix + username, nil
}

func (LegacyTokens) Decode(token string) (string, error) {
	username, ok := strings.CutPrefix(token, LegacyTokenPrefix)
	if !ok || username == "" {
		return "", ErrMalformedToken
	}
	return username, nil
}

// JWTTokens issues HS256 signed tokens carrying the username as subject.
type JWTTokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTTokens constructs a signed token codec. The secret must not be empty.
func NewJWTTokens(secret string, ttl time.Duration) (*JWTTokens, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: jwt token secret must be provided")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokens{secret: []byte(secret), ttl: ttl, issuer: "moviebuddies", now: time.Now}, nil
}

func (j *JWTTokens) Encode(username string) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Issuer:    j.issuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *JWTTokens) Decode(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.Subject == "" {
		return "", ErrMalformedToken
	}
	return claims.Subject, nil
}

// Sessions issues tokens and resolves them back to registered users.
type Sessions struct {
	codec TokenCodec
	users UserStore
}

// NewSessions constructs a session validator over the codec and the user store.
func NewSessions(codec TokenCodec, users UserStore) *Sessions {
	if codec == nil || users == nil {
		panic("auth: token codec and user store must not be nil")
	}
	return &Sessions{codec: codec, users: users}
}

// Issue returns the bearer token for the username.
func (s *Sessions) Issue(username string) (string, error) {
	return s.codec.Encode(username)
}

// Validate resolves the token to the user it names. Missing, malformed or
// unknown tokens return apperr.ErrUnauthorized.
func (s *Sessions) Validate(ctx context.Context, token string) (models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.User{}, apperr.ErrUnauthorized
	}

	username, err := s.codec.Decode(token)
	if err != nil {
		return models.User{}, apperr.ErrUnauthorized
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, apperr.ErrUnauthorized
		}
		return models.User{}, fmt.Errorf("%w: resolve session user: %v", apperr.ErrStorage, err)
	}

	return user, nil
}
