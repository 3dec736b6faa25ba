package app

import (
	"context"
	"fmt"
	"time"

	"github.com/moviebuddies/backend/internal/auth"
	"github.com/moviebuddies/backend/internal/config"
	"github.com/moviebuddies/backend/internal/db"
	"github.com/moviebuddies/backend/internal/friends"
	"github.com/moviebuddies/backend/internal/handlers"
	"github.com/moviebuddies/backend/internal/middleware"
	"github.com/moviebuddies/backend/internal/movies"
	"github.com/moviebuddies/backend/internal/recommendations"
	"github.com/moviebuddies/backend/internal/repositories"
	"github.com/moviebuddies/backend/internal/shows"
)

// repositorySet groups one implementation of every repository.
type repositorySet struct {
	users           repositories.UserRepository
	movies          repositories.MovieRepository
	friends         repositories.FriendRepository
	recommendations repositories.RecommendationRepository
	store           handlers.Pinger
}

func openRepositories(ctx context.Context, cfg config.Config) (repositorySet, func(), error) {
	if cfg.UsesMemoryStore() {
		mem := repositories.NewMemoryStore()
		return repositorySet{
			users:           mem.Users(),
			movies:          mem.Movies(),
			friends:         mem.Friends(),
			recommendations: mem.Recommendations(),
		}, func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositorySet{}, nil, err
	}
	return repositorySet{
		users:           repositories.NewPostgresUserRepository(pool),
		movies:          repositories.NewPostgresMovieRepository(pool),
		friends:         repositories.NewPostgresFriendRepository(pool),
		recommendations: repositories.NewPostgresRecommendationRepository(pool),
		store:           pool,
	}, pool.Close, nil
}

func tokenCodec(cfg config.Config) (auth.TokenCodec, error) {
	switch cfg.TokenMode {
	case config.TokenModeLegacy, "":
		return auth.LegacyTokens{}, nil
	case config.TokenModeJWT:
		return auth.NewJWTTokens(cfg.TokenSecret, cfg.TokenTTL)
	default:
		return nil, fmt.Errorf("unknown token mode %q", cfg.TokenMode)
	}
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, cfg config.Config) (handlers.Dependencies, func(), error) {
	codec, err := tokenCodec(cfg)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	repos, cleanup, err := openRepositories(ctx, cfg)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	return wireDependencies(repos, codec, cfg), cleanup, nil
}

func wireDependencies(repos repositorySet, codec auth.TokenCodec, cfg config.Config) handlers.Dependencies {
	graph := friends.NewService(repos.users, repos.friends, repos.movies)
	search := shows.NewCachingProvider(
		shows.NewTVMazeProvider(cfg.ShowSearchURL, cfg.ShowSearchTimeout),
		cfg.ShowCacheTTL,
	)

	return handlers.Dependencies{
		Accounts:        auth.NewCredentials(repos.users, 0),
		Sessions:        auth.NewSessions(codec, repos.users),
		Movies:          movies.NewService(repos.movies),
		Friends:         graph,
		Recommendations: recommendations.NewService(repos.users, graph, repos.recommendations),
		Shows:           search,
		Store:           repos.store,
		AuthLimiter:     middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateBurst, 10*time.Minute),

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}
}
