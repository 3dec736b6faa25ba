package repositories

import (
	"context"
	"errors"
	"fmt"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/moviebuddies/backend/internal/db"
	"github.com/moviebuddies/backend/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record and returns it with its assigned identifier.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO users (username, password)
        VALUES ($1, $2)
        RETURNING id, created_at
    `, user.Username, user.Password)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// FindByUsername fetches a user by exact, case-sensitive username.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, username, password, created_at
        FROM users
        WHERE username = $1
    `, username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by username: %w", err)
	}

	return user, nil
}

// PostgresMovieRepository provides PostgreSQL-backed persistence for watch-lists.
type PostgresMovieRepository struct {
	pool db.Pool
}

// NewPostgresMovieRepository constructs a movie repository backed by PostgreSQL.
func NewPostgresMovieRepository(pool db.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{pool: pool}
}

// Create stores a new movie on its owner's list.
func (r *PostgresMovieRepository) Create(ctx context.Context, movie models.Movie) (models.Movie, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Movie{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO movies (user_id, title, status, rating)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, movie.OwnerID, movie.Title, string(movie.Status), movie.Rating)
	if err := row.Scan(&movie.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return models.Movie{}, ErrNotFound
		}
		return models.Movie{}, fmt.Errorf("insert movie: %w", err)
	}

	return movie, nil
}

// ListByOwner returns every movie owned by the user in insertion order.
func (r *PostgresMovieRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Movie, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, user_id, title, status, rating
        FROM movies
        WHERE user_id = $1
        ORDER BY id
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var (
			movie  models.Movie
			status string
		)
		if err := rows.Scan(&movie.ID, &movie.OwnerID, &movie.Title, &status, &movie.Rating); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movie.Status = models.MovieStatus(status)
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	return movies, nil
}

// UpdateStatus moves a movie to another list if and only if the owner matches.
func (r *PostgresMovieRepository) UpdateStatus(ctx context.Context, ownerID, movieID int64, status models.MovieStatus) error {
	return r.execOwned(ctx, "update movie status", `
        UPDATE movies
        SET status = $3
        WHERE id = $1 AND user_id = $2
    `, movieID, ownerID, string(status))
}

// UpdateRating stores the rating as given if and only if the owner matches.
func (r *PostgresMovieRepository) UpdateRating(ctx context.Context, ownerID, movieID int64, rating string) error {
	return r.execOwned(ctx, "update movie rating", `
        UPDATE movies
        SET rating = $3
        WHERE id = $1 AND user_id = $2
    `, movieID, ownerID, rating)
}

// Delete removes a movie if and only if the owner matches.
func (r *PostgresMovieRepository) Delete(ctx context.Context, ownerID, movieID int64) error {
	return r.execOwned(ctx, "delete movie", `
        DELETE FROM movies
        WHERE id = $1 AND user_id = $2
    `, movieID, ownerID)
}

func (r *PostgresMovieRepository) execOwned(ctx context.Context, op, query string, args ...any) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresFriendRepository provides PostgreSQL-backed persistence for friendships.
type PostgresFriendRepository struct {
	pool db.Pool
}

// NewPostgresFriendRepository constructs a friend repository backed by PostgreSQL.
func NewPostgresFriendRepository(pool db.Pool) *PostgresFriendRepository {
	return &PostgresFriendRepository{pool: pool}
}

// Exists reports whether a friendship row exists in either direction.
func (r *PostgresFriendRepository) Exists(ctx context.Context, userID, otherID int64) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
            FROM friends
            WHERE (user_id = $1 AND friend_id = $2)
               OR (user_id = $2 AND friend_id = $1)
        )
    `, userID, otherID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("select friendship: %w", err)
	}

	return exists, nil
}

// CreatePair inserts both directed rows of a friendship in one transaction.
// Either both rows are committed or neither is.
func (r *PostgresFriendRepository) CreatePair(ctx context.Context, userID, friendID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)`, userID, friendID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)`, friendID, userID)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return ErrConflict
			case pgForeignKeyViolation:
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert friendship pair: %w", err)
	}

	return nil
}

// ListFriendUsernames returns the usernames one hop away from the user, deduplicated.
func (r *PostgresFriendRepository) ListFriendUsernames(ctx context.Context, userID int64) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT DISTINCT u.username
        FROM friends f
        JOIN users u
          ON u.id = CASE WHEN f.user_id = $1 THEN f.friend_id ELSE f.user_id END
        WHERE (f.user_id = $1 OR f.friend_id = $1)
          AND u.id <> $1
        ORDER BY u.username
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query friends: %w", err)
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		usernames = append(usernames, username)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friends: %w", err)
	}

	return usernames, nil
}

// PostgresRecommendationRepository provides PostgreSQL-backed persistence for recommendations.
type PostgresRecommendationRepository struct {
	pool db.Pool
}

// NewPostgresRecommendationRepository constructs a recommendation repository backed by PostgreSQL.
func NewPostgresRecommendationRepository(pool db.Pool) *PostgresRecommendationRepository {
	return &PostgresRecommendationRepository{pool: pool}
}

// Create stores a recommendation. Repeated recommendations are allowed.
func (r *PostgresRecommendationRepository) Create(ctx context.Context, rec models.Recommendation) (models.Recommendation, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Recommendation{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO recommendations (from_user_id, to_user_id, movie_title)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, rec.FromUserID, rec.ToUserID, rec.MovieTitle)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return models.Recommendation{}, ErrNotFound
		}
		return models.Recommendation{}, fmt.Errorf("insert recommendation: %w", err)
	}

	return rec, nil
}

// ListInbox returns the recommendations addressed to the user, newest first.
func (r *PostgresRecommendationRepository) ListInbox(ctx context.Context, toUserID int64) ([]models.InboxItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT r.id, r.movie_title, u.username
        FROM recommendations r
        JOIN users u ON u.id = r.from_user_id
        WHERE r.to_user_id = $1
        ORDER BY r.id DESC
    `, toUserID)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	items := []models.InboxItem{}
	for rows.Next() {
		var item models.InboxItem
		if err := rows.Scan(&item.ID, &item.MovieTitle, &item.FromUsername); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}

	return items, nil
}

// Delete removes a recommendation only when it is addressed to toUserID.
func (r *PostgresRecommendationRepository) Delete(ctx context.Context, toUserID, recommendationID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM recommendations
        WHERE id = $1 AND to_user_id = $2
    `, recommendationID, toUserID)
	if err != nil {
		return fmt.Errorf("delete recommendation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ MovieRepository = (*PostgresMovieRepository)(nil)
var _ FriendRepository = (*PostgresFriendRepository)(nil)
var _ RecommendationRepository = (*PostgresRecommendationRepository)(nil)
