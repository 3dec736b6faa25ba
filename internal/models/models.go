package models

import (
	"strings"
	"time"
)

// User represents an account within the MovieBuddies platform.
type User struct {
	ID        int64
	Username  string
	Password  string
	CreatedAt time.Time
}

// MovieStatus is the watch progress of a movie on a user's list.
type MovieStatus string

const (
	StatusToWatch   MovieStatus = "To Watch"
	StatusWatching  MovieStatus = "Watching"
	StatusCompleted MovieStatus = "Completed"
)

// UnratedSentinel is the rating stored for movies that have not been rated yet.
const UnratedSentinel = "-"

// Statuses lists every valid status in display order.
var Statuses = []MovieStatus{StatusToWatch, StatusWatching, StatusCompleted}

// Valid reports whether the status is one of the three list values.
func (s MovieStatus) Valid() bool {
	switch s {
	case StatusToWatch, StatusWatching, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus normalises user supplied status text. The compact spelling
// "ToWatch" is accepted as an alias for "To Watch".
func ParseStatus(raw string) (MovieStatus, bool) {
	status := MovieStatus(strings.TrimSpace(raw))
	if status == "ToWatch" {
		status = StatusToWatch
	}
	return status, status.Valid()
}

// Movie is a single entry on a user's watch-list.
type Movie struct {
	ID      int64
	OwnerID int64
	Title   string
	Status  MovieStatus
	Rating  string
}

// MovieLists partitions a user's movies by status.
type MovieLists struct {
	ToWatch   []Movie
	Watching  []Movie
	Completed []Movie
}

// PartitionMovies buckets movies by status, silently skipping unknown statuses.
func PartitionMovies(movies []Movie) MovieLists {
	lists := MovieLists{
		ToWatch:   []Movie{},
		Watching:  []Movie{},
		Completed: []Movie{},
	}
	for _, movie := range movies {
		if strings.TrimSpace(movie.Rating) == "" {
			movie.Rating = UnratedSentinel
		}
		switch movie.Status {
		case StatusToWatch:
			lists.ToWatch = append(lists.ToWatch, movie)
		case StatusWatching:
			lists.Watching = append(lists.Watching, movie)
		case StatusCompleted:
			lists.Completed = append(lists.Completed, movie)
		}
	}
	return lists
}

// Recommendation is a movie suggestion sent from one friend to another.
type Recommendation struct {
	ID         int64
	FromUserID int64
	ToUserID   int64
	MovieTitle string
	CreatedAt  time.Time
}

// InboxItem is a received recommendation joined with the sender's username.
type InboxItem struct {
	ID           int64
	MovieTitle   string
	FromUsername string
}
