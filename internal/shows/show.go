package shows

import "context"

// Show is a single search hit in the shape the frontend consumes.
type Show struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
	ID     string `json:"imdbID"`
	Poster string `json:"Poster"`
}

// Provider searches an external catalog by free-text term.
type Provider interface {
	Search(ctx context.Context, term string) ([]Show, error)
}
