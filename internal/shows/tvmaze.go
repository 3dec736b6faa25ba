package shows

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.tvmaze.com"

// TVMazeProvider queries the public TVMaze show search endpoint.
type TVMazeProvider struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

// NewTVMazeProvider constructs a Provider backed by TVMaze.
func NewTVMazeProvider(baseURL string, timeout time.Duration) *TVMazeProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TVMazeProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
		Timeout: timeout,
	}
}

type tvmazeResult struct {
	Show struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Type      string `json:"type"`
		Premiered string `json:"premiered"`
		Image     *struct {
			Medium string `json:"medium"`
		} `json:"image"`
	} `json:"show"`
}

// Search looks up shows matching term.
func (p *TVMazeProvider) Search(ctx context.Context, term string) ([]Show, error) {
	if p == nil {
		return nil, ErrProviderUnavailable
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	endpoint := p.BaseURL + "/search/shows?" + url.Values{"q": {term}}.Encode()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tvmaze request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tvmaze search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("tvmaze search: unexpected status %d", resp.StatusCode)
	}

	var results []tvmazeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("parse tvmaze response: %w", err)
	}

	shows := make([]Show, 0, len(results))
	for _, r := range results {
		shows = append(shows, toShow(r))
	}
	return shows, nil
}

func toShow(r tvmazeResult) Show {
	show := Show{
		Title: r.Show.Name,
		Year:  "N/A",
		Type:  r.Show.Type,
	}
	if show.Title == "" {
		show.Title = "Unknown"
	}
	if show.Type == "" {
		show.Type = "show"
	}
	if len(r.Show.Premiered) >= 4 {
		show.Year = r.Show.Premiered[:4]
	}
	if r.Show.ID != 0 {
		show.ID = strconv.FormatInt(r.Show.ID, 10)
	}
	if r.Show.Image != nil {
		show.Poster = r.Show.Image.Medium
	}
	return show
}
