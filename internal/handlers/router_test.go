package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/moviebuddies/backend/internal/auth"
	"github.com/moviebuddies/backend/internal/friends"
	"github.com/moviebuddies/backend/internal/movies"
	"github.com/moviebuddies/backend/internal/recommendations"
	"github.com/moviebuddies/backend/internal/repositories"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func newTestAPI(t *testing.T) apiClient {
	t.Helper()
	store := repositories.NewMemoryStore()
	graph := friends.NewService(store.Users(), store.Friends(), store.Movies())

	router := NewRouter(Dependencies{
		Accounts:        auth.NewCredentials(store.Users(), bcrypt.MinCost),
		Sessions:        auth.NewSessions(auth.LegacyTokens{}, store.Users()),
		Movies:          movies.NewService(store.Movies()),
		Friends:         graph,
		Recommendations: recommendations.NewService(store.Users(), graph, store.Recommendations()),
	})
	return apiClient{t: t, router: router}
}

func (c apiClient) do(method, path, token, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c apiClient) expect(rec *httptest.ResponseRecorder, status int) {
	c.t.Helper()
	if rec.Code != status {
		c.t.Fatalf("expected status %d got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func (c apiClient) login(username, password string) string {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	c.expect(rec, http.StatusOK)

	var body tokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		c.t.Fatalf("decode token: %v", err)
	}
	return body.Token
}

func TestRouterRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	api.expect(api.do(http.MethodPost, "/register", "", `{"username":"alice","password":"pw123"}`), http.StatusCreated)
	dup := api.do(http.MethodPost, "/register", "", `{"username":"alice","password":"other"}`)
	api.expect(dup, http.StatusBadRequest)
	if !strings.Contains(dup.Body.String(), `"message":"username already exists"`) {
		t.Fatalf("unexpected duplicate body: %s", dup.Body.String())
	}
	api.expect(api.do(http.MethodPost, "/register", "", `{"username":"  ","password":"pw"}`), http.StatusBadRequest)
	api.expect(api.do(http.MethodPost, "/register", "", ``), http.StatusBadRequest)

	api.expect(api.do(http.MethodPost, "/login", "", `{"username":"alice","password":"wrong"}`), http.StatusUnauthorized)
	api.expect(api.do(http.MethodPost, "/login", "", `{"username":"nobody","password":"pw123"}`), http.StatusUnauthorized)
	api.expect(api.do(http.MethodPost, "/login", "", `{"username":"alice"}`), http.StatusBadRequest)

	token := api.login("alice", "pw123")
	if token != "token_secret_pentru_alice" {
		t.Fatalf("unexpected token %q", token)
	}

	rec := api.do(http.MethodGet, "/user/username", token, "")
	api.expect(rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	api.expect(api.do(http.MethodGet, "/movies", "", ""), http.StatusUnauthorized)
	api.expect(api.do(http.MethodGet, "/movies", "token_secret_pentru_mallory", ""), http.StatusUnauthorized)
	api.expect(api.do(http.MethodGet, "/api/movies", token, ""), http.StatusOK)
	api.expect(api.do(http.MethodPatch, "/movies", token, ""), http.StatusMethodNotAllowed)
}

func TestRouterRejectsPaddedUsernames(t *testing.T) {
	api := newTestAPI(t)

	api.expect(api.do(http.MethodPost, "/register", "", `{"username":"alice","password":"pw123"}`), http.StatusCreated)
	api.expect(api.do(http.MethodPost, "/register", "", `{"username":"alice ","password":"other"}`), http.StatusBadRequest)
	api.expect(api.do(http.MethodPost, "/register", "", `{"username":" alice","password":"other"}`), http.StatusBadRequest)

	api.expect(api.do(http.MethodPost, "/login", "", `{"username":"alice ","password":"other"}`), http.StatusUnauthorized)
	api.expect(api.do(http.MethodPost, "/login", "", `{"username":"   ","password":"pw123"}`), http.StatusBadRequest)

	rec := api.do(http.MethodGet, "/user/username", "token_secret_pentru_alice ", "")
	api.expect(rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouterMovieLifecycle(t *testing.T) {
	api := newTestAPI(t)
	api.expect(api.do(http.MethodPost, "/register", "", `{"username":"alice","password":"pw123"}`), http.StatusCreated)
	api.expect(api.do(http.MethodPost, "/register", "", `{"username":"mallory","password":"pw123"}`), http.StatusCreated)
	alice := api.login("alice", "pw123")
	mallory := api.login("mallory", "pw123")

	api.expect(api.do(http.MethodPost, "/movies", alice, `{"title":"Inception"}`), http.StatusCreated)
	api.expect(api.do(http.MethodPost, "/movies", alice, `{"title":""}`), http.StatusBadRequest)
	api.expect(api.do(http.MethodPost, "/movies", alice, `{"title":"Heat","status":"Dropped"}`), http.StatusBadRequest)

	rec := api.do(http.MethodGet, "/movies", alice, "")
	api.expect(rec, http.StatusOK)
	var lists map[string][]movieItem
	if err := json.NewDecoder(rec.Body).Decode(&lists); err != nil {
		t.Fatalf("decode lists: %v", err)
	}
	if len(lists["To Watch"]) != 1 || lists["To Watch"][0].Rating != "-" {
		t.Fatalf("expected Inception under To Watch, got %+v", lists)
	}
	id := lists["To Watch"][0].ID
	path := "/movies/" + jsonNumber(id)

	api.expect(api.do(http.MethodPut, path+"/move", mallory, `{"new_list":"Completed"}`), http.StatusNotFound)
	api.expect(api.do(http.MethodPut, path+"/move", alice, `{"new_list":"Finished"}`), http.StatusBadRequest)
	api.expect(api.do(http.MethodPut, path+"/move", alice, `{"new_list":"Completed"}`), http.StatusOK)
	api.expect(api.do(http.MethodPut, path+"/rate", alice, `{"rating":"9"}`), http.StatusOK)
	api.expect(api.do(http.MethodPut, path+"/rate", mallory, `{"rating":"1"}`), http.StatusNotFound)
	api.expect(api.do(http.MethodDelete, path, mallory, ""), http.StatusNotFound)

	rec = api.do(http.MethodGet, "/movies", alice, "")
	if !strings.Contains(rec.Body.String(), `"Completed":[{"id":`+jsonNumber(id)+`,"title":"Inception","rating":"9"}]`) {
		t.Fatalf("unexpected lists after update: %s", rec.Body.String())
	}

	api.expect(api.do(http.MethodDelete, path, alice, ""), http.StatusOK)
	api.expect(api.do(http.MethodDelete, path, alice, ""), http.StatusNotFound)
}

func TestRouterFriendsAndRecommendations(t *testing.T) {
	api := newTestAPI(t)
	api.expect(api.do(http.MethodPost, "/register", "", `{"username":"alice","password":"pw123"}`), http.StatusCreated)
	api.expect(api.do(http.MethodPost, "/register", "", `{"username":"bob","password":"pw123"}`), http.StatusCreated)
	alice := api.login("alice", "pw123")
	bob := api.login("bob", "pw123")

	api.expect(api.do(http.MethodPost, "/movies", bob, `{"title":"Dune","status":"Completed"}`), http.StatusCreated)
	rec := api.do(http.MethodGet, "/movies", bob, "")
	var lists map[string][]movieItem
	if err := json.NewDecoder(rec.Body).Decode(&lists); err != nil {
		t.Fatalf("decode lists: %v", err)
	}
	duneID := jsonNumber(lists["Completed"][0].ID)
	api.expect(api.do(http.MethodPut, "/movies/"+duneID+"/rate", bob, `{"rating":9}`), http.StatusOK)

	api.expect(api.do(http.MethodGet, "/friends/bob/movies", alice, ""), http.StatusForbidden)
	api.expect(api.do(http.MethodGet, "/friends/nobody/movies", alice, ""), http.StatusNotFound)
	api.expect(api.do(http.MethodPost, "/friends/recommend", alice, `{"friend_username":"bob","movie_title":"Heat"}`), http.StatusForbidden)

	api.expect(api.do(http.MethodPost, "/friends/add", alice, `{"friend_username":"alice"}`), http.StatusBadRequest)
	api.expect(api.do(http.MethodPost, "/friends/add", alice, `{"friend_username":"carol"}`), http.StatusNotFound)
	api.expect(api.do(http.MethodPost, "/friends/add", alice, `{"friend_username":""}`), http.StatusBadRequest)
	api.expect(api.do(http.MethodPost, "/friends/add", alice, `{"friend_username":"bob"}`), http.StatusCreated)
	api.expect(api.do(http.MethodPost, "/friends/add", bob, `{"friend_username":"alice"}`), http.StatusBadRequest)

	rec = api.do(http.MethodGet, "/friends", bob, "")
	api.expect(rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != `["alice"]` {
		t.Fatalf("unexpected friends: %s", rec.Body.String())
	}

	rec = api.do(http.MethodGet, "/friends/bob/movies", alice, "")
	api.expect(rec, http.StatusOK)
	var friendLists map[string][]movieItem
	if err := json.NewDecoder(rec.Body).Decode(&friendLists); err != nil {
		t.Fatalf("decode friend lists: %v", err)
	}
	completed := friendLists["Completed"]
	if len(completed) != 1 || completed[0].Title != "Dune" || completed[0].Rating != "9" {
		t.Fatalf("expected Dune rated 9, got %+v", friendLists)
	}

	api.expect(api.do(http.MethodPost, "/friends/recommend", alice, `{"friend_username":"bob","movie_title":"Heat"}`), http.StatusCreated)
	api.expect(api.do(http.MethodPost, "/friends/recommend", alice, `{"friend_username":"bob","movie_title":"Arrival"}`), http.StatusCreated)
	api.expect(api.do(http.MethodPost, "/friends/recommend", alice, `{"friend_username":"bob","movie_title":" "}`), http.StatusBadRequest)

	rec = api.do(http.MethodGet, "/recommendations", bob, "")
	api.expect(rec, http.StatusOK)
	var inbox []inboxItem
	if err := json.NewDecoder(rec.Body).Decode(&inbox); err != nil {
		t.Fatalf("decode inbox: %v", err)
	}
	if len(inbox) != 2 || inbox[0].MovieTitle != "Arrival" || inbox[0].FromUsername != "alice" || inbox[0].ID < inbox[1].ID {
		t.Fatalf("expected newest first, got %+v", inbox)
	}

	recPath := "/recommendations/" + jsonNumber(inbox[0].ID)
	api.expect(api.do(http.MethodDelete, recPath, alice, ""), http.StatusNotFound)
	api.expect(api.do(http.MethodDelete, recPath, bob, ""), http.StatusOK)

	rec = api.do(http.MethodGet, "/recommendations", alice, "")
	if strings.TrimSpace(rec.Body.String()) != `[]` {
		t.Fatalf("expected empty inbox for sender, got %s", rec.Body.String())
	}
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
