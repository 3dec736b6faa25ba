package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/moviebuddies/backend/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Accounts        AccountService
	Sessions        SessionService
	Movies          MovieService
	Friends         FriendService
	Recommendations RecommendationService
	Shows           ShowSearcher
	Store           Pinger
	AuthLimiter     middleware.RateLimiter

	// TrustProxyHeaders keys the auth limiter on X-Forwarded-For.
	TrustProxyHeaders bool
}

// NewRouter builds the HTTP routes. Every API route is served both at the
// root and under /api.
func NewRouter(deps Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(r.Context(), w, http.StatusNotFound, map[string]string{"message": "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(r.Context(), w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	})

	health := HealthHandler{Store: deps.Store}
	router.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)
	router.HandleFunc("/api/health", health.Handle).Methods(http.MethodGet)

	RegisterRoutes(router.PathPrefix("/api").Subrouter(), deps)
	RegisterRoutes(router, deps)
	return router
}

// RegisterRoutes wires the API handlers into the provided router.
func RegisterRoutes(router *mux.Router, deps Dependencies) {
	auth := AuthHandler{Accounts: deps.Accounts, Sessions: deps.Sessions}
	movies := MovieHandler{Movies: deps.Movies}
	friends := FriendHandler{Friends: deps.Friends}
	recs := RecommendationHandler{Recommendations: deps.Recommendations}
	search := ShowHandler{Shows: deps.Shows}

	router.Handle("/register", middleware.RateLimit(deps.AuthLimiter, "register", deps.TrustProxyHeaders)(http.HandlerFunc(auth.Register))).Methods(http.MethodPost)
	router.Handle("/login", middleware.RateLimit(deps.AuthLimiter, "login", deps.TrustProxyHeaders)(http.HandlerFunc(auth.Login))).Methods(http.MethodPost)
	router.HandleFunc("/search-movies", search.Search).Methods(http.MethodGet)

	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.RequireUser(deps.Sessions))

	protected.HandleFunc("/user/username", auth.Username).Methods(http.MethodGet)

	protected.HandleFunc("/movies", movies.List).Methods(http.MethodGet)
	protected.HandleFunc("/movies", movies.Create).Methods(http.MethodPost)
	protected.HandleFunc("/movies/{id}/move", movies.Move).Methods(http.MethodPut)
	protected.HandleFunc("/movies/{id}/rate", movies.Rate).Methods(http.MethodPut)
	protected.HandleFunc("/movies/{id}", movies.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/friends", friends.List).Methods(http.MethodGet)
	protected.HandleFunc("/friends/add", friends.Add).Methods(http.MethodPost)
	protected.HandleFunc("/friends/recommend", recs.Send).Methods(http.MethodPost)
	protected.HandleFunc("/friends/{username}/movies", friends.Movies).Methods(http.MethodGet)

	protected.HandleFunc("/recommendations", recs.List).Methods(http.MethodGet)
	protected.HandleFunc("/recommendations/{id}", recs.Delete).Methods(http.MethodDelete)
}
