package httpapi

import (
	"net/http"

	"github.com/feedbackhub/feedbackhub/internal/logging"
	"github.com/feedbackhub/feedbackhub/internal/server/config"
)

// NewRouter wires the API handlers into a ServeMux with logging and rate
// limiting. The authentication endpoints get a tighter per-client budget to
// slow down credential stuffing.
func NewRouter(api *API, log logging.Logger, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()

	general := NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	authLimiter := NewClientLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return WithLogging(log, RateLimit(general, h))
	}
	wrapAuth := func(h http.HandlerFunc) http.HandlerFunc {
		return WithLogging(log, RateLimit(authLimiter, h))
	}

	mux.HandleFunc("GET /healthz", api.Health)
	mux.HandleFunc("GET /{$}", wrap(api.Root))

	mux.HandleFunc("POST /auth/register", wrapAuth(api.Register))
	mux.HandleFunc("POST /auth/login", wrapAuth(api.Login))
	mux.HandleFunc("GET /auth/me", wrap(api.Me))
	mux.HandleFunc("GET /auth/password-policy", wrap(api.PasswordPolicy))

	mux.HandleFunc("POST /feedback", wrap(api.CreateFeedback))
	mux.HandleFunc("GET /feedback", wrap(api.ListFeedback))
	mux.HandleFunc("GET /feedback/my", wrap(api.ListMyFeedback))
	mux.HandleFunc("GET /feedback/{id}", wrap(api.GetFeedback))
	mux.HandleFunc("POST /feedback/{id}/upvote", wrap(api.ToggleUpvote))
	mux.HandleFunc("PUT /feedback/{id}", wrap(api.UpdateFeedback))
	mux.HandleFunc("DELETE /feedback/{id}", wrap(api.DeleteFeedback))

	mux.HandleFunc("POST /admin/reconcile-upvotes", wrap(api.Reconcile))

	return mux
}
