// Package httpapi is the HTTP transport for feedbackhub. It is thin glue:
// request decoding, identity resolution via the user service, and mapping of
// the service error taxonomy onto status codes. All business rules live in
// the services.
package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/feedbackhub/feedbackhub/internal/common"
	"github.com/feedbackhub/feedbackhub/internal/logging"
	"github.com/feedbackhub/feedbackhub/internal/server/models"
	"github.com/feedbackhub/feedbackhub/internal/server/validation"
)

// UserProvider is the authenticator surface the transport consumes.
type UserProvider interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Resolve(ctx context.Context, token string) (*models.User, error)
	ResolveOptional(ctx context.Context, token string) *models.User
	Policy() validation.PasswordPolicy
}

// FeedbackProvider is the feedback CRUD surface the transport consumes.
type FeedbackProvider interface {
	Create(ctx context.Context, user *models.User, text string) (*models.FeedbackView, error)
	List(ctx context.Context, callerID *int64, skip, limit int) ([]*models.FeedbackView, error)
	ListOwn(ctx context.Context, userID int64, skip, limit int) ([]*models.FeedbackView, error)
	Get(ctx context.Context, id int64, callerID *int64) (*models.FeedbackView, error)
	Update(ctx context.Context, id, userID int64, text string) (*models.FeedbackView, error)
	Delete(ctx context.Context, id, userID int64) error
}

// UpvoteProvider is the toggle/reconciliation surface the transport consumes.
type UpvoteProvider interface {
	Toggle(ctx context.Context, feedbackID, userID int64) (*models.UpvoteResult, error)
	ReconcileAll(ctx context.Context) (*models.ReconcileResult, error)
}

// API bundles the handlers for all endpoints.
type API struct {
	logger          logging.Logger
	users           UserProvider
	feedback        FeedbackProvider
	upvotes         UpvoteProvider
	defaultPageSize int
}

func NewAPI(l logging.Logger, u UserProvider, f FeedbackProvider, up UpvoteProvider, defaultPageSize int) *API {
	return &API{
		logger:          l.With("module", "httpapi"),
		users:           u,
		feedback:        f,
		upvotes:         up,
		defaultPageSize: defaultPageSize,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type feedbackRequest struct {
	Text string `json:"text"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Root handles GET /.
func (a *API) Root(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]string{
		"message": "feedbackhub API",
		"version": "1.0.0",
	})
}

// Health handles GET /healthz.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Register handles POST /auth/register.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := a.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusCreated, models.NewUserView(user))
}

// Login handles POST /auth/login. Failures are a single generic rejection;
// the response never says whether the email or the password was wrong.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	token, err := a.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: common.TokenTypeBearer})
}

// Me handles GET /auth/me.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	JSONResponse(w, http.StatusOK, models.NewUserView(user))
}

// PasswordPolicy handles GET /auth/password-policy.
func (a *API) PasswordPolicy(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, a.users.Policy().Describe())
}

// CreateFeedback handles POST /feedback.
func (a *API) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var req feedbackRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	view, err := a.feedback.Create(r.Context(), user, req.Text)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusCreated, view)
}

// ListFeedback handles GET /feedback. Authentication is optional and only
// affects the has_upvoted annotation.
func (a *API) ListFeedback(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := a.parsePagination(r)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := a.users.ResolveOptional(r.Context(), bearerToken(r))

	views, err := a.feedback.List(r.Context(), callerID(caller), skip, limit)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, views)
}

// ListMyFeedback handles GET /feedback/my.
func (a *API) ListMyFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	skip, limit, err := a.parsePagination(r)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := a.feedback.ListOwn(r.Context(), user.ID, skip, limit)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, views)
}

// GetFeedback handles GET /feedback/{id}.
func (a *API) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	caller := a.users.ResolveOptional(r.Context(), bearerToken(r))

	view, err := a.feedback.Get(r.Context(), id, callerID(caller))
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, view)
}

// ToggleUpvote handles POST /feedback/{id}/upvote.
func (a *API) ToggleUpvote(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := a.upvotes.Toggle(r.Context(), id, user.ID)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, result)
}

// UpdateFeedback handles PUT /feedback/{id}. A row that is missing or owned
// by someone else reports not-found either way.
func (a *API) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req feedbackRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	view, err := a.feedback.Update(r.Context(), id, user.ID, req.Text)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, view)
}

// DeleteFeedback handles DELETE /feedback/{id}.
func (a *API) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.feedback.Delete(r.Context(), id, user.ID); err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reconcile handles POST /admin/reconcile-upvotes. Any authenticated caller
// may trigger it; restricting access further is a deployment concern.
func (a *API) Reconcile(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}

	result, err := a.upvotes.ReconcileAll(r.Context())
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, result)
}

// requireUser resolves the bearer token or writes a 401 response.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	token := bearerToken(r)
	if token == "" {
		ErrorResponse(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}

	user, err := a.users.Resolve(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return nil, false
	}

	return user, true
}

// parsePagination reads skip/limit query parameters, substituting the
// configured default when limit is absent. Range checks happen in the
// services; this only rejects non-numeric values.
func (a *API) parsePagination(r *http.Request) (int, int, error) {
	skip := 0
	limit := a.defaultPageSize

	if v := r.URL.Query().Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, common.ErrorValidation
		}
		skip = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, common.ErrorValidation
		}
		limit = n
	}

	return skip, limit, nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid feedback id")
		return 0, false
	}
	return id, true
}

func callerID(user *models.User) *int64 {
	if user == nil {
		return nil
	}
	return &user.ID
}
