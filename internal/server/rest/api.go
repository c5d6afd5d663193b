// Package rest exposes the account and task services over HTTP/JSON.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/yeslist/internal/logging"
	"github.com/dmitrijs2005/yeslist/internal/server/auth"
	"github.com/dmitrijs2005/yeslist/internal/server/models"
	"github.com/dmitrijs2005/yeslist/internal/server/services"
)

type AccountService interface {
	Register(ctx context.Context, email, password string) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*auth.SignedToken, error)
}

type TaskService interface {
	List(ctx context.Context, id *auth.Identity) ([]*models.Task, error)
	Get(ctx context.Context, id *auth.Identity, taskID string) (*models.Task, error)
	Create(ctx context.Context, id *auth.Identity, in services.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id *auth.Identity, taskID string, in services.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, id *auth.Identity, taskID string) error
}

type TokenValidator interface {
	Validate(token string, now time.Time) (*auth.Identity, error)
}

// API holds the HTTP handlers and their dependencies.
type API struct {
	accounts       AccountService
	tasks          TaskService
	tokens         TokenValidator
	logger         logging.Logger
	allowedOrigins []string
	now            func() time.Time
}

func NewAPI(as AccountService, ts TaskService, tv TokenValidator, l logging.Logger, allowedOrigins []string) *API {
	return &API{
		accounts:       as,
		tasks:          ts,
		tokens:         tv,
		logger:         l.With("module", "rest"),
		allowedOrigins: allowedOrigins,
		now:            time.Now,
	}
}

// Handler returns the complete middleware chain and routes.
//
// The safety net sits inside request logging so the logged status is the
// one the client received.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.handle(a.healthz))

	mux.HandleFunc("POST /api/auth/register", a.handle(a.register))
	mux.HandleFunc("POST /api/auth/login", a.handle(a.login))

	mux.HandleFunc("GET /api/todo", a.authenticate(a.handle(a.listTasks)))
	mux.HandleFunc("POST /api/todo", a.authenticate(a.handle(a.createTask)))
	mux.HandleFunc("GET /api/todo/{id}", a.authenticate(a.handle(a.getTask)))
	mux.HandleFunc("PUT /api/todo/{id}", a.authenticate(a.handle(a.updateTask)))
	mux.HandleFunc("DELETE /api/todo/{id}", a.authenticate(a.handle(a.deleteTask)))

	return a.logRequests(a.recoverer(a.cors(mux)))
}

// handlerFunc is an http handler that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (a *API) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			a.writeError(w, r, err)
		}
	}
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	return nil
}
