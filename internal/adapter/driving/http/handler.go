// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/amckenna/studyhub/internal/application"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	authSvc      *application.AuthService
	groupSvc     *application.GroupService
	stopwatchSvc *application.StopwatchService
	watch        *application.WatchHub
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	authSvc *application.AuthService,
	groupSvc *application.GroupService,
	stopwatchSvc *application.StopwatchService,
	watch *application.WatchHub,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:      authSvc,
		groupSvc:     groupSvc,
		stopwatchSvc: stopwatchSvc,
		watch:        watch,
		logger:       logger,
	}
}

// RegisterAPIRoutes registers all API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/v1/auth/signup", h.SignUp)
	mux.HandleFunc("POST /api/v1/auth/signin", h.SignIn)
	mux.HandleFunc("POST /api/v1/auth/signout", h.SignOut)
	mux.HandleFunc("POST /api/v1/auth/reset", h.ResetPassword)
	mux.Handle("GET /api/v1/auth/me", h.requireAuth(h.Me))

	mux.Handle("GET /api/v1/groups", h.requireAuth(h.ListGroups))
	mux.Handle("POST /api/v1/groups", h.requireAuth(h.CreateGroup))
	mux.Handle("POST /api/v1/groups/{id}/join", h.requireAuth(h.JoinGroup))
	mux.Handle("POST /api/v1/groups/{id}/leave", h.requireAuth(h.LeaveGroup))
	mux.Handle("GET /api/v1/groups/watch", h.requireAuth(h.WatchGroups))

	mux.Handle("GET /api/v1/stopwatch", h.requireAuth(h.StopwatchStatus))
	mux.Handle("POST /api/v1/stopwatch/toggle", h.requireAuth(h.StopwatchToggle))
	mux.Handle("POST /api/v1/stopwatch/commit", h.requireAuth(h.StopwatchCommit))
	mux.Handle("POST /api/v1/stopwatch/clear", h.requireAuth(h.StopwatchClear))

	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps the handler with logging and recovery middleware.
// Recovery sits innermost so panics are caught before the request is logged.
func ApplyMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
