// Package api exposes the task tracker's HTTP surface: task CRUD, settings,
// the on-demand reminder endpoint and reminder history.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"teachtime/internal/models"
	"teachtime/internal/notify"
)

// Store is the persistence surface the API needs.
type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateTask(ctx context.Context, t *models.Task) error
	ToggleTask(ctx context.Context, userID, taskID int64) (bool, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
	ListTasks(ctx context.Context, userID int64) ([]models.Task, error)
	GetOrCreatePreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, p *models.NotificationPreferences) error
	UpdateBufferTime(ctx context.Context, userID int64, hours float64) error
	ListReminderLogs(ctx context.Context, userID int64, limit int) ([]models.ReminderLog, error)
	AllReminderLogs(ctx context.Context) ([]models.ReminderLog, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	PingContext(ctx context.Context) error
}

// Reminders is the on-demand reminder surface the API needs.
type Reminders interface {
	SendNow(ctx context.Context, user models.User, channelName string) (*notify.SendNowResult, error)
}

// HTTPServer handles the JSON API.
type HTTPServer struct {
	store     Store
	reminders Reminders
	logger    *zerolog.Logger
}

// NewHTTPServer creates the API server.
func NewHTTPServer(store Store, reminders Reminders, logger *zerolog.Logger) *HTTPServer {
	return &HTTPServer{store: store, reminders: reminders, logger: logger}
}

// Routes registers every API route on a fresh mux.
func (s *HTTPServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks", s.withUser(s.handleTasks))
	mux.HandleFunc("/api/tasks/", s.withUser(s.handleTaskByID))
	mux.HandleFunc("/api/settings", s.withUser(s.handleSettings))
	mux.HandleFunc("/api/buffer", s.withUser(s.handleBuffer))
	mux.HandleFunc("/api/send-reminder", s.withUser(s.handleSendReminder))
	mux.HandleFunc("/api/reminder-history", s.withUser(s.handleReminderHistory))
	mux.HandleFunc("/api/reminder-history/export", s.withUser(s.handleReminderExport))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleReadyz)
	return mux
}

// withUser resolves the caller from the X-User header, stamps a request ID
// and passes the user to the handler. The header stands in for the session
// layer, which lives outside this service.
func (s *HTTPServer) withUser(h func(w http.ResponseWriter, r *http.Request, user models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		username := r.Header.Get("X-User")
		if username == "" {
			writeError(w, http.StatusUnauthorized, "missing X-User header")
			return
		}

		user, err := s.store.GetUserByUsername(r.Context(), username)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		h(w, r, *user)
	}
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	if err := s.store.PingContext(ctx); err != nil {
		http.Error(w, "db not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
