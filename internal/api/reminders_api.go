package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"teachtime/internal/export"
	"teachtime/internal/metrics"
	"teachtime/internal/models"
	"teachtime/internal/notify"
)

// SendReminderRequest is the request body for POST /api/send-reminder.
type SendReminderRequest struct {
	Type string `json:"type"`
}

// handleSendReminder triggers an immediate single-channel reminder for the
// caller. POST /api/send-reminder
func (s *HTTPServer) handleSendReminder(w http.ResponseWriter, r *http.Request, user models.User) {
	metrics.IncHTTP("send_reminder")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SendReminderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.reminders.SendNow(r.Context(), user, req.Type)
	if errors.Is(err, notify.ErrUnknownChannel) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to send reminder")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReminderHistory returns the caller's reminder log, newest first.
// GET /api/reminder-history?limit=N
func (s *HTTPServer) handleReminderHistory(w http.ResponseWriter, r *http.Request, user models.User) {
	metrics.IncHTTP("reminder_history")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	logs, err := s.store.ListReminderLogs(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if logs == nil {
		logs = []models.ReminderLog{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": logs})
}

// handleReminderExport streams the full reminder log as an xlsx workbook.
// GET /api/reminder-history/export
func (s *HTTPServer) handleReminderExport(w http.ResponseWriter, r *http.Request, _ models.User) {
	metrics.IncHTTP("reminder_export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	logs, err := s.store.AllReminderLogs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	usernames := make(map[int64]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	filename := fmt.Sprintf("reminder-history-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteReminderHistory(w, logs, usernames); err != nil && s.logger != nil {
		s.logger.Error().Err(err).Msg("failed to write history export")
	}
}
