package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"teachtime/internal/database"
	"teachtime/internal/metrics"
	"teachtime/internal/models"
)

// AddTaskRequest is the request body for POST /api/tasks.
type AddTaskRequest struct {
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
	DueDate  string `json:"due_date,omitempty"` // Format: YYYY-MM-DD, default today
}

// handleTasks lists or creates tasks.
// GET /api/tasks, POST /api/tasks
func (s *HTTPServer) handleTasks(w http.ResponseWriter, r *http.Request, user models.User) {
	metrics.IncHTTP("tasks")
	switch r.Method {
	case http.MethodGet:
		tasks, err := s.store.ListTasks(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list tasks")
			return
		}
		if tasks == nil {
			tasks = []models.Task{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})

	case http.MethodPost:
		var req AddTaskRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		if req.Priority == "" {
			req.Priority = models.PriorityMedium
		}
		if req.Category == "" {
			req.Category = models.CategoryPersonal
		}
		if !models.ValidPriority(req.Priority) {
			writeError(w, http.StatusBadRequest, "invalid priority")
			return
		}
		if !models.ValidCategory(req.Category) {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}

		due := time.Now()
		if req.DueDate != "" {
			var err error
			due, err = time.Parse("2006-01-02", req.DueDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid due_date; expected YYYY-MM-DD")
				return
			}
		}

		task := &models.Task{
			UserID:   user.ID,
			Text:     req.Text,
			Priority: req.Priority,
			Category: req.Category,
			DueDate:  due,
		}
		if err := s.store.CreateTask(r.Context(), task); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create task")
			return
		}
		metrics.IncTaskCreated()
		writeJSON(w, http.StatusCreated, task)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTaskByID toggles or deletes a single task.
// POST /api/tasks/{id}/toggle, DELETE /api/tasks/{id}
func (s *HTTPServer) handleTaskByID(w http.ResponseWriter, r *http.Request, user models.User) {
	metrics.IncHTTP("task_by_id")

	rest := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	idStr, action, _ := strings.Cut(rest, "/")
	taskID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	switch {
	case r.Method == http.MethodPost && action == "toggle":
		completed, err := s.store.ToggleTask(r.Context(), user.ID, taskID)
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to toggle task")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"completed": completed})

	case r.Method == http.MethodDelete && action == "":
		err := s.store.DeleteTask(r.Context(), user.ID, taskID)
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to delete task")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
