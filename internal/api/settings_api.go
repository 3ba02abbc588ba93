package api

import (
	"encoding/json"
	"net/http"

	"teachtime/internal/metrics"
	"teachtime/internal/models"
)

// UpdateSettingsRequest is the request body for POST /api/settings. Pointer
// fields distinguish "leave unchanged" from explicit values.
type UpdateSettingsRequest struct {
	EmailEnabled *bool   `json:"email_enabled,omitempty"`
	SMSEnabled   *bool   `json:"sms_enabled,omitempty"`
	PushEnabled  *bool   `json:"push_enabled,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	DeviceToken  *string `json:"device_token,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"` // Format: HH:MM
}

// handleSettings reads or updates notification preferences.
// GET /api/settings, POST /api/settings
func (s *HTTPServer) handleSettings(w http.ResponseWriter, r *http.Request, user models.User) {
	metrics.IncHTTP("settings")
	switch r.Method {
	case http.MethodGet:
		prefs, err := s.store.GetOrCreatePreferences(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load settings")
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	case http.MethodPost:
		var req UpdateSettingsRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		prefs, err := s.store.GetOrCreatePreferences(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load settings")
			return
		}

		if req.EmailEnabled != nil {
			prefs.EmailEnabled = *req.EmailEnabled
		}
		if req.SMSEnabled != nil {
			prefs.SMSEnabled = *req.SMSEnabled
		}
		if req.PushEnabled != nil {
			prefs.PushEnabled = *req.PushEnabled
		}
		if req.PhoneNumber != nil {
			prefs.PhoneNumber = *req.PhoneNumber
		}
		if req.DeviceToken != nil {
			prefs.DeviceToken = *req.DeviceToken
		}
		if req.ReminderTime != nil {
			parsed, err := models.ParseReminderTime(*req.ReminderTime)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid reminder_time; expected HH:MM")
				return
			}
			prefs.ReminderTime = parsed
		}

		if err := s.store.UpdatePreferences(r.Context(), prefs); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update settings")
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// UpdateBufferRequest is the request body for POST /api/buffer.
type UpdateBufferRequest struct {
	BufferTime float64 `json:"buffer_time"`
}

// handleBuffer updates the buffer_time scheduling-assist value.
// POST /api/buffer
func (s *HTTPServer) handleBuffer(w http.ResponseWriter, r *http.Request, user models.User) {
	metrics.IncHTTP("buffer")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req UpdateBufferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.BufferTime < 0 {
		writeError(w, http.StatusBadRequest, "buffer_time must be non-negative")
		return
	}

	if err := s.store.UpdateBufferTime(r.Context(), user.ID, req.BufferTime); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update buffer time")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"buffer_time": req.BufferTime})
}
