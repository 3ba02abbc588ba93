package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachtime/internal/models"
)

func TestPushClientSend(t *testing.T) {
	var gotAuth string
	var gotPayload pushRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewPushClient(PushConfig{
		BaseURL:   srv.URL,
		ServerKey: "server-key-1",
		SiteURL:   testSiteURL,
	}, nil)

	user := models.User{ID: 1, Username: "alice"}
	prefs := models.NotificationPreferences{DeviceToken: "device-token-1"}
	msg := &Message{
		PushTitle:    "Task Reminder (3 pending)",
		PushBody:     "You have 3 tasks waiting for you.",
		PendingCount: 3,
	}

	err := client.Send(context.Background(), user, prefs, msg)

	require.NoError(t, err)
	assert.Equal(t, "key=server-key-1", gotAuth)
	assert.Equal(t, "device-token-1", gotPayload.To)
	assert.Equal(t, "Task Reminder (3 pending)", gotPayload.Notification.Title)
	assert.Equal(t, "/static/icon-192x192.png", gotPayload.Notification.Icon)
	assert.Equal(t, testSiteURL, gotPayload.Notification.ClickAction)
	assert.Equal(t, testSiteURL, gotPayload.Data.URL)
	assert.Equal(t, "3", gotPayload.Data.TaskCount)
}

func TestPushClientGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("InvalidServerKey"))
	}))
	defer srv.Close()

	client := NewPushClient(PushConfig{BaseURL: srv.URL, ServerKey: "bad"}, nil)
	prefs := models.NotificationPreferences{DeviceToken: "device-token-1"}

	err := client.Send(context.Background(), models.User{Username: "alice"}, prefs, &Message{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "InvalidServerKey")
}

func TestPushClientMissingDeviceToken(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewPushClient(PushConfig{BaseURL: srv.URL}, nil)

	err := client.Send(context.Background(), models.User{Username: "alice"},
		models.NotificationPreferences{}, &Message{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDeviceToken)
	assert.False(t, called, "precondition failures must not reach the gateway")
}
