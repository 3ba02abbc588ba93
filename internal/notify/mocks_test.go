package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"teachtime/internal/models"
)

// MockStore implements TaskStore, PreferenceStore and LogStore for testing.
type MockStore struct {
	mu    sync.Mutex
	users []models.User
	prefs map[int64]models.NotificationPreferences
	tasks map[int64][]models.Task
	logs  []models.ReminderLog

	listUsersErr error
	listTasksErr map[int64]error
	appendLogErr error
}

func NewMockStore() *MockStore {
	return &MockStore{
		prefs:        make(map[int64]models.NotificationPreferences),
		tasks:        make(map[int64][]models.Task),
		listTasksErr: make(map[int64]error),
	}
}

func (m *MockStore) AddUser(u models.User, p models.NotificationPreferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, u)
	p.UserID = u.ID
	m.prefs[u.ID] = p
}

func (m *MockStore) AddTask(userID int64, t models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.UserID = userID
	m.tasks[userID] = append(m.tasks[userID], t)
}

func (m *MockStore) ListTasksDueOn(_ context.Context, userID int64, _ time.Time) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.listTasksErr[userID]; err != nil {
		return nil, err
	}
	return m.tasks[userID], nil
}

func (m *MockStore) GetOrCreatePreferences(_ context.Context, userID int64) (*models.NotificationPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.prefs[userID]; ok {
		return &p, nil
	}
	// Default preferences, matching the repository contract.
	p := models.NotificationPreferences{
		UserID:       userID,
		EmailEnabled: true,
		PushEnabled:  true,
		ReminderTime: models.ReminderTime{Hour: 8, Minute: 0},
		BufferTime:   2.0,
	}
	m.prefs[userID] = p
	return &p, nil
}

func (m *MockStore) ListUsersWithPreferences(_ context.Context) ([]models.User, []models.NotificationPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listUsersErr != nil {
		return nil, nil, m.listUsersErr
	}
	prefs := make([]models.NotificationPreferences, 0, len(m.users))
	for _, u := range m.users {
		prefs = append(prefs, m.prefs[u.ID])
	}
	return m.users, prefs, nil
}

func (m *MockStore) AppendReminderLog(_ context.Context, entry *models.ReminderLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendLogErr != nil {
		return m.appendLogErr
	}
	entry.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *MockStore) Logs() []models.ReminderLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ReminderLog, len(m.logs))
	copy(out, m.logs)
	return out
}

func (m *MockStore) LogsFor(userID int64, ch models.Channel) []models.ReminderLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReminderLog
	for _, l := range m.logs {
		if l.UserID == userID && l.Channel == ch {
			out = append(out, l)
		}
	}
	return out
}

// MockClient implements Client for testing.
type MockClient struct {
	mu    sync.Mutex
	err   error
	panic bool
	calls []*Message
}

var errProviderDown = errors.New("provider returned 500")

func (c *MockClient) Send(_ context.Context, _ models.User, _ models.NotificationPreferences, msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.panic {
		panic("client exploded")
	}
	c.calls = append(c.calls, msg)
	return c.err
}

func (c *MockClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *MockClient) LastMessage() *Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return nil
	}
	return c.calls[len(c.calls)-1]
}
