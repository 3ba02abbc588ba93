package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"teachtime/internal/models"
)

// SendNowResult reports the outcome of an on-demand reminder.
type SendNowResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	TaskCount int    `json:"task_count"`
}

// OnDemandService sends a single-user, single-channel reminder
// synchronously, outside the scheduled batch. It shares the composer,
// clients and audit log with the dispatcher but bypasses the due-user
// selector.
type OnDemandService struct {
	siteURL string
	tasks   TaskStore
	prefs   PreferenceStore
	logs    LogStore
	clients map[models.Channel]Client
	metrics *Metrics
	logger  *zerolog.Logger
	now     func() time.Time
}

// NewOnDemandService creates the interactive reminder service. metrics may
// be nil.
func NewOnDemandService(
	siteURL string,
	tasks TaskStore,
	prefs PreferenceStore,
	logs LogStore,
	clients map[models.Channel]Client,
	metrics *Metrics,
	logger *zerolog.Logger,
) *OnDemandService {
	return &OnDemandService{
		siteURL: siteURL,
		tasks:   tasks,
		prefs:   prefs,
		logs:    logs,
		clients: clients,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// SendNow dispatches one reminder for the user over the named channel and
// writes exactly one audit record. An unknown channel name is rejected
// before any dispatch attempt or log write. The returned error is non-nil
// only for rejected requests; a failed provider call is reported through
// SendNowResult with Success=false.
func (s *OnDemandService) SendNow(ctx context.Context, user models.User, channelName string) (*SendNowResult, error) {
	channel, err := models.ParseChannel(channelName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channelName)
	}

	prefs, err := s.prefs.GetOrCreatePreferences(ctx, user.ID)
	if err != nil {
		return s.fail(ctx, user, channel, 0, fmt.Errorf("load preferences: %w", err)), nil
	}

	tasks, err := s.tasks.ListTasksDueOn(ctx, user.ID, s.now())
	if err != nil {
		return s.fail(ctx, user, channel, 0, fmt.Errorf("list tasks: %w", err)), nil
	}

	msg, err := Compose(user, tasks, s.siteURL)
	if err != nil {
		return s.fail(ctx, user, channel, len(tasks), fmt.Errorf("compose: %w", err)), nil
	}

	client, ok := s.clients[channel]
	if !ok {
		return s.fail(ctx, user, channel, len(tasks), fmt.Errorf("no client configured for channel %s", channel)), nil
	}

	if err := client.Send(ctx, user, *prefs, msg); err != nil {
		return s.fail(ctx, user, channel, len(tasks), err), nil
	}

	s.appendLog(ctx, user.ID, channel, true, "")
	if s.metrics != nil {
		s.metrics.IncSent(channel, "sent")
	}
	return &SendNowResult{
		Success:   true,
		Message:   fmt.Sprintf("%s reminder sent", channel),
		TaskCount: len(tasks),
	}, nil
}

func (s *OnDemandService) fail(ctx context.Context, user models.User, channel models.Channel, taskCount int, cause error) *SendNowResult {
	s.appendLog(ctx, user.ID, channel, false, cause.Error())
	if s.metrics != nil {
		s.metrics.IncSent(channel, "failed")
	}
	if s.logger != nil {
		s.logger.Error().Err(cause).
			Str("user", user.Username).
			Str("channel", string(channel)).
			Msg("on-demand reminder failed")
	}
	return &SendNowResult{
		Success:   false,
		Message:   cause.Error(),
		TaskCount: taskCount,
	}
}

func (s *OnDemandService) appendLog(ctx context.Context, userID int64, ch models.Channel, success bool, errMsg string) {
	entry := &models.ReminderLog{
		UserID:       userID,
		Channel:      ch,
		Success:      success,
		ErrorMessage: errMsg,
		SentAt:       time.Now(),
	}
	if err := s.logs.AppendReminderLog(ctx, entry); err != nil && s.logger != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to append reminder log")
	}
}
