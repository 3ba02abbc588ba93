package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"teachtime/internal/models"
)

// DispatcherConfig holds tuning for a batch reminder run.
type DispatcherConfig struct {
	// SiteURL is the dashboard link embedded in messages.
	SiteURL string
	// ToleranceMinutes is the due-user selector window. Default: 5.
	ToleranceMinutes int
	// RatePerSecond and RateBurst bound outbound provider calls.
	RatePerSecond float64
	RateBurst     int
}

// DefaultDispatcherConfig returns sensible defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		ToleranceMinutes: DefaultToleranceMinutes,
		RatePerSecond:    10,
		RateBurst:        20,
	}
}

// Dispatcher orchestrates scheduled reminder runs: selects due users,
// composes messages, invokes the enabled channel clients and records every
// attempt in the audit log. Failures never propagate past the per-user
// boundary; a run always finishes.
type Dispatcher struct {
	config  DispatcherConfig
	tasks   TaskStore
	prefs   PreferenceStore
	logs    LogStore
	clients map[models.Channel]Client
	limiter *rate.Limiter
	metrics *Metrics
	logger  *zerolog.Logger
	now     func() time.Time
}

// NewDispatcher creates a dispatcher. metrics may be nil.
func NewDispatcher(
	config DispatcherConfig,
	tasks TaskStore,
	prefs PreferenceStore,
	logs LogStore,
	clients map[models.Channel]Client,
	metrics *Metrics,
	logger *zerolog.Logger,
) *Dispatcher {
	if config.ToleranceMinutes <= 0 {
		config.ToleranceMinutes = DefaultToleranceMinutes
	}
	if config.RatePerSecond <= 0 {
		config.RatePerSecond = 10
	}
	if config.RateBurst <= 0 {
		config.RateBurst = 20
	}

	return &Dispatcher{
		config:  config,
		tasks:   tasks,
		prefs:   prefs,
		logs:    logs,
		clients: clients,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), config.RateBurst),
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// RunOptions narrows a scheduled run.
type RunOptions struct {
	// Username restricts the run to one user. The due-time window still
	// applies; this is a filter, not a bypass.
	Username string
	// Channel restricts the run to one channel; empty means all three.
	Channel models.Channel
	// Dedupe, when set, skips users already reminded today. The daemon
	// scheduler sets it; one-shot cron runs leave it nil.
	Dedupe Deduper
}

// UserResult is the outcome of processing one due user.
type UserResult struct {
	User      models.User
	Attempted int
	Sent      int
	Err       error
}

// BatchResult summarizes one scheduled run.
type BatchResult struct {
	RunID string
	Sent  int
	Users []UserResult
	Err   error
}

// Run executes one scheduled reminder batch at the current time.
func (d *Dispatcher) Run(ctx context.Context, opts RunOptions) BatchResult {
	return d.RunAt(ctx, opts, d.now())
}

// RunAt executes one scheduled reminder batch as of the given time. now must
// already be in the timezone reminder times are configured in.
func (d *Dispatcher) RunAt(ctx context.Context, opts RunOptions, now time.Time) BatchResult {
	result := BatchResult{RunID: uuid.NewString()}

	users, prefs, err := d.prefs.ListUsersWithPreferences(ctx)
	if err != nil {
		result.Err = fmt.Errorf("list users: %w", err)
		if d.logger != nil {
			d.logger.Error().Err(err).Str("run_id", result.RunID).Msg("reminder run aborted")
		}
		return result
	}

	start := now
	for i, user := range users {
		if i >= len(prefs) {
			break
		}
		if opts.Username != "" && user.Username != opts.Username {
			continue
		}
		if !ReminderDue(prefs[i].ReminderTime, now, d.config.ToleranceMinutes) {
			continue
		}
		if opts.Dedupe != nil {
			first, err := opts.Dedupe.TryMark(ctx, user.ID, now.Format("2006-01-02"))
			if err != nil {
				// Fail open: a broken dedupe store must not silence reminders.
				if d.logger != nil {
					d.logger.Error().Err(err).Str("user", user.Username).Msg("dedupe check failed")
				}
			} else if !first {
				continue
			}
		}

		ur := d.processUser(ctx, user, prefs[i], opts.Channel, now)
		result.Sent += ur.Sent
		result.Users = append(result.Users, ur)

		if ur.Err != nil && d.logger != nil {
			d.logger.Error().Err(ur.Err).
				Str("run_id", result.RunID).
				Str("user", user.Username).
				Msg("failed to process user reminders")
		}
	}

	if d.metrics != nil {
		d.metrics.ObserveRunDuration(time.Since(start).Seconds())
		d.metrics.SetDueUsers(len(result.Users))
	}
	if d.logger != nil {
		d.logger.Info().
			Str("run_id", result.RunID).
			Int("due_users", len(result.Users)).
			Int("sent", result.Sent).
			Msg("reminder run finished")
	}
	return result
}

// processUser handles one due user: loads today's tasks, fans out to the
// enabled and selected channels, and records one audit entry per attempt.
// Panics and repository errors are captured, turned into failed audit
// entries, and never abort the batch.
func (d *Dispatcher) processUser(ctx context.Context, user models.User, prefs models.NotificationPreferences, filter models.Channel, now time.Time) (res UserResult) {
	res.User = user

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic: %v", r)
			d.logFailureForSelected(ctx, user, prefs, filter, res.Err)
		}
	}()

	tasks, err := d.tasks.ListTasksDueOn(ctx, user.ID, now)
	if err != nil {
		res.Err = fmt.Errorf("list tasks: %w", err)
		d.logFailureForSelected(ctx, user, prefs, filter, res.Err)
		return res
	}

	// No tasks due today means no reminder and no audit entries.
	if len(tasks) == 0 {
		return res
	}

	msg, err := Compose(user, tasks, d.config.SiteURL)
	if err != nil {
		res.Err = fmt.Errorf("compose: %w", err)
		d.logFailureForSelected(ctx, user, prefs, filter, res.Err)
		return res
	}

	for _, ch := range selectedChannels(prefs, filter) {
		if d.dispatchOne(ctx, user, prefs, ch, msg) {
			res.Sent++
		}
		res.Attempted++
	}
	return res
}

// dispatchOne sends over a single channel and writes exactly one audit
// record. Returns true when the send succeeded.
func (d *Dispatcher) dispatchOne(ctx context.Context, user models.User, prefs models.NotificationPreferences, ch models.Channel, msg *Message) bool {
	client, ok := d.clients[ch]
	if !ok {
		d.appendLog(ctx, user.ID, ch, false, fmt.Sprintf("no client configured for channel %s", ch))
		return false
	}

	if err := d.limiter.Wait(ctx); err != nil {
		d.appendLog(ctx, user.ID, ch, false, fmt.Sprintf("rate limiter: %v", err))
		return false
	}

	start := time.Now()
	err := client.Send(ctx, user, prefs, msg)
	if d.metrics != nil {
		d.metrics.ObserveSendDuration(ch, time.Since(start).Seconds())
	}

	if err != nil {
		d.appendLog(ctx, user.ID, ch, false, err.Error())
		if d.metrics != nil {
			d.metrics.IncSent(ch, "failed")
		}
		return false
	}

	d.appendLog(ctx, user.ID, ch, true, "")
	if d.metrics != nil {
		d.metrics.IncSent(ch, "sent")
	}
	return true
}

// logFailureForSelected records a failed attempt for every channel that was
// both enabled and selected, attributing a per-user failure to the channels
// the run actually asked for.
func (d *Dispatcher) logFailureForSelected(ctx context.Context, user models.User, prefs models.NotificationPreferences, filter models.Channel, cause error) {
	for _, ch := range selectedChannels(prefs, filter) {
		d.appendLog(ctx, user.ID, ch, false, cause.Error())
	}
}

func (d *Dispatcher) appendLog(ctx context.Context, userID int64, ch models.Channel, success bool, errMsg string) {
	entry := &models.ReminderLog{
		UserID:       userID,
		Channel:      ch,
		Success:      success,
		ErrorMessage: errMsg,
		SentAt:       time.Now(),
	}
	if err := d.logs.AppendReminderLog(ctx, entry); err != nil && d.logger != nil {
		d.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("channel", string(ch)).
			Msg("failed to append reminder log")
	}
}

// selectedChannels returns the channels enabled in prefs and matching the
// run's channel filter, in stable dispatch order.
func selectedChannels(prefs models.NotificationPreferences, filter models.Channel) []models.Channel {
	var out []models.Channel
	for _, ch := range models.Channels {
		if filter != "" && ch != filter {
			continue
		}
		if !prefs.ChannelEnabled(ch) {
			continue
		}
		out = append(out, ch)
	}
	return out
}
