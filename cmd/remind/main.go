// Command remind is the scheduled reminder job. Run from cron it executes a
// single batch; with --daemon it keeps a check loop running and
// deduplicates so each user gets at most one scheduled reminder per day.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"teachtime/internal/config"
	"teachtime/internal/database"
	"teachtime/internal/models"
	"teachtime/internal/notify"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	configPath := flag.String("config", os.Getenv("TEACHTIME_CONFIG_PATH"), "path to config file")
	username := flag.String("user", "", "send reminder to specific user (username)")
	channelName := flag.String("type", "all", "type of reminder to send: email, sms, push or all")
	daemon := flag.Bool("daemon", false, "keep running and check the window periodically")
	flag.Parse()

	var channel models.Channel
	if *channelName != "" && *channelName != "all" {
		parsed, err := models.ParseChannel(*channelName)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid --type")
		}
		channel = parsed
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load timezone")
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var m *notify.Metrics
	if cfg.Monitoring.PrometheusEnabled {
		m = notify.NewMetrics("teachtime")
	}

	dispatcher := notify.NewDispatcher(
		notify.DispatcherConfig{
			SiteURL:          cfg.SiteURL,
			ToleranceMinutes: cfg.Reminders.ToleranceMinutes,
			RatePerSecond:    cfg.Reminders.RatePerSecond,
			RateBurst:        cfg.Reminders.RateBurst,
		},
		db, db, db,
		buildClients(cfg, &logger),
		m,
		&logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*daemon {
		result := dispatcher.RunAt(ctx, notify.RunOptions{
			Username: *username,
			Channel:  channel,
		}, time.Now().In(loc))
		if result.Err != nil {
			logger.Fatal().Err(result.Err).Msg("reminder run failed")
		}
		fmt.Printf("Successfully sent %d reminders\n", result.Sent)
		return
	}

	var dedupe notify.Deduper
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		dedupe = notify.NewRedisDeduper(rdb, 0)
		logger.Info().Str("address", cfg.Redis.Address).Msg("using redis dedupe store")
	}

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	scheduler := notify.NewScheduler(notify.SchedulerConfig{
		CheckInterval: cfg.CheckInterval(),
		Location:      loc,
		Channel:       channel,
	}, dispatcher, dedupe, &logger)

	scheduler.Start(ctx)
	<-ctx.Done()
	scheduler.Stop()
}

func buildClients(cfg *config.Config, logger *zerolog.Logger) map[models.Channel]notify.Client {
	return map[models.Channel]notify.Client{
		models.ChannelEmail: notify.NewEmailClient(notify.EmailConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}, logger),
		models.ChannelSMS: notify.NewSMSClient(notify.SMSConfig{
			BaseURL:    cfg.SMS.BaseURL,
			AccountSID: cfg.SMS.AccountSID,
			AuthToken:  cfg.SMS.AuthToken,
			FromNumber: cfg.SMS.FromNumber,
			Timeout:    cfg.SendTimeout(),
		}, logger),
		models.ChannelPush: notify.NewPushClient(notify.PushConfig{
			BaseURL:   cfg.Push.BaseURL,
			ServerKey: cfg.Push.ServerKey,
			SiteURL:   cfg.SiteURL,
			Timeout:   cfg.SendTimeout(),
		}, logger),
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
