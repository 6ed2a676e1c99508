package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	config "github.com/NordCoder/Pingwatch/internal/config/watchbot"
	"github.com/NordCoder/Pingwatch/internal/obs"
	"github.com/NordCoder/Pingwatch/internal/services/monitor"
	"github.com/NordCoder/Pingwatch/internal/services/registry"
	"github.com/NordCoder/Pingwatch/internal/transport/telegram"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.StringP("config", "c", "config/watchbot.yaml", "path to the YAML config file")
	pflag.Parse()

	// init
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	l.Info("starting pingwatch",
		zap.String("db_driver", cfg.DB.Driver),
		zap.Strings("channels", cfg.Notifier.Channels),
		zap.Duration("interval", cfg.Monitor.Interval),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
	)

	// otel
	otelCloser, err := obs.SetupOTel(ctx, cfg.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// store
	st, err := initStore(ctx, cfg, l)
	if err != nil {
		l.Fatal("store init", zap.Error(err))
	}
	defer st.close()

	// registry + command transport
	reg := registry.New(st.repo, l)
	var bot *telegram.Bot
	if cfg.Telegram.Enable || cfg.HasChannel(config.ChannelTelegram) {
		bot, err = telegram.New(telegram.Config{
			Token:       cfg.Telegram.Token,
			PollTimeout: cfg.Telegram.PollTimeout,
		}, reg, l)
		if err != nil {
			l.Fatal("telegram init", zap.Error(err))
		}
	}

	// notifier
	fan, closeNotifier, err := initNotifier(ctx, cfg, bot, l)
	if err != nil {
		l.Fatal("notifier init", zap.Error(err))
	}
	defer closeNotifier()

	// monitor
	prober := monitor.NewHTTPProber(monitor.NewHTTPClient(monitor.HTTPConfig{
		DialTimeout:     cfg.Monitor.ProbeTimeout,
		FollowRedirects: cfg.Monitor.FollowRedirects,
		VerifyTLS:       cfg.Monitor.VerifyTLS,
	}), cfg.Monitor.UserAgent)
	uc := monitor.NewUC(st.repo, prober, fan, cfg.Monitor.ProbeTimeout, cfg.Monitor.Concurrency, l)
	runner := monitor.NewRunner(l, uc, cfg.Monitor.Interval, prometheus.DefaultRegisterer)

	// run metrics server
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, prometheus.DefaultGatherer, st.ping, l)

	// run
	errCh := make(chan error, 2)
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		errCh <- runner.Run(ctx)
	}()
	if cfg.Telegram.Enable {
		go func() { errCh <- bot.Run(ctx) }()
	}

	l.Info("pingwatch started")

	// loop
	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("component error", zap.Error(err))
		}
		stop()
	}

	// graceful shutdown
	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	select {
	case <-monitorDone:
	case <-shCtx.Done():
		l.Warn("monitor cycle still running at shutdown deadline")
	}
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
