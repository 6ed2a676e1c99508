package main

import (
	"context"
	"time"

	config "github.com/NordCoder/Pingwatch/internal/config/watchbot"
	"github.com/NordCoder/Pingwatch/internal/domain/notification"
	"github.com/NordCoder/Pingwatch/internal/obs/retry"
	kafkaRepo "github.com/NordCoder/Pingwatch/internal/repository/kafka"
	"github.com/NordCoder/Pingwatch/internal/services/notifier"
	"github.com/NordCoder/Pingwatch/internal/transport/telegram"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// initNotifier assembles the configured channels behind one fan-out. The
// returned closer releases channel resources.
func initNotifier(ctx context.Context, cfg *config.Config, bot *telegram.Bot, l *zap.Logger) (*notifier.FanOut, func(), error) {
	var channels []notification.Channel
	closers := []func(){}

	for _, name := range cfg.Notifier.Channels {
		var ch notification.Channel
		switch name {
		case config.ChannelTelegram:
			ch = bot.Notifier()
		case config.ChannelSMTP:
			ch = notifier.NewMailer(notifier.SMTPConfig{
				Addr:       cfg.SMTP.Addr,
				From:       cfg.SMTP.From,
				User:       cfg.SMTP.User,
				Password:   cfg.SMTP.Password,
				UseTLS:     cfg.SMTP.UseTLS,
				Timeout:    cfg.SMTP.Timeout,
				SubjPrefix: cfg.SMTP.SubjPrefix,
			}).WithLogger(l)
		case config.ChannelKafka:
			err := retry.Do(ctx, func() error {
				return kafkaRepo.EnsureTopic(ctx, cfg.Kafka.Brokers, kafkaRepo.TopicSpec{
					Name:              cfg.Kafka.Topic,
					NumPartitions:     cfg.Kafka.Partitions,
					ReplicationFactor: cfg.Kafka.ReplicationFactor,
					MaxWait:           5 * time.Second,
				}, l)
			}, retry.DefaultBootstrapPolicy("kafka-topic", l))
			if err != nil {
				for _, c := range closers {
					c()
				}
				return nil, nil, err
			}
			prod := kafkaRepo.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(l)
			closers = append(closers, func() { _ = prod.Close() })
			ch = kafkaRepo.NewAlertEvents(prod, nil)
		case config.ChannelLog:
			ch = notifier.NewLogChannel(l)
		}
		channels = append(channels, notifier.NewRateLimited(ch, cfg.Notifier.RatePerSec))
		l.Info("notifier channel enabled", zap.String("channel", name))
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return notifier.NewFanOut(l, prometheus.DefaultRegisterer, channels...), closeAll, nil
}
