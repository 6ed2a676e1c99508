package watchbot_config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ErrUnknownDriver  = ErrConfig("db.driver must be postgres or sqlite")
	ErrNoDSN          = ErrConfig("db.postgres.dsn is required for the postgres driver")
	ErrNoSQLitePath   = ErrConfig("db.sqlite.path is required for the sqlite driver")
	ErrBadInterval    = ErrConfig("monitor.interval must be positive")
	ErrBadTimeout     = ErrConfig("monitor.probe_timeout must be positive")
	ErrBadConcurrency = ErrConfig("monitor.concurrency must be positive")
	ErrNoToken        = ErrConfig("telegram.token is required when telegram is used")
	ErrNoBrokers      = ErrConfig("kafka.brokers is required for the kafka channel")
	ErrNoChannels     = ErrConfig("notifier.channels must name at least one channel")
)

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	v.SetDefault("app.name", "pingwatch")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.version", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "pingwatch")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.postgres.dsn", "")
	v.SetDefault("db.postgres.max_conns", 10)
	v.SetDefault("db.postgres.min_conns", 2)
	v.SetDefault("db.postgres.max_conn_lifetime", "30m")
	v.SetDefault("db.postgres.max_conn_idle_time", "10m")
	v.SetDefault("db.postgres.health_check_period", "30s")
	v.SetDefault("db.postgres.query_timeout", "2s")
	v.SetDefault("db.sqlite.path", "./data/pingwatch.db")
	v.SetDefault("db.sqlite.busy_timeout", "5s")
	v.SetDefault("db.sqlite.query_timeout", "2s")

	v.SetDefault("monitor.interval", "120s")
	v.SetDefault("monitor.probe_timeout", "10s")
	v.SetDefault("monitor.concurrency", 16)
	v.SetDefault("monitor.user_agent", "pingwatch/1.0")
	v.SetDefault("monitor.follow_redirects", true)
	v.SetDefault("monitor.verify_tls", true)

	v.SetDefault("telegram.enable", true)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout", "10s")

	v.SetDefault("notifier.channels", []string{ChannelTelegram})
	v.SetDefault("notifier.rate_per_sec", 20)

	v.SetDefault("smtp.addr", "localhost:1025")
	v.SetDefault("smtp.from", "noreply@pingwatch.dev")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.use_tls", false)
	v.SetDefault("smtp.timeout", "5s")
	v.SetDefault("smtp.subj_prefix", "[Pingwatch]")

	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", "pingwatch.alerts")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)

	v.SetDefault("server.metrics_addr", ":8081")
	v.SetDefault("server.graceful_timeout", "15s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.Postgres.DSN == "" {
			return ErrNoDSN
		}
	case DriverSQLite:
		if c.DB.SQLite.Path == "" {
			return ErrNoSQLitePath
		}
	default:
		return ErrUnknownDriver
	}

	if c.Monitor.Interval <= 0 {
		return ErrBadInterval
	}
	if c.Monitor.ProbeTimeout <= 0 {
		return ErrBadTimeout
	}
	if c.Monitor.Concurrency <= 0 {
		return ErrBadConcurrency
	}

	if len(c.Notifier.Channels) == 0 {
		return ErrNoChannels
	}
	for _, ch := range c.Notifier.Channels {
		switch ch {
		case ChannelTelegram, ChannelSMTP, ChannelLog:
		case ChannelKafka:
			if len(c.Kafka.Brokers) == 0 {
				return ErrNoBrokers
			}
		default:
			return fmt.Errorf("notifier.channels: unknown channel %q", ch)
		}
	}

	if (c.Telegram.Enable || c.HasChannel(ChannelTelegram)) && c.Telegram.Token == "" {
		return ErrNoToken
	}
	return nil
}
