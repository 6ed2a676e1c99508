package watchbot_config

import (
	"time"

	"github.com/NordCoder/Pingwatch/internal/obs"
	pg "github.com/NordCoder/Pingwatch/internal/repository/postgres"
	"github.com/NordCoder/Pingwatch/internal/repository/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	ChannelTelegram = "telegram"
	ChannelSMTP     = "smtp"
	ChannelKafka    = "kafka"
	ChannelLog      = "log"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type DB struct {
	Driver      string        `mapstructure:"driver"`
	AutoMigrate bool          `mapstructure:"auto_migrate"`
	Postgres    pg.Config     `mapstructure:"postgres"`
	SQLite      sqlite.Config `mapstructure:"sqlite"`
}

type Monitor struct {
	Interval        time.Duration `mapstructure:"interval"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
	Concurrency     int           `mapstructure:"concurrency"`
	UserAgent       string        `mapstructure:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	VerifyTLS       bool          `mapstructure:"verify_tls"`
}

type Telegram struct {
	Enable      bool          `mapstructure:"enable"`
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

type Notifier struct {
	Channels   []string `mapstructure:"channels"`
	RatePerSec int      `mapstructure:"rate_per_sec"`
}

type SMTP struct {
	Addr       string        `mapstructure:"addr"`
	From       string        `mapstructure:"from"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	UseTLS     bool          `mapstructure:"use_tls"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SubjPrefix string        `mapstructure:"subj_prefix"`
}

type Kafka struct {
	Brokers           []string `mapstructure:"brokers"`
	Topic             string   `mapstructure:"topic"`
	Partitions        int      `mapstructure:"partitions"`
	ReplicationFactor int      `mapstructure:"replication_factor"`
}

type Server struct {
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

type Config struct {
	App      App      `mapstructure:"app"`
	Log      Log      `mapstructure:"log"`
	OTEL     OTEL     `mapstructure:"otel"`
	DB       DB       `mapstructure:"db"`
	Monitor  Monitor  `mapstructure:"monitor"`
	Telegram Telegram `mapstructure:"telegram"`
	Notifier Notifier `mapstructure:"notifier"`
	SMTP     SMTP     `mapstructure:"smtp"`
	Kafka    Kafka    `mapstructure:"kafka"`
	Server   Server   `mapstructure:"server"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

func (c *Config) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      c.OTEL.Enable,
		Endpoint:    c.OTEL.OTLPEndpoint,
		ServiceName: c.OTEL.ServiceName,
		SampleRatio: c.OTEL.SampleRatio,
	}
}

// HasChannel reports whether the named notifier channel is enabled.
func (c *Config) HasChannel(name string) bool {
	for _, ch := range c.Notifier.Channels {
		if ch == name {
			return true
		}
	}
	return false
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
