package config

import (
	"bytes"
	_ "embed"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	MySQL     DatabaseConfig  `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr      string `mapstructure:"addr"`
	PublicURL string `mapstructure:"public_url"` // base of the QR registration link
	// CIDRs allowed to set X-Forwarded-For; empty means the peer address is the client IP
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	Topic          string   `mapstructure:"topic"`
	GroupID        string   `mapstructure:"group_id"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
}

type AuthConfig struct {
	Password   string        `mapstructure:"password"`
	SessionTTL time.Duration `mapstructure:"session_ttl"` // 0 = no expiry
	CookieName string        `mapstructure:"cookie_name"`
}

type DispatchConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Source     string        `mapstructure:"source"`
	Timeout    time.Duration `mapstructure:"timeout"` // 0 = http.Client default
}

// Notify modes.
const (
	NotifyModeDirect = "direct"
	NotifyModeKafka  = "kafka"
	NotifyModeOff    = "off"
)

type NotifyConfig struct {
	Mode       string        `mapstructure:"mode"`
	WebhookURL string        `mapstructure:"webhook_url"` // fallback when no URL was saved through settings
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"` // public registration, per client IP; 0 disables
}

// Load reads embedded defaults, merges user YAML (if provided), loads an optional .env
// and applies env overrides (BARBER_*, dots replaced by underscores).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// local dev convenience; missing file is fine
	_ = godotenv.Load()

	// env override (BARBER_*)
	v.SetEnvPrefix("BARBER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
