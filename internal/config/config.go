package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Trace       TraceConfig       `mapstructure:"trace"`
	Upload      UploadConfig      `mapstructure:"upload"`
	Forwarder   ForwarderConfig   `mapstructure:"forwarder"`
	DB          DBConfig          `mapstructure:"db"`
	ReportCache ReportCacheConfig `mapstructure:"report_cache"`
	Cron        CronConfig        `mapstructure:"cron"`
	Audit       AuditConfig       `mapstructure:"audit"`
}

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Name string `mapstructure:"name"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type TraceConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Pretty      bool   `mapstructure:"pretty"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Forwarder sinks.
const (
	SinkHTTP     = "http"
	SinkPostgres = "postgres"
	SinkNone     = "none"
)

type ForwarderConfig struct {
	Sink    string        `mapstructure:"sink"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"api_key"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// Report cache backends.
const (
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CacheDisabled = "none"
)

type ReportCacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

type CronConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	CacheSweep string `mapstructure:"cache_sweep"`
}

type AuditConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Agent   string `mapstructure:"agent"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.name", "tradejournal")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.service_name", "tradejournal")
	v.SetDefault("trace.pretty", false)
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("forwarder.sink", SinkHTTP)
	v.SetDefault("forwarder.url", "")
	v.SetDefault("forwarder.timeout", "15s")
	v.SetDefault("forwarder.api_key", "")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("report_cache.backend", CacheMemory)
	v.SetDefault("report_cache.ttl", "1h")
	v.SetDefault("report_cache.key_prefix", "tj:report:")
	v.SetDefault("report_cache.redis_addr", "localhost:6379")
	v.SetDefault("report_cache.redis_password", "")
	v.SetDefault("report_cache.redis_db", 0)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.cache_sweep", "@every 5m")
	v.SetDefault("audit.base_url", "")
	v.SetDefault("audit.api_key", "")
	v.SetDefault("audit.agent", "tradejournal-service")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Forwarder.Sink = strings.ToLower(strings.TrimSpace(cfg.Forwarder.Sink))
	cfg.ReportCache.Backend = strings.ToLower(strings.TrimSpace(cfg.ReportCache.Backend))

	return cfg, nil
}
