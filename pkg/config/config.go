package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	VariantIndicator = "indicator"
	VariantWindow    = "window"

	SinkNone       = "none"
	SinkSupabase   = "supabase"
	SinkPostgres   = "postgres"
	SinkClickHouse = "clickhouse"
	SinkKafka      = "kafka"
	SinkRedis      = "redis"

	BackendFile      = "file"
	BackendTFServing = "tfserving"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	// Variant selects the canonical contract served by this deployment.
	Variant string `yaml:"variant" default:"indicator" validate:"oneof=indicator window"`

	Server struct {
		Host                 string        `yaml:"host" default:"0.0.0.0"`
		Port                 int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout          time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout         time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout      time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS                 bool          `yaml:"cors" default:"true"`
		ExposeInternalErrors bool          `yaml:"expose_internal_errors"`
	} `yaml:"server"`

	Logging struct {
		Level     string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic"`
		Format    string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output    string `yaml:"output" default:"stdout"`
		Collector struct {
			Enabled   bool          `yaml:"enabled"`
			Interval  time.Duration `yaml:"interval" default:"30s"`
			Threshold int           `yaml:"threshold" default:"100"`
			Topic     string        `yaml:"topic" default:"signalapi.logs"`
		} `yaml:"collector"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Model struct {
		Backend      string        `yaml:"backend" default:"file" validate:"oneof=file tfserving"`
		Path         string        `yaml:"path" default:"models/ia_wdo_v1_ticks.json"`
		ServingURL   string        `yaml:"serving_url"`
		ServingModel string        `yaml:"serving_model" default:"ia_wdo_v1_ticks"`
		Timeout      time.Duration `yaml:"timeout" default:"5s" validate:"gt=0"`
		// Serialize forces one inference at a time for runtimes that are not goroutine safe.
		Serialize bool `yaml:"serialize"`
	} `yaml:"model"`

	Features struct {
		Columns    []string `yaml:"columns" default:"[\"RSI_14\",\"MACDh_12_26_9\",\"ADX_14\",\"CCI_14_0.015\",\"BBP_5_2.0\",\"BBL_5_2.0\",\"ATR_14\"]" validate:"min=1"`
		MinCandles int      `yaml:"min_candles" default:"15" validate:"gte=1"`
		TimeStep   int      `yaml:"time_step" default:"300" validate:"gte=2"`
	} `yaml:"features"`

	Signal struct {
		BuyThreshold  float64 `yaml:"buy_threshold" default:"0.6" validate:"gte=0,lte=1"`
		SellThreshold float64 `yaml:"sell_threshold" default:"0.4" validate:"gte=0,lte=1"`
	} `yaml:"signal"`

	Audit struct {
		Sink    string        `yaml:"sink" validate:"omitempty,oneof=none supabase postgres clickhouse kafka redis"`
		Table   string        `yaml:"table"`
		Timeout time.Duration `yaml:"timeout" default:"3s" validate:"gt=0"`

		Supabase struct {
			URL string `yaml:"url"`
			Key string `yaml:"key"`
		} `yaml:"supabase"`
		Postgres struct {
			DSN string `yaml:"dsn"`
		} `yaml:"postgres"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Stream   string `yaml:"stream"`
		} `yaml:"redis"`
	} `yaml:"audit"`

	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"signalapi"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		WaitForAsync bool          `yaml:"wait_for_async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"clickhouse"`

	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"signalapi.audit"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
	} `yaml:"kafka"`
}

var validate = validator.New()

// Default returns a config populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	return c.finish()
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Derived values (sink, table, stream) are resolved after the overrides.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	return c.finish()
}

func load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func (c *Config) finish() (*Config, error) {
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// FromEnv builds a config without a file. Serverless deployments use this.
func FromEnv() (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	return c.finish()
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SIGNAL_VARIANT"); v != "" {
		c.Variant = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("MODEL_SERVING_URL"); v != "" {
		c.Model.Backend = BackendTFServing
		c.Model.ServingURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Audit.Supabase.URL = v
	}
	if v := os.Getenv("SUPABASE_KEY"); v != "" {
		c.Audit.Supabase.Key = v
	}
	if v := os.Getenv("AUDIT_SINK"); v != "" {
		c.Audit.Sink = v
	}
	if v := os.Getenv("AUDIT_TABLE"); v != "" {
		c.Audit.Table = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Audit.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Audit.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
}

// normalize fills values whose default depends on other settings.
func (c *Config) normalize() {
	if c.Audit.Sink == "" {
		c.Audit.Sink = SinkNone
		if c.Audit.Supabase.URL != "" && c.Audit.Supabase.Key != "" {
			c.Audit.Sink = SinkSupabase
		}
	}
	if c.Audit.Table == "" {
		c.Audit.Table = DefaultAuditTable(c.Variant)
	}
	if c.Audit.Redis.Stream == "" {
		c.Audit.Redis.Stream = "audit:" + c.Audit.Table
	}
}

// DefaultAuditTable returns the table each variant historically logged to.
func DefaultAuditTable(variant string) string {
	if variant == VariantWindow {
		return "sinais_wdo"
	}
	return "wdo_trade_logs"
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Variant == VariantWindow && c.Signal.SellThreshold > c.Signal.BuyThreshold {
		return fmt.Errorf("signal.sell_threshold (%v) must not exceed signal.buy_threshold (%v)",
			c.Signal.SellThreshold, c.Signal.BuyThreshold)
	}
	if c.Model.Backend == BackendTFServing && c.Model.ServingURL == "" {
		return fmt.Errorf("model.serving_url is required for the tfserving backend")
	}
	if c.Model.Backend == BackendFile && c.Model.Path == "" {
		return fmt.Errorf("model.path is required for the file backend")
	}
	return nil
}

// AuditCredentialsPresent reports whether the selected sink has what it needs to connect.
func (c *Config) AuditCredentialsPresent() bool {
	switch c.Audit.Sink {
	case SinkSupabase:
		return c.Audit.Supabase.URL != "" && c.Audit.Supabase.Key != ""
	case SinkPostgres:
		return c.Audit.Postgres.DSN != ""
	case SinkClickHouse:
		return c.ClickHouse.Host != ""
	case SinkKafka:
		return len(c.Kafka.Brokers) > 0
	case SinkRedis:
		return c.Audit.Redis.Addr != ""
	default:
		return false
	}
}

// ModelInputSize is the number of scalar inputs the configured variant feeds the model.
func (c *Config) ModelInputSize() int {
	if c.Variant == VariantWindow {
		return c.Features.TimeStep
	}
	return len(c.Features.Columns)
}
