package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Threshold methods accepted by the calibrator.
const (
	MethodPercentile = "percentile"
	MethodStdDev     = "stddev"
	MethodIQR        = "iqr"
	MethodFixed      = "fixed"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Exchange struct {
		BaseURL   string        `yaml:"base_url" default:"https://api.kraken.com"`
		Timeout   time.Duration `yaml:"timeout" default:"30s"`
		PairLimit int           `yaml:"pair_limit"` // 0 = all pairs in the catalog
		Pairs     []string      `yaml:"pairs"`      // explicit subset; overrides pair_limit
	} `yaml:"exchange"`
	Fetch struct {
		BatchSize    int           `yaml:"batch_size" default:"10"`
		Interval     int           `yaml:"interval" default:"15"` // candle granularity, minutes
		Since        int64         `yaml:"since"`                 // unix seconds cursor, 0 = exchange default window
		PollInterval time.Duration `yaml:"poll_interval" default:"15m"`
	} `yaml:"fetch"`
	Fees struct {
		File       string  `yaml:"file"`
		DefaultFee float64 `yaml:"default_fee" default:"0.0026"` // taker fraction on lookup miss
	} `yaml:"fees"`
	Threshold struct {
		Method    string  `yaml:"method" default:"stddev"`
		Parameter float64 `yaml:"parameter" default:"2"`
	} `yaml:"threshold"`
	Sweep struct {
		Enabled bool    `yaml:"enabled" default:"true"`
		Min     float64 `yaml:"min" default:"1.0"`
		Max     float64 `yaml:"max" default:"5.0"`
		Step    float64 `yaml:"step" default:"0.1"`
	} `yaml:"sweep"`
	Cache struct {
		Backend string        `yaml:"backend" default:"file"` // file, memory, redis, none
		Dir     string        `yaml:"dir" default:"results/cache"`
		TTL     time.Duration `yaml:"ttl" default:"15m"`
		Redis   struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"arb"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"arb.discrepancies"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Output struct {
		TradesFile   string `yaml:"trades_file" default:"results/trade_candidates.csv"`
		OutliersFile string `yaml:"outliers_file" default:"results/outliers.csv"`
	} `yaml:"output"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("EXCHANGE_BASE_URL"); v != "" {
		c.Exchange.BaseURL = v
	}
	if v := os.Getenv("PAIRS"); v != "" {
		c.Exchange.Pairs = strings.Split(v, ",")
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Fetch.BatchSize = n
		}
	}
	if v := os.Getenv("FEES_FILE"); v != "" {
		c.Fees.File = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	// Re-check after overrides
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid. A failure here is fatal:
// the run cannot proceed meaningfully with a broken fee table or threshold.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Fetch.BatchSize <= 0 {
		return fmt.Errorf("fetch.batch_size must be positive, got %d", c.Fetch.BatchSize)
	}
	if c.Fetch.Interval <= 0 {
		return fmt.Errorf("fetch.interval must be positive, got %d", c.Fetch.Interval)
	}
	if c.Fees.DefaultFee < 0 || c.Fees.DefaultFee >= 1 {
		return fmt.Errorf("fees.default_fee must be a fraction in [0,1), got %v", c.Fees.DefaultFee)
	}
	switch c.Threshold.Method {
	case MethodPercentile:
		if c.Threshold.Parameter <= 0 || c.Threshold.Parameter >= 100 {
			return fmt.Errorf("threshold.parameter must be in (0,100) for percentile, got %v", c.Threshold.Parameter)
		}
	case MethodStdDev, MethodIQR, MethodFixed:
	default:
		return fmt.Errorf("threshold.method must be one of %s, %s, %s, %s; got %q",
			MethodPercentile, MethodStdDev, MethodIQR, MethodFixed, c.Threshold.Method)
	}
	if c.Sweep.Enabled {
		if c.Sweep.Step <= 0 {
			return fmt.Errorf("sweep.step must be positive, got %v", c.Sweep.Step)
		}
		if c.Sweep.Min > c.Sweep.Max {
			return fmt.Errorf("sweep.min must be <= sweep.max")
		}
	}
	switch c.Cache.Backend {
	case "file", "memory", "redis", "none":
	default:
		return fmt.Errorf("cache.backend must be file, memory, redis or none; got %q", c.Cache.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
