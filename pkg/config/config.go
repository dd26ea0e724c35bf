package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Log         struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Forecast struct {
		Source     string `yaml:"source" default:"csv"`
		CSVPath    string `yaml:"csv_path" default:"data/preds.csv"`
		Watch      bool   `yaml:"watch"`
		ReloadCron string `yaml:"reload_cron" default:"@every 5m"`
	} `yaml:"forecast"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"senticast"`
		Table            string        `yaml:"table" default:"forecast_predictions"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
	Sentiment struct {
		Timeout   time.Duration `yaml:"timeout" default:"10s"`
		Endpoints []Endpoint    `yaml:"endpoints"`
		RateLimit struct {
			Capacity     float64 `yaml:"capacity" default:"5"`
			RefillPerSec float64 `yaml:"refill_per_sec" default:"1"`
		} `yaml:"rate_limit"`
	} `yaml:"sentiment"`
	Cache struct {
		Backend    string        `yaml:"backend" default:"memory"`
		TTL        time.Duration `yaml:"ttl" default:"10m"`
		MaxEntries int           `yaml:"max_entries" default:"1024"`
		Redis      struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Compression  string   `yaml:"compression" default:"gzip"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		EventsTopic  string   `yaml:"events_topic" default:"senticast.sentiment.classified"`
		DatasetTopic string   `yaml:"dataset_topic" default:"senticast.forecast.dataset"`
		Consumer     struct {
			GroupID    string        `yaml:"group_id" default:"senticast"`
			Workers    int           `yaml:"workers" default:"1"`
			BufferSize int           `yaml:"buffer_size" default:"16"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
}

// Endpoint is one remote sentiment classifier.
type Endpoint struct {
	Name               string `yaml:"name"`
	URL                string `yaml:"url"`
	SupportsConfidence bool   `yaml:"supports_confidence"`
}

// DefaultEndpoints are the classifiers of the original deployment.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "Logistic Regression", URL: "https://xb2ia3u3iycroj2mmiev7bk4si0iorlt.lambda-url.us-east-2.on.aws/", SupportsConfidence: true},
		{Name: "FinBERT", URL: "https://mhxhepiqzvuvi3gzinve6smcsu0uniij.lambda-url.us-east-2.on.aws/", SupportsConfidence: true},
		{Name: "o4-mini", URL: "https://oye2e3js2vb6fmvjffuz5m5p6i0ztcne.lambda-url.us-east-2.on.aws/"},
		{Name: "GPT-4.1-mini", URL: "https://hyjt3i2ifndrl3lshtadbavega0tshcs.lambda-url.us-east-2.on.aws/"},
		{Name: "GPT-4.1-mini (Fine-Tuned)", URL: "https://qroayxlg56s5d6nckwocpcnxee0ozpfi.lambda-url.us-east-2.on.aws/"},
	}
}

// Default returns a config populated only from default tags.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	c.Sentiment.Endpoints = DefaultEndpoints()
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(c.Sentiment.Endpoints) == 0 {
		c.Sentiment.Endpoints = DefaultEndpoints()
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

	if v := os.Getenv("SENTICAST_SOURCE"); v != "" {
		c.Forecast.Source = v
	}
	if v := os.Getenv("SENTICAST_CSV_PATH"); v != "" {
		c.Forecast.CSVPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Forecast.Source {
	case "csv":
		if c.Forecast.CSVPath == "" {
			return fmt.Errorf("forecast.csv_path is required for csv source")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for clickhouse source")
		}
	default:
		return fmt.Errorf("forecast.source must be 'csv' or 'clickhouse', got '%s'", c.Forecast.Source)
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	for i, ep := range c.Sentiment.Endpoints {
		if ep.Name == "" || ep.URL == "" {
			return fmt.Errorf("sentiment.endpoints[%d]: name and url are required", i)
		}
	}
	return nil
}
