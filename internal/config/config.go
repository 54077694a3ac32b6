package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP struct {
		Addr         string   `yaml:"addr"`
		AllowOrigins []string `yaml:"allow_origins"`
		RateLimitRPM int      `yaml:"rate_limit_rpm"`
	} `yaml:"http"`
	Inference struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"inference"`
	Webhook struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"webhook"`
	Resolver struct {
		MaxNoticeChars int `yaml:"max_notice_chars"`
	} `yaml:"resolver"`
	Extract struct {
		Documents bool  `yaml:"documents"`
		MaxBytes  int64 `yaml:"max_bytes"`
	} `yaml:"extract"`
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Log struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
}

func Default() Config {
	var cfg Config
	cfg.HTTP.Addr = ":8090"
	cfg.HTTP.RateLimitRPM = 30
	cfg.Inference.Timeout = 30 * time.Second
	cfg.Webhook.Timeout = 30 * time.Second
	cfg.Extract.MaxBytes = 10 << 20
	cfg.Log.MaxSizeMB = 50
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	return cfg
}

// Load reads the yaml file at path (missing file is not an error), then an
// optional .env file, then GA_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, err
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	envFile := os.Getenv("GA_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)

	if cfg.Inference.Timeout <= 0 || cfg.Webhook.Timeout <= 0 {
		return cfg, errors.New("provider timeouts must be positive")
	}
	if cfg.Extract.MaxBytes <= 0 {
		return cfg, errors.New("extract.max_bytes must be positive")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GA_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("GA_HTTP_ALLOW_ORIGINS"); v != "" {
		cfg.HTTP.AllowOrigins = splitCSV(v)
	}
	if v := os.Getenv("GA_HTTP_RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimitRPM = n
		}
	}
	if v := os.Getenv("GA_INFERENCE_URL"); v != "" {
		cfg.Inference.URL = v
	}
	if v := os.Getenv("GA_INFERENCE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Inference.Timeout = d
		}
	}
	if v := os.Getenv("GA_WEBHOOK_URL"); v != "" {
		cfg.Webhook.URL = v
	}
	if v := os.Getenv("GA_WEBHOOK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Webhook.Timeout = d
		}
	}
	if v := os.Getenv("GA_MAX_NOTICE_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Resolver.MaxNoticeChars = n
		}
	}
	if v := os.Getenv("GA_EXTRACT_DOCUMENTS"); v != "" {
		cfg.Extract.Documents = parseBool(v, cfg.Extract.Documents)
	}
	if v := os.Getenv("GA_EXTRACT_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Extract.MaxBytes = n
		}
	}
	if v := os.Getenv("GA_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("GA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func parseBool(input string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		val := strings.TrimSpace(part)
		if val == "" {
			continue
		}
		out = append(out, val)
	}
	return out
}
