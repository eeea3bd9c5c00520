package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when Load is called without explicit files.
const DefaultEnvFile = ".env"

type Config struct {
	Services  Services  `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	App       App       `mapstructure:",squash"`
	Dashboard Dashboard `mapstructure:",squash"`
}

// Services holds the remote endpoints the dashboard reads from.
type Services struct {
	BackendURL      string `mapstructure:"backend_url"`
	OtherServiceURL string `mapstructure:"other_service_url"`
	GraphQLEndpoint string `mapstructure:"graphql_endpoint"`
	APIKey          string `mapstructure:"api_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type App struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type Dashboard struct {
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ChartCacheTTL     time.Duration `mapstructure:"chart_cache_ttl"`
	Locale            string        `mapstructure:"locale"`
	ChartTheme        string        `mapstructure:"chart_theme"`
	EChartsAssetsHost string        `mapstructure:"echarts_assets_host"`
	LabelsFile        string        `mapstructure:"labels_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("BACKEND_URL", "https://microservicioproductos-production.up.railway.app/api")
	v.SetDefault("OTHER_SERVICE_URL", "http://4.203.105.3")
	v.SetDefault("GRAPHQL_ENDPOINT", "http://18.218.15.90:8080/graphql")
	v.SetDefault("API_KEY", "")

	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8050)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("CHART_CACHE_TTL", time.Minute)
	v.SetDefault("LOCALE", "es")
	v.SetDefault("CHART_THEME", "westeros")
	v.SetDefault("ECHARTS_ASSETS_HOST", "")
	v.SetDefault("LABELS_FILE", "")
}

// Load reads the configuration from the environment. Values found in the env
// files fill in keys the process environment does not set; missing files are
// skipped.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}

	v := viper.New()
	setDefaults(v)
	for _, file := range envFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logrus.WithField("file", file).Debug("config: env file not found")
				continue
			}
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		for key, value := range values {
			v.SetDefault(strings.ToUpper(key), value)
		}
		logrus.WithField("file", file).Debug("config: env file loaded")
	}
	v.AutomaticEnv()

	cfg := &Config{}
	err := v.Unmarshal(cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	urls := []struct{ name, value string }{
		{"BACKEND_URL", c.Services.BackendURL},
		{"OTHER_SERVICE_URL", c.Services.OtherServiceURL},
		{"GRAPHQL_ENDPOINT", c.Services.GraphQLEndpoint},
	}
	for _, u := range urls {
		if err := validateURL(u.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.name, err))
		}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %d out of range", c.Server.Port))
	}
	if c.Dashboard.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT: must be positive, got %s", c.Dashboard.RequestTimeout))
	}
	if c.Dashboard.ChartCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CHART_CACHE_TTL: must not be negative, got %s", c.Dashboard.ChartCacheTTL))
	}
	if _, err := logrus.ParseLevel(c.App.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
