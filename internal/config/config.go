// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderMock      = "mock"
	ProviderGoogleAds = "googleads"

	DefaultGoogleAdsAPIVersion = "v22"
)

// Config is loaded once at startup and handed to constructors.
type Config struct {
	Port            string
	Version         string
	LogLevel        string
	LogFormat       string
	AllowedOrigins  []string
	KeywordProvider string
	Scraper         ScraperConfig
	GoogleAds       GoogleAdsConfig
	AMQP            AMQPConfig

	envFileMissing bool
}

type ScraperConfig struct {
	Timeout    time.Duration
	UserAgent  string
	BrowserTLS bool
}

// GoogleAdsConfig holds the credentials for the keyword planner API.
type GoogleAdsConfig struct {
	DeveloperToken string
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	CustomerID     string
	APIVersion     string
}

type AMQPConfig struct {
	URL          string
	RequestQueue string
	ResultQueue  string
}

// Load reads .env (if present), config.yaml (if present) and the process
// environment. Environment keys are the config keys upper-cased with "." replaced by "_".
func Load() (*Config, error) {
	envLoaded := godotenv.Load() == nil

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !envLoaded {
		// reported by the caller once a logger exists
		cfg.envFileMissing = true
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cors.allowed_origins", "http://localhost:3000")
	v.SetDefault("keyword_provider", ProviderMock)
	v.SetDefault("scraper.timeout", "10s")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("scraper.browser_tls", false)
	v.SetDefault("google_ads.developer_token", "")
	v.SetDefault("google_ads.client_id", "")
	v.SetDefault("google_ads.client_secret", "")
	v.SetDefault("google_ads.refresh_token", "")
	v.SetDefault("google_ads.customer_id", "")
	v.SetDefault("google_ads.api_version", DefaultGoogleAdsAPIVersion)
	v.SetDefault("amqp.url", "")
	v.SetDefault("worker.request_queue", "sem_analysis_requests")
	v.SetDefault("worker.result_queue", "sem_analysis_results")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:            v.GetString("port"),
		Version:         v.GetString("app.version"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		LogFormat:       strings.ToLower(v.GetString("log.format")),
		AllowedOrigins:  splitList(v.GetString("cors.allowed_origins")),
		KeywordProvider: strings.ToLower(v.GetString("keyword_provider")),
		Scraper: ScraperConfig{
			Timeout:    v.GetDuration("scraper.timeout"),
			UserAgent:  v.GetString("scraper.user_agent"),
			BrowserTLS: v.GetBool("scraper.browser_tls"),
		},
		GoogleAds: GoogleAdsConfig{
			DeveloperToken: v.GetString("google_ads.developer_token"),
			ClientID:       v.GetString("google_ads.client_id"),
			ClientSecret:   v.GetString("google_ads.client_secret"),
			RefreshToken:   v.GetString("google_ads.refresh_token"),
			CustomerID:     strings.ReplaceAll(v.GetString("google_ads.customer_id"), "-", ""),
			APIVersion:     v.GetString("google_ads.api_version"),
		},
		AMQP: AMQPConfig{
			URL:          v.GetString("amqp.url"),
			RequestQueue: v.GetString("worker.request_queue"),
			ResultQueue:  v.GetString("worker.result_queue"),
		},
	}
}

func validate(cfg *Config) error {
	switch cfg.KeywordProvider {
	case ProviderMock:
	case ProviderGoogleAds:
		missing := []string{}
		if cfg.GoogleAds.DeveloperToken == "" {
			missing = append(missing, "GOOGLE_ADS_DEVELOPER_TOKEN")
		}
		if cfg.GoogleAds.ClientID == "" {
			missing = append(missing, "GOOGLE_ADS_CLIENT_ID")
		}
		if cfg.GoogleAds.ClientSecret == "" {
			missing = append(missing, "GOOGLE_ADS_CLIENT_SECRET")
		}
		if cfg.GoogleAds.RefreshToken == "" {
			missing = append(missing, "GOOGLE_ADS_REFRESH_TOKEN")
		}
		if cfg.GoogleAds.CustomerID == "" {
			missing = append(missing, "GOOGLE_ADS_CUSTOMER_ID")
		}
		if len(missing) > 0 {
			return fmt.Errorf("keyword provider %q requires %s", cfg.KeywordProvider, strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("unknown keyword provider %q", cfg.KeywordProvider)
	}

	if cfg.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive, got %s", cfg.Scraper.Timeout)
	}
	if cfg.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}

// EnvFileMissing reports whether no .env file was found during Load.
func (c *Config) EnvFileMissing() bool {
	return c.envFileMissing
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
