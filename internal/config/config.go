// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/joho/godotenv"
)

const (
	SepoliaChainID   = "0xaa36a7"
	SepoliaChainName = "Sepolia Testnet"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Backend     BackendConfig
	Wallet      WalletConfig
	Session     SessionConfig
	Media       MediaConfig
	Templates   TemplatesConfig
	AWS         AWSConfig
	CORS        CORSConfig
	Log         LogConfig
	I18n        I18nConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type BackendConfig struct {
	URL string
	// Zero leaves the transport's own timeouts in charge.
	Timeout time.Duration
}

type WalletConfig struct {
	RPCURL     string
	ChainID    string
	ChainName  string
	PaymentTag string
}

type SessionConfig struct {
	File   string
	Secret string
}

type MediaConfig struct {
	IPFSGateway      string
	ExplorerURL      string
	PlaceholderImage string
}

type TemplatesConfig struct {
	// Dir holds template images on disk. When AWS.TemplateBucket is set the
	// images are read from S3 instead.
	Dir string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	TemplateBucket  string
	TemplatePrefix  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level        string
	Format       string
	ReportCaller bool
}

type I18nConfig struct {
	DefaultLocale string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	ActionsPerMinute  int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Backend: BackendConfig{
			URL:     getEnv("BACKEND_URL", "http://localhost:5000"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 0),
		},
		Wallet: WalletConfig{
			RPCURL:     getEnv("WALLET_RPC_URL", "http://127.0.0.1:1248"),
			ChainID:    strings.ToLower(getEnv("WALLET_CHAIN_ID", SepoliaChainID)),
			ChainName:  getEnv("WALLET_CHAIN_NAME", SepoliaChainName),
			PaymentTag: getEnv("WALLET_PAYMENT_TAG", "SEPOLIA_ETH"),
		},
		Session: SessionConfig{
			File:   getEnv("SESSION_FILE", defaultSessionFile()),
			Secret: getEnv("SESSION_SECRET", ""),
		},
		Media: MediaConfig{
			IPFSGateway:      getEnv("IPFS_GATEWAY", "https://gateway.pinata.cloud/ipfs/"),
			ExplorerURL:      getEnv("EXPLORER_URL", "https://aeneid.explorer.story.foundation/ipa/"),
			PlaceholderImage: getEnv("PLACEHOLDER_IMAGE", "https://via.placeholder.com/120"),
		},
		Templates: TemplatesConfig{
			Dir: getEnv("TEMPLATES_DIR", "./assets"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			TemplateBucket:  getEnv("AWS_TEMPLATE_BUCKET", ""),
			TemplatePrefix:  getEnv("AWS_TEMPLATE_PREFIX", "assets/"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "text"),
			ReportCaller: getEnvAsBool("LOG_REPORT_CALLER", false),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			ActionsPerMinute:  getEnvAsInt("RATE_LIMIT_ACTIONS_PER_MINUTE", 20),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("backend URL is required")
	}

	if _, err := hexutil.DecodeBig(c.Wallet.ChainID); err != nil {
		return fmt.Errorf("wallet chain id %q: %w", c.Wallet.ChainID, err)
	}

	if c.Wallet.PaymentTag == "" {
		return fmt.Errorf("wallet payment tag is required")
	}

	if c.Session.Secret == "" && c.Environment == "production" {
		return fmt.Errorf("session secret is required in production")
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout must not be negative")
	}

	return nil
}

// IsProduction reports whether the console runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".licensing-console/session.json"
	}
	return filepath.Join(dir, "licensing-console", "session.json")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
