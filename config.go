package campus

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/campus/pkg/authclient"
	"github.com/dmitrymomot/campus/pkg/credstore"
	"github.com/dmitrymomot/campus/pkg/logger"
)

// Config holds everything needed to assemble a Manager. Values come from
// an optional YAML file with CAMPUS_* environment variables taking
// precedence. The env tags name the variables LoadConfig reads and double
// as the contract for applications that embed this struct in their own
// env-parsed configuration; keep them in sync with the LoadConfig overlay.
type Config struct {
	// BaseURL is the portal backend root, e.g. https://portal.example.edu/api.
	BaseURL string `yaml:"base_url" env:"CAMPUS_BASE_URL"`

	// RequestTimeout bounds every handshake round trip.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"CAMPUS_REQUEST_TIMEOUT"`

	// TokenTTL is the assumed token lifetime when the backend omits
	// expires_in. Zero disables proactive expiry checks.
	TokenTTL time.Duration `yaml:"token_ttl" env:"CAMPUS_TOKEN_TTL"`

	// CredentialsFile is the path of the encrypted credential store.
	// Empty means credentials are never persisted.
	CredentialsFile string `yaml:"credentials_file" env:"CAMPUS_CREDENTIALS_FILE"`

	// CredentialsSecret encrypts the credential store; 32+ bytes.
	// Env only, never read from the YAML file.
	CredentialsSecret string `yaml:"-" env:"CAMPUS_CREDENTIALS_SECRET"`

	Sentry logger.SentryConfig `yaml:"sentry"`
}

// DefaultConfig returns a Config with sane client defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 15 * time.Second,
		TokenTTL:       15 * time.Minute,
	}
}

// LoadConfig reads configuration from an optional YAML file at path (pass
// "" to skip) and overlays CAMPUS_* environment variables. A .env file in
// the working directory is loaded first, best effort, so local development
// needs no exported variables.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("CAMPUS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CAMPUS_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse CAMPUS_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("CAMPUS_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse CAMPUS_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("CAMPUS_CREDENTIALS_FILE"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv("CAMPUS_CREDENTIALS_SECRET"); v != "" {
		cfg.CredentialsSecret = v
	}
	if v := os.Getenv("CAMPUS_SENTRY_DSN"); v != "" {
		cfg.Sentry.DSN = v
	}
	if v := os.Getenv("CAMPUS_SENTRY_ENVIRONMENT"); v != "" {
		cfg.Sentry.Environment = v
	}

	return cfg, nil
}

// NewFromConfig assembles a fully wired Manager: logger (with Sentry when
// configured), encrypted file credential store when a path is set, and the
// HTTP auth client with silent renewal through the stored credentials.
func NewFromConfig(cfg Config) (*Manager, error) {
	if cfg.BaseURL == "" {
		return nil, errors.Join(ErrGeneric, errors.New("base URL required"))
	}

	log := logger.NewWithSentry(cfg.Sentry)

	var store credstore.Store = credstore.NewMemoryStore()
	if cfg.CredentialsFile != "" {
		fs, err := credstore.NewFileStore(cfg.CredentialsFile, []byte(cfg.CredentialsSecret))
		if err != nil {
			return nil, err
		}
		store = fs
	}

	m := New(nil,
		WithLogger(log),
		WithCredentialStore(store),
	)

	client, err := authclient.NewHTTPClient(cfg.BaseURL,
		authclient.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		authclient.WithDefaultTTL(cfg.TokenTTL),
		authclient.WithCredentialSource(m.CredentialSource()),
		authclient.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	m.client = client

	return m, nil
}
