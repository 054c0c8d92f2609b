package campus_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/campus"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := campus.LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://portal.example.edu/api
request_timeout: 5s
token_ttl: 10m
credentials_file: /tmp/creds
sentry:
  dsn: https://key@sentry.example.com/1
  environment: staging
`), 0o600))

	cfg, err := campus.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.edu/api", cfg.BaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 10*time.Minute, cfg.TokenTTL)
	require.Equal(t, "/tmp/creds", cfg.CredentialsFile)
	require.Equal(t, "https://key@sentry.example.com/1", cfg.Sentry.DSN)
	require.Equal(t, "staging", cfg.Sentry.Environment)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.example.edu\nrequest_timeout: 5s\n"), 0o600))

	t.Setenv("CAMPUS_BASE_URL", "https://env.example.edu")
	t.Setenv("CAMPUS_REQUEST_TIMEOUT", "30s")

	cfg, err := campus.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.edu", cfg.BaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

// forEachEnvTagged visits every field of typ (recursing into embedded
// structs) that carries an env tag.
func forEachEnvTagged(typ reflect.Type, index []int, visit func(tag string, index []int)) {
	for i := range typ.NumField() {
		f := typ.Field(i)
		idx := append(append([]int(nil), index...), i)
		if tag, ok := f.Tag.Lookup("env"); ok && tag != "" {
			visit(tag, idx)
			continue
		}
		if f.Type.Kind() == reflect.Struct {
			forEachEnvTagged(f.Type, idx, visit)
		}
	}
}

// Every env-tagged field must be honored by the LoadConfig overlay; a tag
// renamed without updating the parser fails here.
func TestLoadConfig_ReadsEveryTaggedVariable(t *testing.T) {
	cfgType := reflect.TypeOf(campus.Config{})
	durationType := reflect.TypeOf(time.Duration(0))

	forEachEnvTagged(cfgType, nil, func(tag string, index []int) {
		if cfgType.FieldByIndex(index).Type == durationType {
			t.Setenv(tag, "17m")
			return
		}
		t.Setenv(tag, "env:"+tag)
	})

	cfg, err := campus.LoadConfig("")
	require.NoError(t, err)

	got := reflect.ValueOf(cfg)
	forEachEnvTagged(cfgType, nil, func(tag string, index []int) {
		field := got.FieldByIndex(index)
		if cfgType.FieldByIndex(index).Type == durationType {
			require.Equal(t, 17*time.Minute, field.Interface(), "env tag %s not read by LoadConfig", tag)
			return
		}
		require.Equal(t, "env:"+tag, field.Interface(), "env tag %s not read by LoadConfig", tag)
	})
}

func TestLoadConfig_MissingFileIsOptional(t *testing.T) {
	cfg, err := campus.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Empty(t, cfg.BaseURL)
}

func TestLoadConfig_BadDuration(t *testing.T) {
	t.Setenv("CAMPUS_REQUEST_TIMEOUT", "not-a-duration")

	_, err := campus.LoadConfig("")
	require.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	t.Run("requires base URL", func(t *testing.T) {
		_, err := campus.NewFromConfig(campus.Config{})
		require.Error(t, err)
	})

	t.Run("memory store by default", func(t *testing.T) {
		cfg := campus.DefaultConfig()
		cfg.BaseURL = "https://portal.example.edu/api"

		m, err := campus.NewFromConfig(cfg)
		require.NoError(t, err)
		require.NotNil(t, m)
	})

	t.Run("file store when configured", func(t *testing.T) {
		cfg := campus.DefaultConfig()
		cfg.BaseURL = "https://portal.example.edu/api"
		cfg.CredentialsFile = filepath.Join(t.TempDir(), "creds")
		cfg.CredentialsSecret = "0123456789abcdef0123456789abcdef"

		m, err := campus.NewFromConfig(cfg)
		require.NoError(t, err)
		require.NotNil(t, m)
	})

	t.Run("short secret fails", func(t *testing.T) {
		cfg := campus.DefaultConfig()
		cfg.BaseURL = "https://portal.example.edu/api"
		cfg.CredentialsFile = filepath.Join(t.TempDir(), "creds")
		cfg.CredentialsSecret = "short"

		_, err := campus.NewFromConfig(cfg)
		require.Error(t, err)
	})
}
