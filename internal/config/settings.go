package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Setting keys in config.yaml. Each can be overridden with RAPIDPRO_<KEY>,
// dots replaced by underscores.
const (
	KeyOutput      = "output"
	KeyUserAgent   = "user_agent"
	KeyTimeout     = "timeout"
	KeyRetry       = "retry"
	KeyCacheBack   = "cache.backend"
	KeyCacheRedis  = "cache.redis_url"
	KeyCacheTTL    = "cache.ttl"
	KeyExportDB    = "export.db"
	KeyNATSURL     = "export.nats_url"
	KeyNATSSubject = "export.nats_subject"
	KeyTLSInsecure = "tls.insecure"
	KeyTLSCABundle = "tls.ca_bundle"
)

var envReplacer = strings.NewReplacer(".", "_")

var knownKeys = []string{
	KeyOutput, KeyUserAgent, KeyTimeout, KeyRetry,
	KeyCacheBack, KeyCacheRedis, KeyCacheTTL,
	KeyExportDB, KeyNATSURL, KeyNATSSubject,
	KeyTLSInsecure, KeyTLSCABundle,
}

// ErrUnknownSetting is returned by Set for keys outside knownKeys.
var ErrUnknownSetting = errors.New("unknown setting")

// Settings wraps a viper instance bound to one config file.
type Settings struct {
	v    *viper.Viper
	path string
}

// DefaultSettingsPath is ~/.config/rapidpro-cli/config.yaml or the platform equivalent.
func DefaultSettingsPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, serviceName, "config.yaml"), nil
}

// LoadSettings reads path (DefaultSettingsPath when empty). A missing file
// is not an error.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		p, err := DefaultSettingsPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RAPIDPRO")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	v.SetDefault(KeyOutput, "text")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyCacheBack, "file")
	v.SetDefault(KeyCacheTTL, 5*time.Minute)
	v.SetDefault(KeyNATSSubject, "rapidpro.export")

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &Settings{v: v, path: path}, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Path is the file settings are read from and written to.
func (s *Settings) Path() string { return s.path }

func (s *Settings) Output() string { return s.v.GetString(KeyOutput) }
func (s *Settings) UserAgent() string { return s.v.GetString(KeyUserAgent) }
func (s *Settings) Timeout() time.Duration { return s.v.GetDuration(KeyTimeout) }
func (s *Settings) Retry() bool { return s.v.GetBool(KeyRetry) }
func (s *Settings) CacheBackend() string { return s.v.GetString(KeyCacheBack) }
func (s *Settings) CacheRedisURL() string { return s.v.GetString(KeyCacheRedis) }
func (s *Settings) CacheTTL() time.Duration { return s.v.GetDuration(KeyCacheTTL) }
func (s *Settings) ExportDB() string { return s.v.GetString(KeyExportDB) }
func (s *Settings) NATSURL() string { return s.v.GetString(KeyNATSURL) }
func (s *Settings) NATSSubject() string { return s.v.GetString(KeyNATSSubject) }
func (s *Settings) TLSInsecure() bool { return s.v.GetBool(KeyTLSInsecure) }
func (s *Settings) TLSCABundle() string { return s.v.GetString(KeyTLSCABundle) }
func (s *Settings) Get(key string) any { return s.v.Get(key) }
func (s *Settings) IsSet(key string) bool { return s.v.IsSet(key) }

// Set validates key and writes value to the config file.
func (s *Settings) Set(key, value string) error {
	if !slices.Contains(knownKeys, key) {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	switch key {
	case KeyTimeout, KeyCacheTTL:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	case KeyRetry, KeyTLSInsecure:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
	case KeyCacheBack:
		if !slices.Contains([]string{"file", "redis", "none"}, value) {
			return fmt.Errorf("%s must be file, redis or none", key)
		}
	}
	s.v.Set(key, value)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return s.v.WriteConfigAs(s.path)
}

// All returns every known setting with its effective value, sorted by key.
func (s *Settings) All() []KeyValue {
	keys := slices.Clone(knownKeys)
	sort.Strings(keys)
	out := make([]KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyValue{Key: k, Value: s.v.Get(k)})
	}
	return out
}

// KeyValue is one setting.
type KeyValue struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}
