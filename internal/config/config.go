package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".smsman"
	envPrefix  = "smsman"

	KeyStatePath       = "state.path"
	KeyAPIBaseURL      = "api.base_url"
	KeyAPITimeout      = "api.timeout"
	KeyPollInterval    = "poll.interval"
	KeyRemovalGrace    = "removal.grace"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeySecretsBackend  = "secrets.backend"
	KeySecretsDir      = "secrets.dir"
	KeyPassBinary      = "secrets.pass_binary"
	KeyPassPrefix      = "secrets.pass_prefix"
	KeyMetricsTextfile = "metrics.textfile"
)

const (
	BackendChain = "chain"
	BackendPass  = "pass"
	BackendFile  = "file"
)

type Config struct {
	StatePath       string
	APIBaseURL      string
	APITimeout      time.Duration
	PollInterval    time.Duration
	RemovalGrace    time.Duration
	LogLevel        string
	LogFormat       string
	SecretsBackend  string
	SecretsDir      string
	PassBinary      string
	PassPrefix      string
	MetricsTextfile string
}

// Load reads ~/.smsman/config.toml when present and applies SMSMAN_*
// environment overrides, e.g. SMSMAN_API_BASE_URL for api.base_url.
func Load(v *viper.Viper, homeDir string, defaultBaseURL string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	dir := filepath.Join(homeDir, configDir)
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyStatePath, filepath.Join(dir, "state.toml"))
	v.SetDefault(KeyAPIBaseURL, defaultBaseURL)
	v.SetDefault(KeyAPITimeout, 30*time.Second)
	v.SetDefault(KeyPollInterval, 5*time.Second)
	v.SetDefault(KeyRemovalGrace, 1500*time.Millisecond)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeySecretsBackend, BackendChain)
	v.SetDefault(KeySecretsDir, filepath.Join(dir, "secrets"))
	v.SetDefault(KeyPassBinary, "pass")
	v.SetDefault(KeyPassPrefix, "")
	v.SetDefault(KeyMetricsTextfile, "")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		StatePath:       v.GetString(KeyStatePath),
		APIBaseURL:      strings.TrimRight(v.GetString(KeyAPIBaseURL), "/"),
		APITimeout:      v.GetDuration(KeyAPITimeout),
		PollInterval:    v.GetDuration(KeyPollInterval),
		RemovalGrace:    v.GetDuration(KeyRemovalGrace),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		SecretsBackend:  strings.ToLower(v.GetString(KeySecretsBackend)),
		SecretsDir:      v.GetString(KeySecretsDir),
		PassBinary:      v.GetString(KeyPassBinary),
		PassPrefix:      v.GetString(KeyPassPrefix),
		MetricsTextfile: v.GetString(KeyMetricsTextfile),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.StatePath == "":
		return errors.New("config: state.path is empty")
	case c.APIBaseURL == "":
		return errors.New("config: api.base_url is empty")
	case c.APITimeout <= 0:
		return fmt.Errorf("config: api.timeout must be positive, got %s", c.APITimeout)
	case c.PollInterval < time.Second:
		return fmt.Errorf("config: poll.interval must be at least 1s, got %s", c.PollInterval)
	case c.RemovalGrace <= 0:
		return fmt.Errorf("config: removal.grace must be positive, got %s", c.RemovalGrace)
	}

	switch c.SecretsBackend {
	case BackendChain, BackendPass, BackendFile:
	default:
		return fmt.Errorf("config: unknown secrets.backend %q (want chain, pass or file)", c.SecretsBackend)
	}

	return nil
}
