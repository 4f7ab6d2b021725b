package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25
	envPrefix    = "BIGBANG"
)

// configNames are the file names auto-discovery looks for, in order.
var configNames = []string{"bigbang.yaml", "bigbang.yml"}

// Config represents the bigbang configuration from bigbang.yaml.
type Config struct {
	// ConnectionString is the account connection string. It takes precedence
	// over Account.
	ConnectionString string `mapstructure:"connection_string" json:"connection_string"`

	// File is the desired-state document.
	File string `mapstructure:"file" json:"file"`

	// Account holds discrete account settings.
	Account AccountConfig `mapstructure:"account" json:"account"`

	// Per-command configuration
	Migrate MigrateConfig `mapstructure:"migrate" json:"migrate"`

	Log LogConfig `mapstructure:"log" json:"log"`
}

// AccountConfig holds the account endpoint and master key.
type AccountConfig struct {
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	Key      string `mapstructure:"key" json:"key"`
}

// MigrateConfig holds migration settings.
type MigrateConfig struct {
	DryRun          bool `mapstructure:"dry_run" json:"dry_run"`
	ContinueOnError bool `mapstructure:"continue_on_error" json:"continue_on_error"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	// 1. Set defaults first (lowest precedence)
	setDefaults(v)

	// 2. Set up environment variable binding
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 3. Find and load config file
	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	// 4. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("connection_string", "")
	v.SetDefault("file", "")

	v.SetDefault("account.endpoint", "")
	v.SetDefault("account.key", "")

	v.SetDefault("migrate.dry_run", false)
	v.SetDefault("migrate.continue_on_error", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for bigbang.yaml or bigbang.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Stop at the repo root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Account.Key != "" {
		out.Account.Key = redactedValue
	}
	if out.ConnectionString != "" {
		out.ConnectionString = redactConnectionString(out.ConnectionString)
	}
	return &out
}

const redactedValue = "<redacted>"

// redactConnectionString masks the AccountKey segment of a connection string.
func redactConnectionString(s string) string {
	segments := strings.Split(s, ";")
	for i, segment := range segments {
		name, _, ok := strings.Cut(segment, "=")
		if ok && strings.EqualFold(strings.TrimSpace(name), "accountkey") {
			segments[i] = name + "=" + redactedValue
		}
	}
	return strings.Join(segments, ";")
}

// ResolvedConnectionString returns the account connection string.
// If connection_string is set, it's returned directly.
// Otherwise, builds one from account.endpoint and account.key.
func (c *Config) ResolvedConnectionString() (string, error) {
	if c.ConnectionString != "" {
		return c.ConnectionString, nil
	}

	acct := c.Account
	if acct.Endpoint == "" && acct.Key == "" {
		return "", fmt.Errorf("connection_string or account.endpoint and account.key are required")
	}
	if acct.Endpoint == "" {
		return "", fmt.Errorf("account.endpoint is required when connection_string is not set")
	}
	if acct.Key == "" {
		return "", fmt.Errorf("account.key is required when connection_string is not set")
	}

	return "AccountEndpoint=" + acct.Endpoint + ";AccountKey=" + acct.Key + ";", nil
}
