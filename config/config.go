package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigDir                = "config-dir"
	ConfigLetterDistribution = "letter-distribution"
	ConfigMinWordLength      = "min-word-length"
	ConfigStrictTurns        = "strict-turns"
	ConfigIdleTimeout        = "idle-timeout"
	ConfigReapInterval       = "reap-interval"
	ConfigTransport          = "transport"

	ConfigTelegramAPIKey      = "telegram-api-key"
	ConfigTelegramAPIKeyFile  = "telegram-api-key-file"
	ConfigTelegramAPIURL      = "telegram-api-url"
	ConfigTelegramPollTimeout = "telegram-poll-timeout"
	ConfigPollErrorDelay      = "poll-error-delay"
	ConfigSendErrorDelay      = "send-error-delay"
	ConfigUpdateIDFile        = "update-id-file"

	ConfigDBPath      = "db-path"
	ConfigNatsURL     = "nats-url"
	ConfigNatsSubject = "nats-subject"
)

const (
	TransportTelegram = "telegram"
	TransportNats     = "nats"
)

const envPrefix = "VORTSTELO"

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config holding only the defaults. It is mostly
// useful for tests.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vsrobot"
	}
	return filepath.Join(home, ".vsrobot")
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDir, defaultConfigDir())
	c.SetDefault(ConfigLetterDistribution, "esperanto")
	c.SetDefault(ConfigMinWordLength, 3)
	c.SetDefault(ConfigStrictTurns, false)
	c.SetDefault(ConfigIdleTimeout, 30*time.Minute)
	c.SetDefault(ConfigReapInterval, time.Minute)
	c.SetDefault(ConfigTransport, TransportTelegram)
	c.SetDefault(ConfigTelegramAPIURL, "https://api.telegram.org")
	c.SetDefault(ConfigTelegramPollTimeout, 5*time.Minute)
	c.SetDefault(ConfigPollErrorDelay, time.Minute)
	c.SetDefault(ConfigSendErrorDelay, 30*time.Second)
	c.SetDefault(ConfigNatsURL, "nats://127.0.0.1:4222")
	c.SetDefault(ConfigNatsSubject, "vortstelo.messages")
}

// Load reads flags from args, then the environment (VORTSTELO_*), then
// config.yaml in the config dir, in that order of precedence.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("vortstelo", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigDir, defaultConfigDir(), "directory holding the api key, update id and config.yaml")
	fs.String(ConfigLetterDistribution, "esperanto", "the letter distribution to draw from: esperanto or english")
	fs.Int(ConfigMinWordLength, 3, "the shortest word a player may claim")
	fs.Bool(ConfigStrictTurns, false, "only the player on turn may draw")
	fs.Duration(ConfigIdleTimeout, 30*time.Minute, "end games idle for this long")
	fs.Duration(ConfigReapInterval, time.Minute, "how often to look for idle games")
	fs.String(ConfigTransport, TransportTelegram, "where messages come from: telegram or nats")
	fs.String(ConfigTelegramAPIKey, "", "telegram bot api key; read from the key file if empty")
	fs.String(ConfigTelegramAPIKeyFile, "", "file holding the telegram bot api key (default <config-dir>/apikey)")
	fs.String(ConfigTelegramAPIURL, "https://api.telegram.org", "telegram bot api base url")
	fs.Duration(ConfigTelegramPollTimeout, 5*time.Minute, "long-poll timeout for getUpdates")
	fs.Duration(ConfigPollErrorDelay, time.Minute, "pause after a failed getUpdates")
	fs.Duration(ConfigSendErrorDelay, 30*time.Second, "pause after a failed sendMessage")
	fs.String(ConfigUpdateIDFile, "", "file holding the last handled update id (default <config-dir>/update_id)")
	fs.String(ConfigDBPath, "", "sqlite database for update ids and game results; empty disables it")
	fs.String(ConfigNatsURL, "nats://127.0.0.1:4222", "nats server url")
	fs.String(ConfigNatsSubject, "vortstelo.messages", "nats subject to serve")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName("config")
	c.SetConfigType("yaml")
	c.AddConfigPath(c.GetString(ConfigDir))
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

// AdjustRelativePaths resolves the relative paths among the settings
// against basePath, and fills in the paths that default to the config dir.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, key := range []string{ConfigDir, ConfigTelegramAPIKeyFile, ConfigUpdateIDFile, ConfigDBPath} {
		p := c.GetString(key)
		if strings.HasPrefix(p, "./") {
			c.Set(key, filepath.Join(basePath, p))
		}
	}
	dir := c.GetString(ConfigDir)
	if c.GetString(ConfigTelegramAPIKeyFile) == "" {
		c.Set(ConfigTelegramAPIKeyFile, filepath.Join(dir, "apikey"))
	}
	if c.GetString(ConfigUpdateIDFile) == "" {
		c.Set(ConfigUpdateIDFile, filepath.Join(dir, "update_id"))
	}
}

// TelegramAPIKey returns the configured key, or the trimmed contents of the
// key file.
func (c *Config) TelegramAPIKey() (string, error) {
	if k := c.GetString(ConfigTelegramAPIKey); k != "" {
		return k, nil
	}
	path := c.GetString(ConfigTelegramAPIKeyFile)
	if path == "" {
		return "", errors.New("no telegram api key configured")
	}
	bts, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	k := strings.TrimSpace(string(bts))
	if k == "" {
		return "", fmt.Errorf("api key file %v is empty", path)
	}
	return k, nil
}

// SanitizedSettings returns all settings, safe to log.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if _, ok := settings[ConfigTelegramAPIKey]; ok {
		settings[ConfigTelegramAPIKey] = "<redacted>"
	}
	return settings
}
