package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetString(ConfigLetterDistribution), "esperanto")
	is.Equal(cfg.GetInt(ConfigMinWordLength), 3)
	is.Equal(cfg.GetDuration(ConfigIdleTimeout), 30*time.Minute)
	is.Equal(cfg.GetString(ConfigTransport), TransportTelegram)
}

func TestLoadFlagsEnvAndFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("min-word-length: 4\nletter-distribution: english\nnats-subject: from.file\n"), 0o600)
	is.NoErr(err)
	t.Setenv("VORTSTELO_NATS_SUBJECT", "from.env")

	cfg := &Config{}
	err = cfg.Load([]string{"--config-dir", dir, "--strict-turns", "--idle-timeout=10m"})
	is.NoErr(err)
	is.Equal(cfg.GetInt(ConfigMinWordLength), 4)
	is.Equal(cfg.GetString(ConfigLetterDistribution), "english")
	is.Equal(cfg.GetString(ConfigNatsSubject), "from.env")
	is.True(cfg.GetBool(ConfigStrictTurns))
	is.Equal(cfg.GetDuration(ConfigIdleTimeout), 10*time.Minute)
}

func TestLoadBadFlag(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.True(cfg.Load([]string{"--no-such-flag"}) != nil)
}

func TestAdjustRelativePathsAndAPIKey(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config-dir", dir, "--db-path", "./games.db"}))
	cfg.AdjustRelativePaths("/opt/vortstelo")
	is.Equal(cfg.GetString(ConfigDBPath), "/opt/vortstelo/games.db")
	is.Equal(cfg.GetString(ConfigUpdateIDFile), filepath.Join(dir, "update_id"))
	is.Equal(cfg.GetString(ConfigTelegramAPIKeyFile), filepath.Join(dir, "apikey"))

	_, err := cfg.TelegramAPIKey()
	is.True(err != nil)

	is.NoErr(os.WriteFile(filepath.Join(dir, "apikey"), []byte("123:abc\n"), 0o600))
	k, err := cfg.TelegramAPIKey()
	is.NoErr(err)
	is.Equal(k, "123:abc")

	cfg.Set(ConfigTelegramAPIKey, "secret")
	k, err = cfg.TelegramAPIKey()
	is.NoErr(err)
	is.Equal(k, "secret")
	is.Equal(cfg.SanitizedSettings()[ConfigTelegramAPIKey], "<redacted>")
}
