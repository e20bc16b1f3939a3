// Package config loads the runtime settings shared by the three
// supply_chain binaries (processor, ledgersync, gateway): a TOML file on
// disk for deployment-stable settings, with environment variables
// overriding the fields operators tune per-environment (URLs,
// credentials, the JWT signing secret).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hyperledger-archives/sawtooth-supply-chain/crypto"
)

// Config is the full settings surface for the supply_chain services.
// Not every binary uses every field — cmd/gateway reads ValidatorURL,
// the DB settings, KeystorePath, RetryWait, JWTSecret and HTTPAddress,
// cmd/ledgersync reads ValidatorURL and the DB settings, cmd/processor
// reads none of it beyond ValidatorURL.
type Config struct {
	ValidatorURL  string        `toml:"ValidatorURL"`
	DBHost        string        `toml:"DBHost"`
	DBPort        int           `toml:"DBPort"`
	DBName        string        `toml:"DBName"`
	DBUser        string        `toml:"DBUser"`
	DBPassword    string        `toml:"DBPassword"`
	DBSSLMode     string        `toml:"DBSSLMode"`
	RetryWait     time.Duration `toml:"-"`
	RetryWaitSecs int           `toml:"RetryWaitSeconds"`
	KeystorePath  string        `toml:"KeystorePath"`
	JWTSecret     string        `toml:"-"`
	HTTPAddress   string        `toml:"HTTPAddress"`
}

// Load reads path, creating a default file there if none exists, then
// applies environment overrides on top of the decoded values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if cfg, err = createDefault(path); err != nil {
			return nil, err
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if cfg.RetryWaitSecs <= 0 {
		cfg.RetryWaitSecs = 5
	}
	cfg.RetryWait = time.Duration(cfg.RetryWaitSecs) * time.Second

	if cfg.ValidatorURL == "" {
		return nil, fmt.Errorf("config: ValidatorURL is required")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "insecure-development-secret"
		fmt.Fprintln(os.Stderr, "config: warning: JWT_SECRET not set, using an insecure development default")
	}
	if cfg.KeystorePath == "" {
		cfg.KeystorePath = defaultKeystorePath(path)
	}
	if err := ensureKeystore(cfg.KeystorePath); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VALIDATOR_URL"); v != "" {
		cfg.ValidatorURL = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.DBHost = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DBPort = port
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.DBName = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.DBUser = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DBPassword = v
	}
	if v := os.Getenv("RETRY_WAIT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.RetryWaitSecs = secs
		}
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("PRIVATE_KEY_PATH"); v != "" {
		cfg.KeystorePath = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTPAddress = v
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ValidatorURL:  "http://127.0.0.1:8008",
		DBHost:        "127.0.0.1",
		DBPort:        5432,
		DBName:        "supply_chain",
		DBSSLMode:     "disable",
		RetryWaitSecs: 5,
		HTTPAddress:   ":3030",
	}
	cfg.KeystorePath = defaultKeystorePath(path)
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func defaultKeystorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	if dir == "." {
		dir = ""
	}
	return filepath.Join(dir, "batcher.keystore")
}

func ensureKeystore(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		key, genErr := crypto.GeneratePrivateKey()
		if genErr != nil {
			return genErr
		}
		return crypto.SaveToKeystore(path, key, "")
	} else if err != nil {
		return err
	}
	return nil
}
