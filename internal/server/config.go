package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBindAddr = "127.0.0.1"
	DefaultPort     = 9400
	DefaultDataDir  = "/var/lib/foliod"
	DefaultLogLevel = "info"
)

type Config struct {
	BindAddr string `yaml:"bind"`
	Port     int    `yaml:"port"`
	DataDir  string `yaml:"dataDir"`
	LogLevel string `yaml:"logLevel"`
	DBPath   string `yaml:"dbPath"`
	DBWAL    bool   `yaml:"dbWAL"`
	APIToken string `yaml:"apiToken,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		BindAddr: DefaultBindAddr,
		Port:     DefaultPort,
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		DBPath:   "",
		DBWAL:    true,
		APIToken: "",
	}
}

// LoadConfig layers an optional YAML file under FOLIOD_* environment
// overrides.
func LoadConfig(configPath string) (Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(configPath) != "" {
		b, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}
	cfg.APIToken = strings.TrimSpace(cfg.APIToken)

	if v := strings.TrimSpace(os.Getenv("FOLIOD_BIND")); v != "" {
		cfg.BindAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIOD_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse FOLIOD_PORT=%q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(os.Getenv("FOLIOD_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIOD_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("FOLIOD_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIOD_DB_WAL")); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("parse FOLIOD_DB_WAL=%q: %w", v, err)
		}
		cfg.DBWAL = parsed
	}
	if v := strings.TrimSpace(os.Getenv("FOLIOD_API_TOKEN")); v != "" {
		cfg.APIToken = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BindAddr) == "" {
		return fmt.Errorf("bind address is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in range 0..65535")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data directory is required")
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}
