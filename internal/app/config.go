package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "COOKBOOK"

const (
	KeyDB              = "db"
	KeyLogLevel        = "log.level"
	KeyAPIBaseURL      = "api.base_url"
	KeyAPITimeout      = "api.timeout"
	KeyPlannerTimezone = "planner.timezone"
	KeyDefaultServings = "planner.default_servings"
	KeyServerAddr      = "server.addr"
)

type Config struct {
	DBPath          string
	LogLevel        string
	APIBaseURL      string
	APITimeout      time.Duration
	PlannerTimezone string
	DefaultServings int
	ServerAddr      string
}

// NewViper returns a viper instance with defaults and COOKBOOK_* environment
// overrides (COOKBOOK_API_BASE_URL for api.base_url).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyAPIBaseURL, "")
	v.SetDefault(KeyAPITimeout, 12*time.Second)
	v.SetDefault(KeyPlannerTimezone, "Europe/Berlin")
	v.SetDefault(KeyDefaultServings, 2)
	v.SetDefault(KeyServerAddr, "127.0.0.1:8080")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads .env from the working directory, then the config file.
// An explicit cfgFile must exist; the default location is optional.
func LoadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else if path, err := DefaultConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := Config{
		DBPath:          strings.TrimSpace(v.GetString(KeyDB)),
		LogLevel:        strings.TrimSpace(v.GetString(KeyLogLevel)),
		APIBaseURL:      strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
		APITimeout:      v.GetDuration(KeyAPITimeout),
		PlannerTimezone: strings.TrimSpace(v.GetString(KeyPlannerTimezone)),
		DefaultServings: v.GetInt(KeyDefaultServings),
		ServerAddr:      strings.TrimSpace(v.GetString(KeyServerAddr)),
	}
	if cfg.DefaultServings <= 0 {
		return Config{}, fmt.Errorf("%s must be > 0", KeyDefaultServings)
	}
	if cfg.APITimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be a positive duration", KeyAPITimeout)
	}
	if cfg.DBPath == "" {
		path, err := DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = path
	}
	return cfg, nil
}
