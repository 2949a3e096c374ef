package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PRIMEDIAL"

// EnvConfig holds environment overrides. Unset variables leave fields nil.
type EnvConfig struct {
	// Env: PRIMEDIAL_MIN
	Min *int `envconfig:"MIN"`
	// Env: PRIMEDIAL_MAX
	Max *int `envconfig:"MAX"`
	// Env: PRIMEDIAL_MAX_SPAN
	MaxSpan *int `envconfig:"MAX_SPAN"`
	// Env: PRIMEDIAL_CAP
	Cap *int `envconfig:"CAP"`
	// Env: PRIMEDIAL_DEBOUNCE_MS
	DebounceMs *int `envconfig:"DEBOUNCE_MS"`
	// Env: PRIMEDIAL_HIGHLIGHT (exact or nearest)
	Highlight *string `envconfig:"HIGHLIGHT"`
	// Env: PRIMEDIAL_CACHE_CAPACITY
	CacheCapacity *int `envconfig:"CACHE_CAPACITY"`
	// Env: PRIMEDIAL_LOG_LEVEL
	LogLevel *string `envconfig:"LOG_LEVEL"`
	// Env: PRIMEDIAL_LOG_FORMAT (text or json)
	LogFormat *string `envconfig:"LOG_FORMAT"`
	// Env: PRIMEDIAL_DB_PATH
	DBPath string `envconfig:"DB_PATH"`
}

// LoadFromEnv reads PRIMEDIAL_* variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones
// already set. If path is empty it loads ".env"; a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Overlay returns file with every value set in env applied on top.
func Overlay(file FileConfig, env EnvConfig) FileConfig {
	out := file
	setIf(&out.Range.Min, env.Min)
	setIf(&out.Range.Max, env.Max)
	setIf(&out.Range.MaxSpan, env.MaxSpan)
	setIf(&out.Display.Cap, env.Cap)
	setIf(&out.Display.DebounceMs, env.DebounceMs)
	setIf(&out.Display.Highlight, env.Highlight)
	setIf(&out.Cache.Capacity, env.CacheCapacity)
	setIf(&out.Log.Level, env.LogLevel)
	setIf(&out.Log.Format, env.LogFormat)
	return out
}

// Load resolves the file config at path with .env and environment overrides.
func Load(path, dotEnvPath string) (FileConfig, EnvConfig, error) {
	if err := LoadDotEnv(dotEnvPath); err != nil {
		return FileConfig{}, EnvConfig{}, err
	}
	file, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, EnvConfig{}, err
	}
	env, err := LoadFromEnv()
	if err != nil {
		return FileConfig{}, EnvConfig{}, err
	}
	return Overlay(file, env), env, nil
}

func setIf[T any](target **T, value *T) {
	if value != nil {
		*target = value
	}
}
