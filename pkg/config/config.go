// Package config loads and validates the glean configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	DefaultModel       = "google/gemini-2.0-flash-exp"
	DefaultTemperature = 0.4

	configName  = ".glean_cfg"
	sectionName = "openrouter"
)

var (
	ErrNotFound       = errors.New("configuration file not found")
	ErrMissingSection = errors.New("[openrouter] section not found in config file")
	ErrMissingAPIKey  = errors.New("api_key not found in [openrouter] section")
)

// Settings holds the validated configuration. It is returned by value and
// never modified after Load.
type Settings struct {
	APIKey             string
	Model              string
	Temperature        float64
	SystemPrompt       string
	HTTPProxy          string
	InsecureSkipVerify bool
}

// Warnf reports non-fatal problems with optional settings.
type Warnf func(format string, args ...any)

// DefaultPath returns the fixed config location, ~/.glean_cfg.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}

	return filepath.Join(home, configName), nil
}

// Load reads and validates the config file at path. A missing file, a missing
// [openrouter] section and a missing api_key are errors; a malformed optional
// value is reported through warnf and the default is kept.
func Load(path string, warnf Warnf) (Settings, error) {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}

	if _, err := os.Stat(path); err != nil {
		return Settings{}, fmt.Errorf("%w at %s (create it with your OpenRouter API key; see README.md for the format)", ErrNotFound, path)
	}

	file, err := ini.Load(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading configuration file: %w", err)
	}

	sec, err := file.GetSection(sectionName)
	if err != nil {
		return Settings{}, ErrMissingSection
	}

	if !sec.HasKey("api_key") {
		return Settings{}, ErrMissingAPIKey
	}

	settings := Settings{
		APIKey:      sec.Key("api_key").String(),
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}

	if sec.HasKey("model") {
		settings.Model = sec.Key("model").String()
	}

	if sec.HasKey("temperature") {
		temp, err := sec.Key("temperature").Float64()
		if err != nil {
			warnf("invalid temperature value in config, using default %v", DefaultTemperature)
		} else {
			settings.Temperature = temp
		}
	}

	if sec.HasKey("system_prompt") {
		settings.SystemPrompt = sec.Key("system_prompt").String()
	}

	if sec.HasKey("http_proxy") {
		settings.HTTPProxy = sec.Key("http_proxy").String()
	}

	if sec.HasKey("insecure_skip_verify") {
		insecure, err := sec.Key("insecure_skip_verify").Bool()
		if err != nil {
			warnf("invalid insecure_skip_verify value in config, keeping certificate verification on")
		} else {
			settings.InsecureSkipVerify = insecure
		}
	}

	return settings, nil
}
