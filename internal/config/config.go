/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type GenerationConfig struct {
	Model        string `yaml:"model"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	ImageBaseURL string `yaml:"image_base_url"`
	ImageSize    string `yaml:"image_size"` // WxH requested from the image service
	// The API key is not stored on disk; it lives in the OS keychain.
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	General       GeneralConfig    `yaml:"general"`
	Generation    GenerationConfig `yaml:"generation"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Generation: GenerationConfig{
			Model:        "gemini-2.5-flash",
			TimeoutMs:    90000,
			ImageBaseURL: "https://source.unsplash.com",
			ImageSize:    "1280x720",
		},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvModel          = "GSW_MODEL"
	EnvTimeoutMs      = "GSW_GENERATION_TIMEOUT_MS"
	EnvImageBaseURL   = "GSW_IMAGE_BASE_URL"
	EnvImageSize      = "GSW_IMAGE_SIZE"
	EnvTelemetryOptIn = "GSW_TELEMETRY_OPT_IN"
	EnvTheme          = "GSW_THEME"
	// EnvAPIKey takes precedence over the keychain; EnvGoogleAPIKey is the
	// variable the Gemini tooling uses and is consulted last.
	EnvAPIKey       = "GSW_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GSW_LOG_LEVEL"
	EnvLogFormat = "GSW_LOG_FORMAT"
	EnvLogSource = "GSW_LOG_SOURCE"
	EnvLogFile   = "GSW_LOG_FILE"
	// EnvConfigDir relocates the config file (tests, portable installs).
	EnvConfigDir = "GSW_CONFIG_DIR"
)

// Service/keys for OS keyring.
const (
	keyringService = "GoSlideWriter"
	keyringAPIKey  = "gemini_api_key"
)

// ErrMissingAPIKey is returned by ResolveAPIKey when no key is configured anywhere.
var ErrMissingAPIKey = errors.New("no Gemini API key configured; run 'goslidewriter config set-key' or set " + EnvAPIKey)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if d := strings.TrimSpace(os.Getenv(EnvConfigDir)); d != "" {
		return filepath.Join(d, "config.yaml"), nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoSlideWriter")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoSlideWriter")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "goslidewriter")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// The API key is resolved separately (see ResolveAPIKey) and never kept in the struct.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	key, _ := ResolveAPIKey()
	return cfg, key, nil
}

// ResolveAPIKey looks up the Gemini API key: GSW_API_KEY, then the OS keychain,
// then GOOGLE_API_KEY.
func ResolveAPIKey() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		return v, nil
	}
	if v, err := tokenStore.Get(keyringService, keyringAPIKey); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}
	if v := strings.TrimSpace(os.Getenv(EnvGoogleAPIKey)); v != "" {
		return v, nil
	}
	return "", ErrMissingAPIKey
}

// Save writes the user config YAML and persists the API key into the OS keyring (if non-empty).
func Save(cfg AppConfig, apiKey string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if apiKey != "" {
		return SaveAPIKey(apiKey)
	}
	return nil
}

// SaveAPIKey stores the API key in the OS keychain.
func SaveAPIKey(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("api key is empty")
	}
	return tokenStore.Set(keyringService, keyringAPIKey, apiKey)
}

// DeleteAPIKey removes the API key from the OS keychain.
func DeleteAPIKey() error { return tokenStore.Delete(keyringService, keyringAPIKey) }

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if strings.TrimSpace(src.Generation.Model) != "" {
		dst.Generation.Model = strings.TrimSpace(src.Generation.Model)
	}
	if src.Generation.TimeoutMs != 0 {
		dst.Generation.TimeoutMs = src.Generation.TimeoutMs
	}
	if strings.TrimSpace(src.Generation.ImageBaseURL) != "" {
		dst.Generation.ImageBaseURL = strings.TrimRight(strings.TrimSpace(src.Generation.ImageBaseURL), "/")
	}
	if strings.TrimSpace(src.Generation.ImageSize) != "" {
		dst.Generation.ImageSize = strings.TrimSpace(src.Generation.ImageSize)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		cfg.Generation.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generation.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvImageBaseURL)); v != "" {
		cfg.Generation.ImageBaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(EnvImageSize)); v != "" {
		cfg.Generation.ImageSize = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "generation.model":
		env = EnvModel
	case "generation.timeout_ms":
		env = EnvTimeoutMs
	case "generation.image_base_url":
		env = EnvImageBaseURL
	case "generation.image_size":
		env = EnvImageSize
	case "general.telemetry_opt_in":
		env = EnvTelemetryOptIn
	case "general.theme":
		env = EnvTheme
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// Timeout returns the generation request timeout, falling back to the default.
func (g GenerationConfig) Timeout() time.Duration {
	if g.TimeoutMs <= 0 {
		return time.Duration(Defaults().Generation.TimeoutMs) * time.Millisecond
	}
	return time.Duration(g.TimeoutMs) * time.Millisecond
}
