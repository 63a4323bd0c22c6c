// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/docprops"
	"github.com/jeranaias/classmark/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete classmark configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	Document  DocumentConfig  `toml:"document" json:"document" yaml:"document"`
	Watermark WatermarkConfig `toml:"watermark" json:"watermark" yaml:"watermark"`
	Identity  IdentityConfig  `toml:"identity" json:"identity" yaml:"identity"`
	Storage   StorageConfig   `toml:"storage" json:"storage" yaml:"storage"`
	Dialog    DialogConfig    `toml:"dialog" json:"dialog" yaml:"dialog"`
	Log       LogConfig       `toml:"log" json:"log" yaml:"log"`
}

// DocumentConfig controls where the classification is recorded.
type DocumentConfig struct {
	// PropertyName is the custom document property holding the level.
	PropertyName string `toml:"property_name" json:"property_name" yaml:"property_name" validate:"required,max=255"`
}

// WatermarkConfig controls overlay composition.
type WatermarkConfig struct {
	Enabled     bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	FontFace    string `toml:"font_face" json:"font_face" yaml:"font_face" validate:"required"`
	EditorColor string `toml:"editor_color" json:"editor_color" yaml:"editor_color" validate:"required,hexcolor"`
	Locale      string `toml:"locale" json:"locale" yaml:"locale" validate:"required,bcp47_language_tag"`
}

// IdentityConfig overrides the editor name stamped on documents.
type IdentityConfig struct {
	DisplayName string `toml:"display_name" json:"display_name" yaml:"display_name"`
}

// StorageConfig locates the sidecar database.
type StorageConfig struct {
	// SidecarPath defaults to ~/.classmark/sidecar.db when empty.
	SidecarPath string `toml:"sidecar_path" json:"sidecar_path" yaml:"sidecar_path"`
}

// DialogConfig selects the classification prompt.
type DialogConfig struct {
	Mode string `toml:"mode" json:"mode" yaml:"mode" validate:"oneof=auto tui line"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" json:"format" yaml:"format" validate:"oneof=text json"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Document: DocumentConfig{
			PropertyName: docprops.DefaultProperty,
		},
		Watermark: WatermarkConfig{
			Enabled:     true,
			FontFace:    "Segoe UI",
			EditorColor: classification.Gray.Hex(),
			Locale:      "en",
		},
		Dialog: DialogConfig{
			Mode: "auto",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the classmark configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".classmark"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.classmark. TOML wins over JSON and both
// fall back to defaults. Environment overrides are applied last.
//
// A file that fails to decode is reported alongside the defaults so callers
// can warn and continue.
func Load() (*Config, error) {
	var loadErr error

	for _, candidate := range []struct {
		path func() (string, error)
		load func(*Config, string) error
		kind string
	}{
		{ConfigPathTOML, LoadTOML, "TOML"},
		{ConfigPathJSON, LoadJSON, "JSON"},
	} {
		path, err := candidate.path()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg := Default()
		if err := candidate.load(cfg, path); err != nil {
			loadErr = errors.Join(loadErr, fmt.Errorf("failed to load %s config: %w", candidate.kind, err))
			continue
		}
		return finish(cfg)
	}

	cfg, err := finish(Default())
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadYAML loads configuration from a YAML file.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFile decodes path by extension on top of the defaults, without
// environment overrides or validation. Anything unrecognised is read as
// TOML.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with
// environment overrides and full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := fillDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if strings.TrimSpace(cfg.Document.PropertyName) == "" {
		cfg.Document.PropertyName = defaults.Document.PropertyName
	}
	if cfg.Watermark.FontFace == "" {
		cfg.Watermark.FontFace = defaults.Watermark.FontFace
	}
	if cfg.Watermark.EditorColor == "" {
		cfg.Watermark.EditorColor = defaults.Watermark.EditorColor
	}
	if cfg.Watermark.Locale == "" {
		cfg.Watermark.Locale = defaults.Watermark.Locale
	}
	if cfg.Dialog.Mode == "" {
		cfg.Dialog.Mode = defaults.Dialog.Mode
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
	cfg.Dialog.Mode = strings.ToLower(cfg.Dialog.Mode)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf strings.Builder
	buf.WriteString("# classmark configuration file\n")
	buf.WriteString("# Generated by classmark - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to path as indented JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveYAML writes the configuration to path as YAML.
func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveFile writes cfg in the format matching path's extension.
func SaveFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(cfg, path)
	case ".yaml", ".yml":
		return SaveYAML(cfg, path)
	default:
		return SaveTOML(cfg, path)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e ValidateErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their TOML keys.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := structValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   dottedField(fe.Namespace()),
				Message: describe(fe),
			})
		}
	}

	// hexcolor also admits short and alpha forms; overlays need #RRGGBB.
	if !errs.Has("watermark.editor_color") {
		if _, err := classification.ParseRGB(c.Watermark.EditorColor); err != nil {
			errs = append(errs, ValidationError{
				Field:   "watermark.editor_color",
				Message: fmt.Sprintf("invalid color '%s', want #RRGGBB", c.Watermark.EditorColor),
			})
		}
	}

	if !errs.Has("watermark.locale") && !supportedLocale(c.Watermark.Locale) {
		errs = append(errs, ValidationError{
			Field: "watermark.locale",
			Message: fmt.Sprintf("unsupported locale '%s', must be one of: %s",
				c.Watermark.Locale, strings.Join(classification.SupportedLocales(), ", ")),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// dottedField turns "Config.watermark.locale" into "watermark.locale".
func dottedField(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("invalid value '%v', must be one of: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor":
		return fmt.Sprintf("invalid color '%v', want #RRGGBB", fe.Value())
	case "bcp47_language_tag":
		return fmt.Sprintf("invalid language tag '%v'", fe.Value())
	case "max":
		return fmt.Sprintf("longer than %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' check", fe.Tag())
	}
}

func supportedLocale(locale string) bool {
	base := strings.ToLower(locale)
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	for _, s := range classification.SupportedLocales() {
		if base == s {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies CLASSMARK_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CLASSMARK_PROPERTY"); v != "" {
		c.Document.PropertyName = v
	}
	if v := os.Getenv("CLASSMARK_DISPLAY_NAME"); v != "" {
		c.Identity.DisplayName = v
	}
	if v := os.Getenv("CLASSMARK_SIDECAR"); v != "" {
		c.Storage.SidecarPath = v
	}
	if v := os.Getenv("CLASSMARK_DIALOG"); v != "" {
		c.Dialog.Mode = v
	}
	if v := os.Getenv("CLASSMARK_LOCALE"); v != "" {
		c.Watermark.Locale = v
	}
	if v := os.Getenv("CLASSMARK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CLASSMARK_WATERMARKS"); v != "" {
		c.Watermark.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "dialog.mode").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(strVal)
			if err != nil {
				b = strings.EqualFold(strVal, "yes")
			}
			field.SetBool(b)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"document.property_name",
		"watermark.enabled",
		"watermark.font_face",
		"watermark.editor_color",
		"watermark.locale",
		"identity.display_name",
		"storage.sidecar_path",
		"dialog.mode",
		"log.level",
		"log.format",
	}
}

// Clone returns a copy of the configuration. Config holds no reference
// types so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// A broken config file leaves the defaults in place.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if cfg == nil {
			cfg = Default()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
