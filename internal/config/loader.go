package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr              string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelPath         string   `json:"model_path" yaml:"model_path" toml:"model_path"`
	ModelURL          string   `json:"model_url" yaml:"model_url" toml:"model_url"`
	LabelsPath        string   `json:"labels_path" yaml:"labels_path" toml:"labels_path"`
	CacheDir          string   `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	ORTLibrary        string   `json:"ort_library" yaml:"ort_library" toml:"ort_library"`
	Version           int      `json:"version" yaml:"version" toml:"version"`
	Alpha             float64  `json:"alpha" yaml:"alpha" toml:"alpha"`
	ImageSize         int      `json:"image_size" yaml:"image_size" toml:"image_size"`
	InputName         string   `json:"input_name" yaml:"input_name" toml:"input_name"`
	OutputName        string   `json:"output_name" yaml:"output_name" toml:"output_name"`
	TopK              int      `json:"top_k" yaml:"top_k" toml:"top_k"`
	MaxUploadMB       int      `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	SessionTTLSeconds int      `json:"session_ttl_seconds" yaml:"session_ttl_seconds" toml:"session_ttl_seconds"`
	LogLevel          string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat         string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	CORSEnabled       bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins       []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Defaults for unset fields. MobileNet v2 with width multiplier 1.0 at 224px
// matches the model the page was built around.
const (
	DefaultAddr              = ":8080"
	DefaultCacheDir          = "~/.cache/visiond"
	DefaultVersion           = 2
	DefaultAlpha             = 1.0
	DefaultImageSize         = 224
	DefaultInputName         = "input"
	DefaultOutputName        = "output"
	DefaultTopK              = 5
	MaxTopK                  = 5
	DefaultMaxUploadMB       = 10
	DefaultSessionTTLSeconds = 30 * 60
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// WithDefaults returns a copy of cfg with every unset field filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" { c.Addr = DefaultAddr }
	if c.CacheDir == "" { c.CacheDir = DefaultCacheDir }
	if c.Version <= 0 { c.Version = DefaultVersion }
	if c.Alpha <= 0 { c.Alpha = DefaultAlpha }
	if c.ImageSize <= 0 { c.ImageSize = DefaultImageSize }
	if c.InputName == "" { c.InputName = DefaultInputName }
	if c.OutputName == "" { c.OutputName = DefaultOutputName }
	if c.TopK <= 0 { c.TopK = DefaultTopK }
	if c.TopK > MaxTopK { c.TopK = MaxTopK }
	if c.MaxUploadMB <= 0 { c.MaxUploadMB = DefaultMaxUploadMB }
	if c.SessionTTLSeconds <= 0 { c.SessionTTLSeconds = DefaultSessionTTLSeconds }
	if c.LogLevel == "" { c.LogLevel = DefaultLogLevel }
	if c.LogFormat == "" { c.LogFormat = DefaultLogFormat }
	return c
}

// Merge overlays the non-zero fields of o onto c. Used to let flags win over
// values read from a file.
func (c Config) Merge(o Config) Config {
	if o.Addr != "" { c.Addr = o.Addr }
	if o.ModelPath != "" { c.ModelPath = o.ModelPath }
	if o.ModelURL != "" { c.ModelURL = o.ModelURL }
	if o.LabelsPath != "" { c.LabelsPath = o.LabelsPath }
	if o.CacheDir != "" { c.CacheDir = o.CacheDir }
	if o.ORTLibrary != "" { c.ORTLibrary = o.ORTLibrary }
	if o.Version > 0 { c.Version = o.Version }
	if o.Alpha > 0 { c.Alpha = o.Alpha }
	if o.ImageSize > 0 { c.ImageSize = o.ImageSize }
	if o.InputName != "" { c.InputName = o.InputName }
	if o.OutputName != "" { c.OutputName = o.OutputName }
	if o.TopK > 0 { c.TopK = o.TopK }
	if o.MaxUploadMB > 0 { c.MaxUploadMB = o.MaxUploadMB }
	if o.SessionTTLSeconds > 0 { c.SessionTTLSeconds = o.SessionTTLSeconds }
	if o.LogLevel != "" { c.LogLevel = o.LogLevel }
	if o.LogFormat != "" { c.LogFormat = o.LogFormat }
	if o.CORSEnabled { c.CORSEnabled = true }
	if len(o.CORSOrigins) > 0 { c.CORSOrigins = append([]string(nil), o.CORSOrigins...) }
	return c
}
