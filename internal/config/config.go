// Package config loads and validates the chat server's YAML configuration,
// the way bobbydeveaux-starbucks-mugs/internal/config loads and validates
// its agent config: read, unmarshal, default, validate, and wrap any
// error with the file path.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codegod100/chatserver/internal/wsserver"
)

// AppConfig is the on-disk shape of the server's configuration (spec.md
// §4.H). Every field is optional; omitted fields take the default from
// Default().
type AppConfig struct {
	Port               int    `yaml:"port"`
	StaticRoot         string `yaml:"static_root"`
	MaxFrameBytes      int64  `yaml:"max_frame_bytes"`
	MaxHeaderBytes     int    `yaml:"max_header_bytes"`
	MaxStaticFileBytes int64  `yaml:"max_static_file_bytes"`
	PollTimeoutMS      int    `yaml:"poll_timeout_ms"`
	ReadTimeoutSeconds int    `yaml:"read_timeout_seconds"`
	LogLevel           string `yaml:"log_level"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Default returns an AppConfig matching wsserver.DefaultConfig(), with
// Port 8080 and LogLevel "info".
func Default() AppConfig {
	d := wsserver.DefaultConfig()
	return AppConfig{
		Port:               8080,
		StaticRoot:         d.StaticRoot,
		MaxFrameBytes:      d.MaxFrameBytes,
		MaxHeaderBytes:     d.MaxHeaderBytes,
		MaxStaticFileBytes: d.MaxStaticFileBytes,
		PollTimeoutMS:      int(d.PollTimeout / time.Millisecond),
		ReadTimeoutSeconds: int(d.ReadTimeout / time.Second),
		LogLevel:           "info",
	}
}

// Load reads the YAML file at path, if any, and returns a fully defaulted
// and validated AppConfig. An empty path, or a path that does not exist,
// is not an error — the all-default configuration is returned.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return AppConfig{}, fmt.Errorf("config: cannot read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: cannot parse %q: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: validation failed for %q: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills any zero-valued optional field left blank by a
// partial YAML document.
func applyDefaults(cfg *AppConfig) {
	d := Default()
	if cfg.Port == 0 {
		cfg.Port = d.Port
	}
	if cfg.StaticRoot == "" {
		cfg.StaticRoot = d.StaticRoot
	}
	if cfg.MaxFrameBytes == 0 {
		cfg.MaxFrameBytes = d.MaxFrameBytes
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = d.MaxHeaderBytes
	}
	if cfg.MaxStaticFileBytes == 0 {
		cfg.MaxStaticFileBytes = d.MaxStaticFileBytes
	}
	if cfg.PollTimeoutMS == 0 {
		cfg.PollTimeoutMS = d.PollTimeoutMS
	}
	if cfg.ReadTimeoutSeconds == 0 {
		cfg.ReadTimeoutSeconds = d.ReadTimeoutSeconds
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
}

func validate(cfg *AppConfig) error {
	var errs []error
	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d must be in [1, 65535]", cfg.Port))
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level %q must be one of: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.MaxFrameBytes <= 0 {
		errs = append(errs, errors.New("max_frame_bytes must be positive"))
	}
	if cfg.MaxHeaderBytes <= 0 {
		errs = append(errs, errors.New("max_header_bytes must be positive"))
	}
	if cfg.MaxStaticFileBytes <= 0 {
		errs = append(errs, errors.New("max_static_file_bytes must be positive"))
	}
	if cfg.PollTimeoutMS < 0 {
		errs = append(errs, errors.New("poll_timeout_ms must not be negative"))
	}
	if cfg.ReadTimeoutSeconds < 0 {
		errs = append(errs, errors.New("read_timeout_seconds must not be negative"))
	}
	return errors.Join(errs...)
}

// WSServerConfig projects the ceilings and timeouts relevant to
// wsserver.Listen out of the application-level AppConfig.
func (c AppConfig) WSServerConfig() wsserver.Config {
	return wsserver.Config{
		StaticRoot:         c.StaticRoot,
		MaxFrameBytes:      c.MaxFrameBytes,
		MaxHeaderBytes:     c.MaxHeaderBytes,
		MaxStaticFileBytes: c.MaxStaticFileBytes,
		PollTimeout:        time.Duration(c.PollTimeoutMS) * time.Millisecond,
		ReadTimeout:        time.Duration(c.ReadTimeoutSeconds) * time.Second,
	}
}
