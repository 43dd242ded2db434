// Package config loads mixerctl settings. Precedence, lowest first: built-in
// defaults, the TOML config file, MIXERCTL_* environment variables, command
// line flags the user explicitly set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"

	"github.com/michaelquigley/mixerctl/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. MIXERCTL_UI_STEP
const EnvPrefix = "MIXERCTL"

const (
	BackendAlsaLib = "alsalib"
	BackendKernel  = "kernel"

	TabPlayback = "playback"
	TabCapture  = "capture"
)

// Flag names understood by ApplyFlags
const (
	FlagDevice      = "device"
	FlagBackend     = "backend"
	FlagCard        = "card"
	FlagPollTimeout = "poll-timeout"
	FlagStep        = "step"
	FlagLogLevel    = "log-level"
	FlagLogFile     = "log-file"
)

// Config holds all application configuration.
type Config struct {
	// Device is the alsa-lib mixer device name
	Device string `toml:"device" envconfig:"DEVICE"`
	// Backend selects alsalib (cgo) or kernel (pure Go control ioctls)
	Backend string `toml:"backend" envconfig:"BACKEND"`
	// Card is the card number opened by the kernel backend
	Card int `toml:"card" envconfig:"CARD"`
	// PollTimeoutMs bounds each wait for mixer notifications
	PollTimeoutMs int `toml:"poll_timeout_ms" envconfig:"POLL_TIMEOUT_MS"`

	UI      UI             `toml:"ui" envconfig:"UI"`
	Logging logging.Config `toml:"logging" envconfig:"LOGGING"`
}

// UI holds terminal view settings
type UI struct {
	// Step is the slider step in percent of its range
	Step int `toml:"step" envconfig:"STEP"`
	// PageStep is the page up/down step in percent of its range
	PageStep int `toml:"page_step" envconfig:"PAGE_STEP"`
	// StartTab is the tab shown first: playback or capture
	StartTab string `toml:"start_tab" envconfig:"START_TAB"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Device:        "default",
		Backend:       BackendAlsaLib,
		Card:          0,
		PollTimeoutMs: 1000,
		UI: UI{
			Step:     2,
			PageStep: 10,
			StartTab: TabPlayback,
		},
		Logging: logging.Config{
			Level:   "info",
			Format:  "text",
			File:    DefaultLogFile(),
			Modules: make(map[string]string),
		},
	}
}

// DefaultPath returns the config file found in the XDG config directories,
// or "" when there is none
func DefaultPath() string {
	path, err := xdg.SearchConfigFile(filepath.Join("mixerctl", "config.toml"))
	if err != nil {
		return ""
	}
	return path
}

// DefaultLogFile returns the log file under the XDG state directory
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "mixerctl", "mixerctl.log")
}

// Load builds the configuration. An empty path falls back to DefaultPath and
// tolerates a missing file; an explicit path must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := ApplyFlags(cfg, flags); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("failed to parse TOML config %s: %s", path, strict.String())
		}
		return fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}
	return nil
}

// ApplyFlags copies every flag the user explicitly set onto cfg. Flags that
// are not defined in the set are ignored.
func ApplyFlags(cfg *Config, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}

	var err error
	changed := func(name string) bool {
		return err == nil && flags.Lookup(name) != nil && flags.Changed(name)
	}

	if changed(FlagDevice) {
		cfg.Device, err = flags.GetString(FlagDevice)
	}
	if changed(FlagBackend) {
		cfg.Backend, err = flags.GetString(FlagBackend)
	}
	if changed(FlagCard) {
		cfg.Card, err = flags.GetInt(FlagCard)
	}
	if changed(FlagPollTimeout) {
		cfg.PollTimeoutMs, err = flags.GetInt(FlagPollTimeout)
	}
	if changed(FlagStep) {
		cfg.UI.Step, err = flags.GetInt(FlagStep)
	}
	if changed(FlagLogLevel) {
		cfg.Logging.Level, err = flags.GetString(FlagLogLevel)
	}
	if changed(FlagLogFile) {
		cfg.Logging.File, err = flags.GetString(FlagLogFile)
	}

	if err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}
	return nil
}

// Validate checks every setting and reports all problems at once
func (c *Config) Validate() error {
	var errs []error

	if c.Device == "" && c.Backend == BackendAlsaLib {
		errs = append(errs, errors.New("device must not be empty"))
	}
	switch c.Backend {
	case BackendAlsaLib, BackendKernel:
	default:
		errs = append(errs, fmt.Errorf("unknown backend '%s' (use %s or %s)", c.Backend, BackendAlsaLib, BackendKernel))
	}
	if c.Card < 0 {
		errs = append(errs, fmt.Errorf("card must not be negative, got %d", c.Card))
	}
	if c.PollTimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("poll_timeout_ms must be positive, got %d", c.PollTimeoutMs))
	}
	if c.UI.Step < 1 || c.UI.Step > 100 {
		errs = append(errs, fmt.Errorf("ui.step must be within 1..100, got %d", c.UI.Step))
	}
	if c.UI.PageStep < 1 || c.UI.PageStep > 100 {
		errs = append(errs, fmt.Errorf("ui.page_step must be within 1..100, got %d", c.UI.PageStep))
	}
	switch strings.ToLower(c.UI.StartTab) {
	case TabPlayback, TabCapture:
	default:
		errs = append(errs, fmt.Errorf("ui.start_tab must be %s or %s, got '%s'", TabPlayback, TabCapture, c.UI.StartTab))
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("invalid logging.level '%s'", c.Logging.Level))
	}
	for module, level := range c.Logging.Modules {
		if !logging.ValidLevel(level) {
			errs = append(errs, fmt.Errorf("invalid logging.modules.%s level '%s'", module, level))
		}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got '%s'", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
