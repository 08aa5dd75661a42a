// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/bnema/js2mouse/internal/mapping"
	"github.com/spf13/viper"
)

// ErrInvalid is returned when the configuration cannot be turned into Settings
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration as read from disk
type Config struct {
	Device    DeviceConfig   `mapstructure:"device"`
	Stick     StickConfig    `mapstructure:"stick"`
	Deadzones DeadzoneConfig `mapstructure:"deadzones"`
	Session   SessionConfig  `mapstructure:"session"`
	Injector  InjectorConfig `mapstructure:"injector"`
	Logging   LoggingConfig  `mapstructure:"logging"`
}

// DeviceConfig selects the joystick and how it is read
type DeviceConfig struct {
	Dir            string `mapstructure:"dir"`
	Name           string `mapstructure:"name"`
	Blocking       bool   `mapstructure:"blocking"`         // Block on read; disables the idle timeout
	PollIntervalMs int    `mapstructure:"poll_interval_ms"` // Sleep between empty non-blocking reads
}

// StickConfig controls pointer movement
type StickConfig struct {
	Handedness string `mapstructure:"handedness"` // "right" or "left"
	Scale      int    `mapstructure:"scale"`      // Raw units per pixel of movement
	Repeat     bool   `mapstructure:"repeat"`     // Keep moving while the stick is held
}

// DeadzoneConfig holds per control group thresholds in raw axis units
type DeadzoneConfig struct {
	RightStick   int `mapstructure:"right_stick"`
	LeftStick    int `mapstructure:"left_stick"`
	RightTrigger int `mapstructure:"right_trigger"`
	LeftTrigger  int `mapstructure:"left_trigger"`
	DPad         int `mapstructure:"dpad"`
}

// SessionConfig controls idle detection
type SessionConfig struct {
	IdleTimeoutSeconds int `mapstructure:"idle_timeout_seconds"` // 0 disables the prompt
}

// InjectorConfig selects how synthetic input reaches the desktop
type InjectorConfig struct {
	Backend     string `mapstructure:"backend"` // auto, xdotool, uinput, dry-run
	XdotoolPath string `mapstructure:"xdotool_path"`
	UinputPath  string `mapstructure:"uinput_path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig mirrors the stock Xbox 360 setup
	DefaultConfig = Config{
		Device: DeviceConfig{
			Dir:            joystick.DefaultDir,
			Name:           joystick.DefaultName,
			Blocking:       false,
			PollIntervalMs: 10,
		},
		Stick: StickConfig{
			Handedness: "right",
			Scale:      mapping.DefaultNudgeScale,
			Repeat:     true,
		},
		Deadzones: DeadzoneConfig{
			RightStick:   mapping.DefaultDeadzone,
			LeftStick:    mapping.DefaultDeadzone,
			RightTrigger: mapping.DefaultDeadzone,
			LeftTrigger:  mapping.DefaultDeadzone,
			DPad:         mapping.DefaultDeadzone,
		},
		Session: SessionConfig{
			IdleTimeoutSeconds: 5,
		},
		Injector: InjectorConfig{
			Backend:     "auto",
			XdotoolPath: "xdotool",
			UinputPath:  "/dev/uinput",
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("js2mouse")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath("/etc/js2mouse")

		// If running with sudo, try the real user's config
		if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
			viper.AddConfigPath(fmt.Sprintf("/home/%s/.config/js2mouse", sudoUser))
		} else if home := os.Getenv("HOME"); home != "" && home != "/root" {
			viper.AddConfigPath(filepath.Join(home, ".config", "js2mouse"))
		}

		viper.AddConfigPath(".")
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config path that does not exist yet is not an error
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	cfg = c

	return nil
}

// setDefaults registers every key so env/flag bindings and merging work
func setDefaults() {
	d := DefaultConfig

	viper.SetDefault("device.dir", d.Device.Dir)
	viper.SetDefault("device.name", d.Device.Name)
	viper.SetDefault("device.blocking", d.Device.Blocking)
	viper.SetDefault("device.poll_interval_ms", d.Device.PollIntervalMs)

	viper.SetDefault("stick.handedness", d.Stick.Handedness)
	viper.SetDefault("stick.scale", d.Stick.Scale)
	viper.SetDefault("stick.repeat", d.Stick.Repeat)

	viper.SetDefault("deadzones.right_stick", d.Deadzones.RightStick)
	viper.SetDefault("deadzones.left_stick", d.Deadzones.LeftStick)
	viper.SetDefault("deadzones.right_trigger", d.Deadzones.RightTrigger)
	viper.SetDefault("deadzones.left_trigger", d.Deadzones.LeftTrigger)
	viper.SetDefault("deadzones.dpad", d.Deadzones.DPad)

	viper.SetDefault("session.idle_timeout_seconds", d.Session.IdleTimeoutSeconds)

	viper.SetDefault("injector.backend", d.Injector.Backend)
	viper.SetDefault("injector.xdotool_path", d.Injector.XdotoolPath)
	viper.SetDefault("injector.uinput_path", d.Injector.UinputPath)

	viper.SetDefault("logging.log_level", d.Logging.LogLevel)
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		c := DefaultConfig
		return &c
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save writes the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		if os.IsPermission(err) && strings.Contains(configPath, "/etc/") {
			return fmt.Errorf("failed to create config directory %s: permission denied. Try running with sudo", dir)
		}
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	if os.Getuid() == 0 || os.Getenv("SUDO_USER") != "" {
		return "/etc/js2mouse/js2mouse.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/js2mouse/js2mouse.toml"
	}

	return filepath.Join(home, ".config", "js2mouse", "js2mouse.toml")
}

// Settings is the validated, immutable view of a Config that the
// translation engine runs with. It is built once at startup.
type Settings struct {
	DevicePath   string
	Blocking     bool
	PollInterval time.Duration
	Handedness   mapping.Handedness
	Scale        int
	Repeat       bool
	Deadzones    mapping.Deadzones
	IdleTimeout  time.Duration // zero disables the idle prompt
	Layout       mapping.Layout
}

// Settings validates the config and freezes it
func (c *Config) Settings() (Settings, error) {
	hand, err := mapping.ParseHandedness(c.Stick.Handedness)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: stick.handedness: %v", ErrInvalid, err)
	}

	dz := mapping.Deadzones{
		RightStick:   c.Deadzones.RightStick,
		LeftStick:    c.Deadzones.LeftStick,
		RightTrigger: c.Deadzones.RightTrigger,
		LeftTrigger:  c.Deadzones.LeftTrigger,
		DPad:         c.Deadzones.DPad,
	}
	if err := dz.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if c.Stick.Scale <= 0 {
		return Settings{}, fmt.Errorf("%w: stick.scale must be positive, got %d", ErrInvalid, c.Stick.Scale)
	}
	if c.Session.IdleTimeoutSeconds < 0 {
		return Settings{}, fmt.Errorf("%w: session.idle_timeout_seconds must not be negative", ErrInvalid)
	}
	if c.Device.PollIntervalMs < 0 {
		return Settings{}, fmt.Errorf("%w: device.poll_interval_ms must not be negative", ErrInvalid)
	}

	idle := time.Duration(c.Session.IdleTimeoutSeconds) * time.Second
	if c.Device.Blocking {
		// a blocking read never returns "no data", so idleness is never observed
		idle = 0
	}

	return Settings{
		DevicePath:   joystick.ResolvePath(c.Device.Dir, c.Device.Name),
		Blocking:     c.Device.Blocking,
		PollInterval: time.Duration(c.Device.PollIntervalMs) * time.Millisecond,
		Handedness:   hand,
		Scale:        c.Stick.Scale,
		Repeat:       c.Stick.Repeat,
		Deadzones:    dz,
		IdleTimeout:  idle,
		Layout:       mapping.Xbox360(),
	}, nil
}
