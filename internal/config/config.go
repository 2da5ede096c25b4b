// Package config loads SignSpeak settings from defaults, an optional YAML file
// and SIGNSPEAK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched for in the config paths.
const FileName = "signspeak"

// EnvPrefix prefixes environment overrides, e.g. SIGNSPEAK_CAMERA_FPS.
const EnvPrefix = "SIGNSPEAK"

type Camera struct {
	Device int `mapstructure:"device" yaml:"device"`
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
	FPS    int `mapstructure:"fps" yaml:"fps"`
}

type Detector struct {
	MaxHands              int     `mapstructure:"max_hands" yaml:"max_hands"`
	MinConfidence         float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
	MinTrackingConfidence float64 `mapstructure:"min_tracking_confidence" yaml:"min_tracking_confidence"`
}

type Plugins struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	TimeoutMs int    `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	// Speech names the plugin that speaks the transcript.
	Speech string `mapstructure:"speech" yaml:"speech"`
	// SpeechTimeoutMs bounds one speak run; zero falls back to TimeoutMs.
	// The speech plugin returns only once the audio has played, so it gets
	// its own, longer deadline.
	SpeechTimeoutMs int `mapstructure:"speech_timeout_ms" yaml:"speech_timeout_ms"`
}

// Config is the full application configuration.
type Config struct {
	ListenAddr string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	DataDir    string   `mapstructure:"data_dir" yaml:"data_dir"`
	StaticDir  string   `mapstructure:"static_dir" yaml:"static_dir"`
	LogLevel   string   `mapstructure:"log_level" yaml:"log_level"`
	Tray       bool     `mapstructure:"tray" yaml:"tray"`
	Camera     Camera   `mapstructure:"camera" yaml:"camera"`
	Detector   Detector `mapstructure:"detector" yaml:"detector"`
	Plugins    Plugins  `mapstructure:"plugins" yaml:"plugins"`
}

// HomeDir returns ~/.signspeak, or ".signspeak" if the home directory is unknown.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".signspeak"
	}
	return filepath.Join(home, ".signspeak")
}

// Default returns the built-in configuration.
func Default() Config {
	home := HomeDir()
	return Config{
		ListenAddr: ":8080",
		DataDir:    home,
		LogLevel:   "info",
		Camera: Camera{
			Device: 0,
			Width:  640,
			Height: 480,
			FPS:    15,
		},
		Detector: Detector{
			MaxHands:              2,
			MinConfidence:         0.5,
			MinTrackingConfidence: 0.5,
		},
		Plugins: Plugins{
			Dir:       filepath.Join(home, "plugins"),
			TimeoutMs:       5000,
			Speech:          "speech",
			SpeechTimeoutMs: 60000,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("static_dir", d.StaticDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("tray", d.Tray)
	v.SetDefault("camera.device", d.Camera.Device)
	v.SetDefault("camera.width", d.Camera.Width)
	v.SetDefault("camera.height", d.Camera.Height)
	v.SetDefault("camera.fps", d.Camera.FPS)
	v.SetDefault("detector.max_hands", d.Detector.MaxHands)
	v.SetDefault("detector.min_confidence", d.Detector.MinConfidence)
	v.SetDefault("detector.min_tracking_confidence", d.Detector.MinTrackingConfidence)
	v.SetDefault("plugins.dir", d.Plugins.Dir)
	v.SetDefault("plugins.timeout_ms", d.Plugins.TimeoutMs)
	v.SetDefault("plugins.speech", d.Plugins.Speech)
	v.SetDefault("plugins.speech_timeout_ms", d.Plugins.SpeechTimeoutMs)
}

// New returns a viper instance with defaults, search paths and environment
// bindings set up but nothing read yet. Callers may bind flags to it before
// calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(HomeDir())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration. An explicit path must exist; without one the
// search paths are tried and a missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ListenAddr) == "":
		return errors.New("config: listen_addr must not be empty")
	case c.Camera.FPS <= 0:
		return fmt.Errorf("config: camera.fps must be positive, got %d", c.Camera.FPS)
	case c.Camera.Width < 0 || c.Camera.Height < 0:
		return errors.New("config: camera width and height must not be negative")
	case c.Detector.MaxHands <= 0:
		return fmt.Errorf("config: detector.max_hands must be positive, got %d", c.Detector.MaxHands)
	case c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1:
		return fmt.Errorf("config: detector.min_confidence must be in [0, 1], got %g", c.Detector.MinConfidence)
	case c.Detector.MinTrackingConfidence < 0 || c.Detector.MinTrackingConfidence > 1:
		return fmt.Errorf("config: detector.min_tracking_confidence must be in [0, 1], got %g", c.Detector.MinTrackingConfidence)
	case c.Plugins.TimeoutMs < 0:
		return fmt.Errorf("config: plugins.timeout_ms must not be negative, got %d", c.Plugins.TimeoutMs)
	case c.Plugins.SpeechTimeoutMs < 0:
		return fmt.Errorf("config: plugins.speech_timeout_ms must not be negative, got %d", c.Plugins.SpeechTimeoutMs)
	}
	return nil
}

// SpeechTimeout returns the deadline in milliseconds for one speak run.
func (p Plugins) SpeechTimeout() int {
	if p.SpeechTimeoutMs > 0 {
		return p.SpeechTimeoutMs
	}
	return p.TimeoutMs
}

// DatabasePath returns the sqlite file inside the data directory.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "signspeak.db")
}

// Write serializes cfg as YAML to path, creating parent directories.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
