// ABOUTME: Program configuration backed by viper
// ABOUTME: Reads the TOML settings file and serves playback settings on reload
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/resonate-spot/pkg/playback"
	"github.com/Resonate-Protocol/resonate-spot/pkg/spot"
	"github.com/spf13/viper"
)

// Name is the config file name without extension
const Name = "resonate-spot"

// DefaultHost is the access point used when ap.host is unset
const DefaultHost = "ap.resonate-spot.local"

// Config is the full program configuration
type Config struct {
	Host     string
	Username string
	Password string
	Token    string
	LogLevel string
	Settings spot.PlaybackSettings
}

var _ spot.SettingsSource = (*Source)(nil)

// Source reads the settings file. Every Load re-reads it from disk, so it
// doubles as the actor's settings reload source.
type Source struct {
	// File is an explicit config path; empty searches the default dirs
	File string
}

// Load reads the config. A missing file is not an error: every key has a
// default.
func (s *Source) Load() (*Config, error) {
	v, err := s.read()
	if err != nil {
		return nil, err
	}

	settings, err := playbackSettings(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Host:     v.GetString("ap.host"),
		Username: v.GetString("auth.username"),
		Password: v.GetString("auth.password"),
		Token:    v.GetString("auth.token"),
		LogLevel: v.GetString("log.level"),
		Settings: settings,
	}, nil
}

// LoadSettings returns only the playback settings
func (s *Source) LoadSettings() (spot.PlaybackSettings, error) {
	cfg, err := s.Load()
	if err != nil {
		return spot.DefaultSettings(), err
	}
	return cfg.Settings, nil
}

func (s *Source) read() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("ap.host", DefaultHost)
	v.SetDefault("player.bitrate", 160)
	v.SetDefault("player.backend", "pulseaudio")
	v.SetDefault("player.device", "default")
	v.SetDefault("log.level", "info")

	if s.File != "" {
		v.SetConfigFile(s.File)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("toml")
		v.AddConfigPath("$HOME/.config/" + Name)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if s.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}
	return v, nil
}

func playbackSettings(v *viper.Viper) (spot.PlaybackSettings, error) {
	settings := spot.DefaultSettings()

	bitrate, err := playback.ParseBitrate(v.GetInt("player.bitrate"))
	if err != nil {
		return settings, err
	}
	settings.Bitrate = bitrate

	switch backend := strings.ToLower(v.GetString("player.backend")); backend {
	case "pulseaudio":
		settings.Backend = spot.AudioBackend{Kind: spot.PulseAudio}
	case "alsa":
		settings.Backend = spot.AudioBackend{Kind: spot.ALSA, Device: v.GetString("player.device")}
	default:
		return settings, fmt.Errorf("unknown audio backend: %s (supported: pulseaudio, alsa)", backend)
	}

	if v.IsSet("player.ap_port") {
		port := v.GetInt("player.ap_port")
		if port <= 0 || port > 65535 {
			return settings, fmt.Errorf("invalid player.ap_port: %d", port)
		}
		p := uint16(port)
		settings.APPort = &p
	}

	return settings, nil
}
