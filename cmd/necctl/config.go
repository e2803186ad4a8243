package main

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/necctl/internal/display"
)

const (
	defaultAddress = "10.0.0.240"
	defaultPort    = "7142"
)

type fileConfig struct {
	Address string `toml:"address"`
	Port    string `toml:"port"`
	Timeout string `toml:"timeout"`
}

// clientSettings is the merged view of defaults, config file and flags.
type clientSettings struct {
	address string
	port    string
	timeout time.Duration
}

func defaultSettings() clientSettings {
	return clientSettings{
		address: defaultAddress,
		port:    defaultPort,
		timeout: display.DefaultReplyTimeout,
	}
}

// loadSettings reads the optional TOML config file; keys that are absent
// keep their defaults.
func loadSettings(path string) (clientSettings, error) {
	settings := defaultSettings()
	if path == "" {
		return settings, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return clientSettings{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("address") {
		if v := strings.TrimSpace(raw.Address); v != "" {
			settings.address = v
		}
	}
	if meta.IsDefined("port") {
		if v := strings.TrimSpace(raw.Port); v != "" {
			settings.port = v
		}
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return clientSettings{}, fmt.Errorf("parse timeout: %w", err)
		}
		settings.timeout = d
	}
	return settings, nil
}

// applyOptions lets flags override whatever the config file provided.
func (s *clientSettings) applyOptions(opts options) {
	if opts.address != "" {
		s.address = opts.address
	}
	if opts.port != "" {
		s.port = opts.port
	}
	if opts.timeout > 0 {
		s.timeout = opts.timeout
	}
}

func (s clientSettings) clientConfig() display.Config {
	return display.Config{
		Addr:         net.JoinHostPort(s.address, s.port),
		DialTimeout:  display.DefaultDialTimeout,
		ReplyTimeout: s.timeout,
	}
}
