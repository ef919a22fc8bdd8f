package config

import (
	"dyndns/common"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	Service  Service  `toml:"service" json:"service" yaml:"service"`
	Log      Log      `toml:"log" json:"log" yaml:"log"`
	Account  Account  `toml:"account" json:"account" yaml:"account"`
	Echo     Echo     `toml:"echo" json:"echo" yaml:"echo"`
	Download Download `toml:"download" json:"download" yaml:"download"`
	State    State    `toml:"state" json:"state" yaml:"state"`
}

type Service struct {
	Name          string          `toml:"name" json:"name" yaml:"name"`
	CheckInterval common.Duration `toml:"check_interval" json:"check_interval" yaml:"check_interval"`
}

type Log struct {
	Level     *zapcore.Level `toml:"level" json:"level" yaml:"level"`
	Encoding  *string        `toml:"encoding" json:"encoding" yaml:"encoding"`
	InfoPath  *[]string      `toml:"info_path" json:"info_path" yaml:"info_path"`
	ErrorPath *[]string      `toml:"error_path" json:"error_path" yaml:"error_path"`
}

// Account holds the dynamic DNS provider credentials.
type Account struct {
	Service  common.Provider `toml:"service" json:"service" yaml:"service"`
	Domain   string          `toml:"domain" json:"domain" yaml:"domain"`
	Username string          `toml:"username" json:"username" yaml:"username"`
	Password string          `toml:"password,omitempty" json:"password,omitempty" yaml:"password,omitempty"`
}

// Echo points at the public IP echo service used for discovery.
type Echo struct {
	URL string `toml:"url" json:"url" yaml:"url"`
}

type Download struct {
	Config map[string]any `toml:"config,omitempty" json:"config,omitempty" yaml:"config,omitempty"`
}

type DownloadConfig struct {
	Timeout common.Duration `mapstructure:"timeout"`
	MaxRead int64           `mapstructure:"max_read"`
}

type State struct {
	Path string `toml:"path" json:"path" yaml:"path"`
}
