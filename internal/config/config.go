package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version     string            `yaml:"version" json:"version"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	Redis       RedisConfig       `yaml:"redis" json:"redis"`
	Session     SessionConfig     `yaml:"session" json:"session"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard" json:"leaderboard"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"-"`
	DB       int    `yaml:"db" json:"db"`
}

type SessionConfig struct {
	// IdleTimeoutS is how long a player session may sit untouched before
	// its loops are stopped and its state flushed.
	IdleTimeoutS int `yaml:"idle_timeout_s" json:"idle_timeout_s"`
	SaveEveryS   int `yaml:"save_every_s" json:"save_every_s"`
}

type LeaderboardConfig struct {
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`
	MaxLimit     int `yaml:"max_limit" json:"max_limit"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8420"
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "data"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Session.IdleTimeoutS <= 0 {
		c.Session.IdleTimeoutS = 300
	}
	if c.Session.SaveEveryS <= 0 {
		c.Session.SaveEveryS = 30
	}
	if c.Leaderboard.DefaultLimit <= 0 {
		c.Leaderboard.DefaultLimit = 25
	}
	if c.Leaderboard.MaxLimit <= 0 {
		c.Leaderboard.MaxLimit = 100
	}
}

// Load reads a YAML config file. A missing file is not an error: the
// defaults describe a fully working local setup.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.ApplyDefaults()
			return &c, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
