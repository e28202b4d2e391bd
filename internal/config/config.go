package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the bot harness configuration.
type Config struct {
	Matchmaker MatchmakerConfig `yaml:"matchmaker"`
	Redis      RedisConfig      `yaml:"redis"`
	Bot        BotConfig        `yaml:"bot"`
}

// MatchmakerConfig describes the matchmaking endpoint and search info.
type MatchmakerConfig struct {
	URL          string `yaml:"url"`
	Region       string `yaml:"region"`
	Game         string `yaml:"game"`
	Mode         string `yaml:"mode"`
	AI           string `yaml:"ai"`            // opponent AI name, empty for human matches
	SessionToken string `yaml:"session_token"` // auth token passed with the search
}

// RedisConfig locates the optional result store. An empty Addr disables
// result recording.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BotConfig tunes the random-legal bot.
type BotConfig struct {
	Count     int `yaml:"count"`      // concurrent clients, stress mode when > 1
	ThinkTime int `yaml:"think_time"` // delay before playing (milliseconds)
}

// ThinkTimeDuration returns the play delay.
func (c *BotConfig) ThinkTimeDuration() time.Duration {
	return time.Duration(c.ThinkTime) * time.Millisecond
}

// Load reads the config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Matchmaker.URL == "" {
		cfg.Matchmaker.URL = "ws://127.0.0.1:4000"
	}
	if cfg.Matchmaker.Region == "" {
		cfg.Matchmaker.Region = "eu-central-1"
	}
	if cfg.Matchmaker.Game == "" {
		cfg.Matchmaker.Game = "Schnapsen"
	}
	if cfg.Matchmaker.Mode == "" {
		cfg.Matchmaker.Mode = "duo"
	}
	if cfg.Matchmaker.SessionToken == "" {
		cfg.Matchmaker.SessionToken = "test"
	}
	if cfg.Bot.Count == 0 {
		cfg.Bot.Count = 1
	}
	if cfg.Bot.ThinkTime == 0 {
		cfg.Bot.ThinkTime = 800
	}
}
