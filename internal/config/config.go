package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig configures the WebSocket listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig configures the Redis mirror.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig holds the rule parameters. The scattered rule variants
// (hand size, reshuffle policy, window length) are configuration here,
// not hard-coded behavior.
type GameConfig struct {
	HandSize       int  `yaml:"hand_size"`        // cards dealt per player
	TurnSeconds    int  `yaml:"turn_seconds"`     // per-turn deadline, clamped to 5-90
	CutWindowMs    int  `yaml:"cut_window_ms"`    // player-visible contest window
	CutGraceMs     int  `yaml:"cut_grace_ms"`     // server-side grace past the window
	EndThreshold   int  `yaml:"end_threshold"`    // 200 or 300
	BotDelayMs     int  `yaml:"bot_delay_ms"`     // pacing delay before a bot acts
	ReshuffleStock bool `yaml:"reshuffle_stock"`  // variant: refill stock from past pile
	RoomTimeout    int  `yaml:"room_timeout"`     // idle room eviction (minutes)
}

// TurnDuration returns the per-turn deadline.
func (c *GameConfig) TurnDuration() time.Duration {
	return time.Duration(c.TurnSeconds) * time.Second
}

// CutWindow returns the player-visible contest window.
func (c *GameConfig) CutWindow() time.Duration {
	return time.Duration(c.CutWindowMs) * time.Millisecond
}

// CutFallback returns the server-side timeout: window plus grace.
func (c *GameConfig) CutFallback() time.Duration {
	return time.Duration(c.CutWindowMs+c.CutGraceMs) * time.Millisecond
}

// BotDelay returns the bot pacing delay. May be zero.
func (c *GameConfig) BotDelay() time.Duration {
	return time.Duration(c.BotDelayMs) * time.Millisecond
}

// RoomTimeoutDuration returns the idle room eviction timeout.
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// ClampTurnSeconds bounds a requested turn length to the allowed 5-90s.
func ClampTurnSeconds(s int) int {
	if s < 5 {
		return 5
	}
	if s > 90 {
		return 90
	}
	return s
}

// ClampHandSize bounds a requested deal size to the allowed 3-10 cards.
func ClampHandSize(n int) int {
	if n < 3 {
		return 3
	}
	if n > 10 {
		return 10
	}
	return n
}

// NormalizeEndThreshold restricts the game-end threshold to 200 or 300.
func NormalizeEndThreshold(v int) int {
	if v == 300 {
		return 300
	}
	return 200
}

// Load reads a config file and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.fillDefaults()
	return &cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

func (cfg *Config) fillDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.HandSize == 0 {
		cfg.Game.HandSize = 5
	}
	cfg.Game.HandSize = ClampHandSize(cfg.Game.HandSize)
	if cfg.Game.TurnSeconds == 0 {
		cfg.Game.TurnSeconds = 25
	}
	cfg.Game.TurnSeconds = ClampTurnSeconds(cfg.Game.TurnSeconds)
	if cfg.Game.CutWindowMs == 0 {
		cfg.Game.CutWindowMs = 7000
	}
	if cfg.Game.CutGraceMs == 0 {
		cfg.Game.CutGraceMs = 200
	}
	cfg.Game.EndThreshold = NormalizeEndThreshold(cfg.Game.EndThreshold)
	if cfg.Game.BotDelayMs == 0 {
		cfg.Game.BotDelayMs = 400
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 10
	}
}
