// Package config loads server and match tuning.
// Precedence, lowest first: built-in defaults, YAML file, .env file, KITCHEN_* environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix scopes environment overrides. Nested keys use a double underscore:
// KITCHEN_MATCH__GAME_TIME=120s sets match.game_time.
const EnvPrefix = "KITCHEN_"

// Config is the full server configuration.
type Config struct {
	Match   Match   `koanf:"match"`
	Server  Server  `koanf:"server"`
	Storage Storage `koanf:"storage"`
	Broker  Broker  `koanf:"broker"`
	Log     Log     `koanf:"log"`
}

// Match holds gameplay tuning.
type Match struct {
	GameTime        time.Duration `koanf:"game_time"`
	ChopTime        time.Duration `koanf:"chop_time"`
	SeatingInterval time.Duration `koanf:"seating_interval"`
	CustomerWait    time.Duration `koanf:"customer_wait"`
	AngryMultiplier float64       `koanf:"angry_multiplier"`
	Seats           int           `koanf:"seats"`
	Plates          int           `koanf:"plates"`
	Boards          int           `koanf:"boards"`

	ServeReward    int     `koanf:"serve_reward"`
	ServePenalty   int     `koanf:"serve_penalty"`
	ExpiryPenalty  int     `koanf:"expiry_penalty"`
	TrashPenalty   int     `koanf:"trash_penalty"`
	FastServeRatio float64 `koanf:"fast_serve_ratio"`

	PickupTime      time.Duration `koanf:"pickup_time"`
	PickupScore     int           `koanf:"pickup_score"`
	BoostDuration   time.Duration `koanf:"boost_duration"`
	BoostMultiplier float64       `koanf:"boost_multiplier"`
	MoveSpeed       float64       `koanf:"move_speed"`
	SpawnHalfWidth  float64       `koanf:"spawn_half_width"`
	SpawnHalfHeight float64       `koanf:"spawn_half_height"`

	LeaderboardSize int    `koanf:"leaderboard_size"`
	Seed            uint64 `koanf:"seed"` // 0 picks a random seed
}

// Server holds transport and loop knobs.
type Server struct {
	Addr             string        `koanf:"addr"`
	TickRate         time.Duration `koanf:"tick_rate"`
	BroadcastEvery   int           `koanf:"broadcast_every"`
	ClientSendBuffer int           `koanf:"client_send_buffer"`
	CommandBuffer    int           `koanf:"command_buffer"`
}

// Storage configures the journal database. An empty path disables it.
type Storage struct {
	SQLitePath string `koanf:"sqlite_path"`
}

// Broker configures journal fan-out. An empty URL disables it.
type Broker struct {
	NatsURL string `koanf:"nats_url"`
	Subject string `koanf:"subject"`
}

// Log configures the logger.
type Log struct {
	Level string `koanf:"level"`
}

// Defaults returns the stock tuning.
func Defaults() map[string]any {
	return map[string]any{
		"match.game_time":         900 * time.Second,
		"match.chop_time":         3 * time.Second,
		"match.seating_interval":  5 * time.Second,
		"match.customer_wait":     45 * time.Second,
		"match.angry_multiplier":  1.25,
		"match.seats":             4,
		"match.plates":            4,
		"match.boards":            2,
		"match.serve_reward":      500,
		"match.serve_penalty":     500,
		"match.expiry_penalty":    250,
		"match.trash_penalty":     50,
		"match.fast_serve_ratio":  0.7,
		"match.pickup_time":       15 * time.Second,
		"match.pickup_score":      50,
		"match.boost_duration":    10 * time.Second,
		"match.boost_multiplier":  1.5,
		"match.move_speed":        5.0,
		"match.spawn_half_width":  8.0,
		"match.spawn_half_height": 4.0,
		"match.leaderboard_size":  10,
		"match.seed":              0,

		"server.addr":               ":8080",
		"server.tick_rate":          50 * time.Millisecond,
		"server.broadcast_every":    2,
		"server.client_send_buffer": 64,
		"server.command_buffer":     runtime.NumCPU() * 32,

		"storage.sqlite_path": "",
		"broker.nats_url":     "",
		"broker.subject":      "kitchen.events",
		"log.level":           "info",
	}
}

// Load reads configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects tuning the match cannot run with.
func (c *Config) Validate() error {
	var errs []error
	m := c.Match
	if m.GameTime <= 0 {
		errs = append(errs, errors.New("match.game_time must be positive"))
	}
	if m.ChopTime <= 0 {
		errs = append(errs, errors.New("match.chop_time must be positive"))
	}
	if m.SeatingInterval <= 0 {
		errs = append(errs, errors.New("match.seating_interval must be positive"))
	}
	if m.CustomerWait <= 0 {
		errs = append(errs, errors.New("match.customer_wait must be positive"))
	}
	if m.AngryMultiplier < 1 {
		errs = append(errs, errors.New("match.angry_multiplier must be at least 1"))
	}
	if m.Seats <= 0 {
		errs = append(errs, errors.New("match.seats must be positive"))
	}
	if m.Plates < 0 || m.Boards < 0 {
		errs = append(errs, errors.New("match.plates and match.boards must not be negative"))
	}
	if m.LeaderboardSize <= 0 {
		errs = append(errs, errors.New("match.leaderboard_size must be positive"))
	}
	if m.FastServeRatio < 0 || m.FastServeRatio > 1 {
		errs = append(errs, errors.New("match.fast_serve_ratio must be within [0,1]"))
	}
	if c.Server.TickRate <= 0 {
		errs = append(errs, errors.New("server.tick_rate must be positive"))
	}
	if c.Server.BroadcastEvery <= 0 {
		errs = append(errs, errors.New("server.broadcast_every must be positive"))
	}
	return errors.Join(errs...)
}
