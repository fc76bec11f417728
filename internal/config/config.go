// Package config reads hexpath settings from HEXPATH_* environment variables.
// Unset or malformed numbers fall back to defaults; unknown names are errors.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/hexpath/internal/replay"
	"github.com/talgya/hexpath/internal/search"
	"github.com/talgya/hexpath/internal/world"
)

// DefaultSeed keeps unconfigured runs reproducible.
const DefaultSeed = 42

// Config is the combined settings of the hexpath commands.
type Config struct {
	Gen        world.GenConfig
	Algorithms []search.Algorithm
	DBPath     string // Empty disables the run ledger
	Replay     replay.Config
	LogLevel   slog.Level
	LogFile    string // Log destination for the terminal viewer; empty discards
}

// Load reads the environment on top of the defaults.
func Load() (Config, error) {
	gen := world.DefaultGenConfig()
	gen.Seed = envInt64OrDefault("HEXPATH_SEED", DefaultSeed)
	gen.Width = envIntOrDefault("HEXPATH_WIDTH", gen.Width)
	gen.Height = envIntOrDefault("HEXPATH_HEIGHT", gen.Height)
	gen.HexSize = envFloatOrDefault("HEXPATH_HEX_SIZE", gen.HexSize)
	gen.WallLevel = envFloatOrDefault("HEXPATH_WALL_LEVEL", gen.WallLevel)
	gen.DirtLevel = envFloatOrDefault("HEXPATH_DIRT_LEVEL", gen.DirtLevel)

	shape, err := world.ParseShape(os.Getenv("HEXPATH_SHAPE"))
	if err != nil {
		return Config{}, fmt.Errorf("HEXPATH_SHAPE: %w", err)
	}
	gen.Shape = shape

	orientation, err := world.ParseOrientation(os.Getenv("HEXPATH_ORIENTATION"))
	if err != nil {
		return Config{}, fmt.Errorf("HEXPATH_ORIENTATION: %w", err)
	}
	gen.Orientation = orientation

	if gen.Width <= 0 || (gen.Shape == world.ShapeRectangular && gen.Height <= 0) {
		return Config{}, fmt.Errorf("grid dimensions %dx%d must be positive", gen.Width, gen.Height)
	}

	algs, err := ParseAlgorithms(envOrDefault("HEXPATH_ALGORITHMS", "ucs,greedy,astar"))
	if err != nil {
		return Config{}, fmt.Errorf("HEXPATH_ALGORITHMS: %w", err)
	}

	rc := replay.DefaultConfig()
	rc.Speed = envFloatOrDefault("HEXPATH_SPEED", rc.Speed)
	rc.Interval = time.Duration(envIntOrDefault("HEXPATH_INTERVAL_MS", int(rc.Interval/time.Millisecond))) * time.Millisecond

	level, err := ParseLevel(envOrDefault("HEXPATH_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("HEXPATH_LOG_LEVEL: %w", err)
	}

	return Config{
		Gen:        gen,
		Algorithms: algs,
		DBPath:     os.Getenv("HEXPATH_DB"),
		Replay:     rc,
		LogLevel:   level,
		LogFile:    os.Getenv("HEXPATH_LOG_FILE"),
	}, nil
}

// ParseAlgorithms splits a comma-separated list such as "ucs, a*".
// Duplicates are dropped, order is kept.
func ParseAlgorithms(list string) ([]search.Algorithm, error) {
	var out []search.Algorithm
	seen := make(map[search.Algorithm]bool)
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		a, err := search.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", search.ErrUnknownAlgorithm)
	}
	return out, nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloatOrDefault(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
