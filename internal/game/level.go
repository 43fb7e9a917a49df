package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// EnemySpawn places one enemy at level setup. Spawn-list order becomes
// enemy creation order, which in turn is the per-turn iteration order.
type EnemySpawn struct {
	Pos     Position `json:"pos"`
	Color   Color    `json:"color"`
	Dormant bool     `json:"dormant,omitempty"`
}

// LevelConfig fully describes one level. It is supplied by an external
// level-data collaborator (JSON file, editor, test fixture) and validated
// before the engine touches it.
type LevelConfig struct {
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	PlayerStart Position     `json:"playerStart"`
	Goal        Position     `json:"goal"`
	Obstacles   []Position   `json:"obstacles,omitempty"`
	Mud         []Position   `json:"mud,omitempty"`
	Spawns      []EnemySpawn `json:"spawns"`

	// TrapTurns overrides how many turns mud holds an enemy.
	// Zero means the engine default.
	TrapTurns int `json:"trapTurns,omitempty"`
}

// ConfigError reports an invalid level configuration.
type ConfigError struct {
	Field  string
	Pos    Position
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("level config: %s (%d,%d): %s", e.Field, e.Pos.X, e.Pos.Y, e.Reason)
}

// Validate checks every position against the level bounds and terrain.
// The engine refuses to load a config that fails here, so entity positions
// can never start out of bounds or inside an obstacle.
func (c LevelConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return &ConfigError{Field: "bounds", Reason: fmt.Sprintf("non-positive dimensions %dx%d", c.Width, c.Height)}
	}
	in := func(p Position) bool {
		return p.X >= 0 && p.X < c.Width && p.Y >= 0 && p.Y < c.Height
	}

	obstacles := make(map[Position]struct{}, len(c.Obstacles))
	for _, p := range c.Obstacles {
		if !in(p) {
			return &ConfigError{Field: "obstacle", Pos: p, Reason: "out of bounds"}
		}
		obstacles[p] = struct{}{}
	}
	for _, p := range c.Mud {
		if !in(p) {
			return &ConfigError{Field: "mud", Pos: p, Reason: "out of bounds"}
		}
		if _, ok := obstacles[p]; ok {
			return &ConfigError{Field: "mud", Pos: p, Reason: "coincides with an obstacle"}
		}
	}

	if !in(c.PlayerStart) {
		return &ConfigError{Field: "playerStart", Pos: c.PlayerStart, Reason: "out of bounds"}
	}
	if !in(c.Goal) {
		return &ConfigError{Field: "goal", Pos: c.Goal, Reason: "out of bounds"}
	}
	if _, ok := obstacles[c.Goal]; ok {
		return &ConfigError{Field: "goal", Pos: c.Goal, Reason: "coincides with an obstacle"}
	}

	for _, s := range c.Spawns {
		if !in(s.Pos) {
			return &ConfigError{Field: "spawn", Pos: s.Pos, Reason: "out of bounds"}
		}
		if _, ok := obstacles[s.Pos]; ok {
			return &ConfigError{Field: "spawn", Pos: s.Pos, Reason: "coincides with an obstacle"}
		}
		if s.Color == "" {
			return &ConfigError{Field: "spawn", Pos: s.Pos, Reason: "missing color"}
		}
	}
	if c.TrapTurns < 0 {
		return &ConfigError{Field: "trapTurns", Reason: "negative"}
	}
	return nil
}

// LoadLevelFile reads and validates a JSON level file.
func LoadLevelFile(path string) (LevelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LevelConfig{}, err
	}
	var cfg LevelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return LevelConfig{}, fmt.Errorf("parse level %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return LevelConfig{}, err
	}
	return cfg, nil
}

// DefaultLevel is the built-in 5x5 reference board: player in the bottom-left
// corner, goal in the top-right, two red chasers and a dormant purple one.
func DefaultLevel() LevelConfig {
	return LevelConfig{
		Width:       5,
		Height:      5,
		PlayerStart: Position{X: 0, Y: 0},
		Goal:        Position{X: 4, Y: 4},
		Obstacles:   []Position{{X: 2, Y: 1}, {X: 1, Y: 2}},
		Mud:         []Position{{X: 3, Y: 3}, {X: 0, Y: 3}},
		Spawns: []EnemySpawn{
			{Pos: Position{X: 4, Y: 0}, Color: ColorRed},
			{Pos: Position{X: 0, Y: 4}, Color: ColorRed},
			{Pos: Position{X: 2, Y: 2}, Color: ColorPurple, Dormant: true},
		},
	}
}
