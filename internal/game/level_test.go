package game

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestDefaultLevelValid tests that the built-in level passes validation
func TestDefaultLevelValid(t *testing.T) {
	if err := DefaultLevel().Validate(); err != nil {
		t.Fatalf("DefaultLevel should validate: %v", err)
	}
}

// TestValidateRejections tests the validation rules one by one
func TestValidateRejections(t *testing.T) {
	base := func() LevelConfig {
		return LevelConfig{
			Width:       3,
			Height:      3,
			PlayerStart: Position{X: 0, Y: 0},
			Goal:        Position{X: 2, Y: 2},
			Spawns:      []EnemySpawn{{Pos: Position{X: 2, Y: 0}, Color: ColorRed}},
		}
	}

	cases := []struct {
		name      string
		mutate    func(*LevelConfig)
		wantField string
	}{
		{"zero width", func(c *LevelConfig) { c.Width = 0 }, "bounds"},
		{"negative height", func(c *LevelConfig) { c.Height = -1 }, "bounds"},
		{"obstacle out of bounds", func(c *LevelConfig) { c.Obstacles = []Position{{X: 3, Y: 0}} }, "obstacle"},
		{"mud out of bounds", func(c *LevelConfig) { c.Mud = []Position{{X: 0, Y: 9}} }, "mud"},
		{"mud on obstacle", func(c *LevelConfig) {
			c.Obstacles = []Position{{X: 1, Y: 1}}
			c.Mud = []Position{{X: 1, Y: 1}}
		}, "mud"},
		{"player out of bounds", func(c *LevelConfig) { c.PlayerStart = Position{X: -1, Y: 0} }, "playerStart"},
		{"goal out of bounds", func(c *LevelConfig) { c.Goal = Position{X: 3, Y: 3} }, "goal"},
		{"goal on obstacle", func(c *LevelConfig) { c.Obstacles = []Position{{X: 2, Y: 2}} }, "goal"},
		{"spawn out of bounds", func(c *LevelConfig) { c.Spawns[0].Pos = Position{X: 0, Y: 3} }, "spawn"},
		{"spawn on obstacle", func(c *LevelConfig) { c.Obstacles = []Position{{X: 2, Y: 0}} }, "spawn"},
		{"spawn without color", func(c *LevelConfig) { c.Spawns[0].Color = "" }, "spawn"},
		{"negative trap turns", func(c *LevelConfig) { c.TrapTurns = -2 }, "trapTurns"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected *ConfigError, got %T", err)
			}
			if cfgErr.Field != tc.wantField {
				t.Errorf("Expected field %q, got %q", tc.wantField, cfgErr.Field)
			}
		})
	}
}

// TestLoadLevelFile tests the JSON loading path
func TestLoadLevelFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.json")

	data := `{
		"width": 4,
		"height": 4,
		"playerStart": {"x": 0, "y": 0},
		"goal": {"x": 3, "y": 3},
		"obstacles": [{"x": 1, "y": 1}],
		"mud": [{"x": 2, "y": 2}],
		"spawns": [
			{"pos": {"x": 3, "y": 0}, "color": "red"},
			{"pos": {"x": 0, "y": 3}, "color": "purple", "dormant": true}
		],
		"trapTurns": 2
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLevelFile(path)
	if err != nil {
		t.Fatalf("LoadLevelFile: %v", err)
	}

	want := LevelConfig{
		Width:       4,
		Height:      4,
		PlayerStart: Position{X: 0, Y: 0},
		Goal:        Position{X: 3, Y: 3},
		Obstacles:   []Position{{X: 1, Y: 1}},
		Mud:         []Position{{X: 2, Y: 2}},
		Spawns: []EnemySpawn{
			{Pos: Position{X: 3, Y: 0}, Color: ColorRed},
			{Pos: Position{X: 0, Y: 3}, Color: ColorPurple, Dormant: true},
		},
		TrapTurns: 2,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Loaded config mismatch:\n got %+v\nwant %+v", cfg, want)
	}
}

// TestLoadLevelFileErrors tests the failure paths
func TestLoadLevelFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadLevelFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	badJSON := filepath.Join(dir, "bad.json")
	os.WriteFile(badJSON, []byte("{not json"), 0644)
	if _, err := LoadLevelFile(badJSON); err == nil {
		t.Error("Expected error for malformed JSON")
	}

	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`{"width": 2, "height": 2, "goal": {"x": 5, "y": 5}, "spawns": []}`), 0644)
	_, err := LoadLevelFile(invalid)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected *ConfigError for invalid level, got %v", err)
	}
}
