package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gridwraith/internal/game"
)

// stubEngine implements EngineInterface for handler tests
type stubEngine struct {
	snap     game.Snapshot
	outcome  game.MoveOutcome
	moveErr  error
	setupErr error
	resetErr error
	level    game.LevelConfig
	hasLevel bool

	lastDir   game.Direction
	lastLevel game.LevelConfig
}

func (s *stubEngine) Snapshot() game.Snapshot { return s.snap }
func (s *stubEngine) Latest() *game.Snapshot  { return &s.snap }

func (s *stubEngine) AttemptMove(dir game.Direction) (game.MoveOutcome, error) {
	s.lastDir = dir
	return s.outcome, s.moveErr
}

func (s *stubEngine) SetupLevel(cfg game.LevelConfig) error {
	s.lastLevel = cfg
	if s.setupErr != nil {
		return s.setupErr
	}
	s.level = cfg
	s.hasLevel = true
	return nil
}

func (s *stubEngine) Reset() (game.Snapshot, error) {
	if s.resetErr != nil {
		return game.Snapshot{}, s.resetErr
	}
	return s.snap, nil
}

func (s *stubEngine) Level() (game.LevelConfig, bool) { return s.level, s.hasLevel }

func (s *stubEngine) GetEventLogStats() map[string]interface{} {
	return map[string]interface{}{"total": uint64(0), "dropped": uint64(0)}
}

// testRateLimit is high enough that tests never trip it
var testRateLimit = RateLimitConfig{
	RequestsPerSecond: 10000,
	Burst:             10000,
	CleanupInterval:   time.Minute,
}

func newTestServer(t *testing.T, cfg RouterConfig) *httptest.Server {
	t.Helper()
	cfg.DisableLogging = true
	if cfg.RateLimiter == nil && cfg.RateLimitConfig == nil {
		cfg.RateLimitConfig = &testRateLimit
	}
	ts := httptest.NewServer(NewRouter(cfg))
	t.Cleanup(ts.Close)
	return ts
}

// TestGetState tests the state endpoint
func TestGetState(t *testing.T) {
	engine := &stubEngine{
		snap: game.Snapshot{
			Turn:      3,
			Player:    game.Position{X: 1, Y: 2},
			Status:    game.StatusPlaying,
			Enemies:   []game.EnemySnapshot{{ID: 0, Pos: game.Position{X: 4, Y: 4}, Color: game.ColorRed, State: game.StateActive}},
			LiveCount: 1,
		},
	}
	ts := newTestServer(t, RouterConfig{Engine: engine})

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var snap game.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Turn != 3 || snap.Player != (game.Position{X: 1, Y: 2}) || snap.LiveCount != 1 {
		t.Errorf("Snapshot mismatch: %+v", snap)
	}
	if snap.Enemies[0].State != game.StateActive {
		t.Errorf("Enemy state should round-trip, got %v", snap.Enemies[0].State)
	}
}

// TestPostMoveAccepted tests a successful move and the turn callback
func TestPostMoveAccepted(t *testing.T) {
	engine := &stubEngine{
		outcome: game.MoveOutcome{
			Accepted: true,
			Snapshot: game.Snapshot{Turn: 1, Player: game.Position{X: 0, Y: 1}, LiveCount: 2},
		},
	}

	var pushed []game.Snapshot
	ts := newTestServer(t, RouterConfig{
		Engine: engine,
		OnTurn: func(s game.Snapshot) { pushed = append(pushed, s) },
	})

	resp, err := http.Post(ts.URL+"/api/move", "application/json", strings.NewReader(`{"direction":"up"}`))
	if err != nil {
		t.Fatalf("POST /api/move: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if engine.lastDir != game.DirUp {
		t.Errorf("Expected DirUp passed to engine, got %v", engine.lastDir)
	}

	var body struct {
		Accepted bool          `json:"accepted"`
		Reason   string        `json:"reason"`
		Snapshot game.Snapshot `json:"snapshot"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !body.Accepted || body.Snapshot.Turn != 1 {
		t.Errorf("Body mismatch: %+v", body)
	}

	if len(pushed) != 1 || pushed[0].Turn != 1 {
		t.Errorf("Expected one turn push, got %d", len(pushed))
	}
}

// TestPostMoveRejected tests that a rejected move is a 200 with accepted=false
func TestPostMoveRejected(t *testing.T) {
	engine := &stubEngine{
		outcome: game.MoveOutcome{
			Accepted: false,
			Reason:   game.RejectBlocked,
			Snapshot: game.Snapshot{Turn: 0},
		},
	}

	var pushes int
	ts := newTestServer(t, RouterConfig{
		Engine: engine,
		OnTurn: func(game.Snapshot) { pushes++ },
	})

	resp, err := http.Post(ts.URL+"/api/move", "application/json", strings.NewReader(`{"direction":"left"}`))
	if err != nil {
		t.Fatalf("POST /api/move: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Rejected move is still a 200, got %d", resp.StatusCode)
	}

	var body struct {
		Accepted bool   `json:"accepted"`
		Reason   string `json:"reason"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Accepted || body.Reason != "blocked" {
		t.Errorf("Expected blocked rejection, got %+v", body)
	}
	if pushes != 0 {
		t.Error("Rejected moves must not push a turn")
	}
}

// TestPostMoveBadRequests tests malformed bodies and unknown directions
func TestPostMoveBadRequests(t *testing.T) {
	ts := newTestServer(t, RouterConfig{Engine: &stubEngine{}})

	resp, _ := http.Post(ts.URL+"/api/move", "application/json", strings.NewReader(`{not json`))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Malformed body: expected 400, got %d", resp.StatusCode)
	}

	resp, _ = http.Post(ts.URL+"/api/move", "application/json", strings.NewReader(`{"direction":"sideways"}`))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Unknown direction: expected 400, got %d", resp.StatusCode)
	}
}

// TestPostMoveMatchOver tests the terminal-state conflict response
func TestPostMoveMatchOver(t *testing.T) {
	ts := newTestServer(t, RouterConfig{Engine: &stubEngine{moveErr: game.ErrMatchOver}})

	resp, err := http.Post(ts.URL+"/api/move", "application/json", strings.NewReader(`{"direction":"up"}`))
	if err != nil {
		t.Fatalf("POST /api/move: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409, got %d", resp.StatusCode)
	}
}

// TestPostLevel tests level loading through the API
func TestPostLevel(t *testing.T) {
	engine := &stubEngine{}
	ts := newTestServer(t, RouterConfig{Engine: engine})

	level := game.DefaultLevel()
	body, _ := json.Marshal(level)
	resp, err := http.Post(ts.URL+"/api/level", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/level: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if engine.lastLevel.Width != level.Width || len(engine.lastLevel.Spawns) != len(level.Spawns) {
		t.Errorf("Level not passed through: %+v", engine.lastLevel)
	}
}

// TestPostLevelInvalid tests that a config error maps to a 400
func TestPostLevelInvalid(t *testing.T) {
	engine := &stubEngine{setupErr: &game.ConfigError{Field: "goal", Reason: "out of bounds"}}
	ts := newTestServer(t, RouterConfig{Engine: engine})

	resp, err := http.Post(ts.URL+"/api/level", "application/json", strings.NewReader(`{"width":2,"height":2}`))
	if err != nil {
		t.Fatalf("POST /api/level: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if !strings.Contains(body["error"], "goal") {
		t.Errorf("Error should name the field, got %q", body["error"])
	}
}

// TestPostReset tests the reset endpoint
func TestPostReset(t *testing.T) {
	engine := &stubEngine{snap: game.Snapshot{Turn: 0, LiveCount: 3}}
	ts := newTestServer(t, RouterConfig{Engine: engine})

	resp, err := http.Post(ts.URL+"/api/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/reset: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var snap game.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.LiveCount != 3 {
		t.Errorf("Snapshot mismatch: %+v", snap)
	}
}

// TestPostResetNoLevel tests resetting before any level was loaded
func TestPostResetNoLevel(t *testing.T) {
	ts := newTestServer(t, RouterConfig{Engine: &stubEngine{resetErr: game.ErrNoLevel}})

	resp, _ := http.Post(ts.URL+"/api/reset", "application/json", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409, got %d", resp.StatusCode)
	}
}

// TestGetFrame tests the PNG frame endpoint
func TestGetFrame(t *testing.T) {
	// No level yet
	ts := newTestServer(t, RouterConfig{Engine: &stubEngine{}})
	resp, _ := http.Get(ts.URL + "/api/frame")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 without a level, got %d", resp.StatusCode)
	}

	// With a level the endpoint serves a PNG
	engine := &stubEngine{
		level:    game.DefaultLevel(),
		hasLevel: true,
		snap:     game.Snapshot{Player: game.Position{X: 0, Y: 0}},
	}
	ts2 := newTestServer(t, RouterConfig{Engine: engine})

	resp, err := http.Get(ts2.URL + "/api/frame")
	if err != nil {
		t.Fatalf("GET /api/frame: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	magic := make([]byte, 4)
	resp.Body.Read(magic)
	if !bytes.Equal(magic, []byte{0x89, 'P', 'N', 'G'}) {
		t.Errorf("Body is not a PNG, got % x", magic)
	}
}

// TestGetStats tests the stats endpoint
func TestGetStats(t *testing.T) {
	engine := &stubEngine{snap: game.Snapshot{Turn: 9, LiveCount: 2, Status: game.StatusPlaying}}
	ts := newTestServer(t, RouterConfig{Engine: engine})

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET /api/stats: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body["turn"] != float64(9) {
		t.Errorf("Expected turn 9, got %v", body["turn"])
	}
	if _, ok := body["eventLog"]; !ok {
		t.Error("Stats should include event log counters")
	}
}

// TestRateLimitRejects tests the per-IP limiter through the router
func TestRateLimitRejects(t *testing.T) {
	ts := newTestServer(t, RouterConfig{
		Engine: &stubEngine{},
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
			CleanupInterval:   time.Minute,
		},
	})

	var got429 bool
	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/api/state")
		if err != nil {
			t.Fatalf("Request %d: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			got429 = true
			if resp.Header.Get("Retry-After") == "" {
				t.Error("429 should carry Retry-After")
			}
			break
		}
	}
	if !got429 {
		t.Error("Burst of requests should trip the rate limiter")
	}
}

// TestRouterWithRealEngine runs one full turn end to end
func TestRouterWithRealEngine(t *testing.T) {
	engine := game.NewEngine(game.Options{})
	if err := engine.SetupLevel(game.DefaultLevel()); err != nil {
		t.Fatalf("SetupLevel: %v", err)
	}

	ts := newTestServer(t, RouterConfig{Engine: engine})

	resp, err := http.Post(ts.URL+"/api/move", "application/json", strings.NewReader(`{"direction":"up"}`))
	if err != nil {
		t.Fatalf("POST /api/move: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Accepted bool          `json:"accepted"`
		Snapshot game.Snapshot `json:"snapshot"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !body.Accepted {
		t.Fatal("First move up on the built-in level should be accepted")
	}
	if body.Snapshot.Player != (game.Position{X: 0, Y: 1}) {
		t.Errorf("Player should be at (0,1), got %v", body.Snapshot.Player)
	}
	if body.Snapshot.Turn != 1 {
		t.Errorf("Expected turn 1, got %d", body.Snapshot.Turn)
	}
}
