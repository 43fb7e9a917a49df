package game

import (
	"errors"
	"sync"
)

// DefaultTrapTurns is how long mud holds an enemy unless the level or the
// engine options override it.
const DefaultTrapTurns = 1

var (
	// ErrNoLevel is returned when the engine is used before SetupLevel.
	ErrNoLevel = errors.New("no level loaded")

	// ErrMatchOver is returned when AttemptMove is called after the match
	// has been decided. Callers must treat this as a contract violation,
	// not as a rejected move.
	ErrMatchOver = errors.New("match is not in progress")
)

// RejectReason says why a player move was refused. A rejected move is a
// normal outcome, not an error: the state is untouched.
type RejectReason uint8

const (
	RejectNone RejectReason = iota
	RejectOutOfBounds
	RejectBlocked
)

// String returns the lowercase reason name.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectOutOfBounds:
		return "out_of_bounds"
	case RejectBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// MoveOutcome is the result of one AttemptMove call.
type MoveOutcome struct {
	Accepted bool
	Reason   RejectReason // set when the move was rejected
	Snapshot Snapshot     // state after the turn; unchanged state on rejection
}

// Options tunes engine behavior outside the level data.
type Options struct {
	// TrapTurns is the mud trap duration for levels that don't set one.
	TrapTurns int
}

// Engine owns the grid and entity state and resolves turns. It is the only
// entry point for state changes. A single mutex keeps setup/reset atomic
// relative to moves and snapshots; callers still submit one move at a time.
type Engine struct {
	mu sync.RWMutex

	grid    *Grid
	player  Player
	enemies []*Enemy // creation order; every per-turn pass walks this slice
	status  MatchStatus
	turn    uint64

	level       LevelConfig // last loaded config, replayed by Reset
	hasLevel    bool
	trapDefault int
	trapTurns   int // resolved for the current level

	// Snapshot publishing for lock-free broadcast consumers
	snapshotPool *SnapshotPool

	// Diagnostic turn log
	eventLog *EventLog
}

// NewEngine creates an engine with no level loaded.
func NewEngine(opts Options) *Engine {
	trap := opts.TrapTurns
	if trap <= 0 {
		trap = DefaultTrapTurns
	}
	return &Engine{
		trapDefault:  trap,
		trapTurns:    trap,
		snapshotPool: NewSnapshotPool(),
		eventLog:     NewEventLog(),
	}
}

// SetupLevel validates cfg and replaces the whole board and entity set.
// It either succeeds completely or leaves the previous state untouched.
func (e *Engine) SetupLevel(cfg LevelConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.applyLevel(cfg)
	e.eventLog.Emit(NewEvent(EventTypeLevelLoaded, e.turn, LevelLoadedPayload{
		Width:  cfg.Width,
		Height: cfg.Height,
		Spawns: len(cfg.Spawns),
	}))
	e.publishSnapshot()
	return nil
}

// applyLevel rebuilds all mutable state from cfg. Caller holds the lock and
// has already validated cfg.
func (e *Engine) applyLevel(cfg LevelConfig) {
	e.grid = newGrid(cfg)
	e.player = Player{Pos: cfg.PlayerStart}
	e.enemies = make([]*Enemy, 0, len(cfg.Spawns))
	for i, s := range cfg.Spawns {
		state := StateActive
		if s.Dormant {
			state = StateDormant
		}
		e.enemies = append(e.enemies, &Enemy{ID: i, Pos: s.Pos, Color: s.Color, State: state})
	}
	e.status = StatusPlaying
	e.turn = 0
	e.level = cfg
	e.hasLevel = true
	e.trapTurns = cfg.TrapTurns
	if e.trapTurns <= 0 {
		e.trapTurns = e.trapDefault
	}
}

// Reset re-applies the last-loaded level and returns the fresh snapshot.
func (e *Engine) Reset() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasLevel {
		return Snapshot{}, ErrNoLevel
	}
	cfg := e.level
	e.applyLevel(cfg)
	e.eventLog.Emit(NewEvent(EventTypeLevelReset, 0, LevelLoadedPayload{
		Width:  cfg.Width,
		Height: cfg.Height,
		Spawns: len(cfg.Spawns),
	}))
	e.publishSnapshot()
	return e.snapshotLocked(), nil
}

// AttemptMove applies one player move and, if accepted, runs the full turn:
// trap countdown, dormant wake-up, enemy movement, merge resolution, goal
// purification and the terminal checks, in that fixed order. The whole turn
// resolves before the call returns; there are no suspension points.
func (e *Engine) AttemptMove(dir Direction) (MoveOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasLevel {
		return MoveOutcome{}, ErrNoLevel
	}
	if e.status != StatusPlaying {
		return MoveOutcome{}, ErrMatchOver
	}

	candidate := e.player.Pos.Add(dir)
	if reason := e.rejectReason(candidate); reason != RejectNone {
		e.eventLog.Emit(NewEvent(EventTypeMoveRejected, e.turn, RejectPayload{
			Direction: dir.String(),
			Reason:    reason.String(),
		}))
		return MoveOutcome{Reason: reason, Snapshot: e.snapshotLocked()}, nil
	}

	e.turn++
	e.player.Pos = candidate
	e.eventLog.Emit(NewEvent(EventTypeMoveAccepted, e.turn, MovePayload{
		Direction: dir.String(),
		Player:    candidate,
	}))

	e.tickTraps()
	e.wakeDormant()
	e.moveEnemies()
	e.mergeStacks()
	e.purifyAtGoal()
	e.checkTerminal()

	e.publishSnapshot()
	return MoveOutcome{Accepted: true, Snapshot: e.snapshotLocked()}, nil
}

// rejectReason validates the player's destination. Obstacles never block the
// player; only the board edge and Active enemies do. Dormant and trapped
// enemies let the player walk right up to (or onto) them.
func (e *Engine) rejectReason(p Position) RejectReason {
	if !e.grid.InBounds(p) {
		return RejectOutOfBounds
	}
	for _, en := range e.enemies {
		if en.State == StateActive && en.Pos == p {
			return RejectBlocked
		}
	}
	return RejectNone
}

// tickTraps runs the trap countdown. The counter is decremented at the start
// of each trapped turn; the enemy still sits out the turn the counter hits
// zero on and rejoins the chase the turn after.
func (e *Engine) tickTraps() {
	for _, en := range e.enemies {
		if en.State != StateTrapped {
			continue
		}
		if en.TrappedTurns > 0 {
			en.TrappedTurns--
		} else {
			en.State = StateActive
			e.eventLog.Emit(NewEvent(EventTypeEnemyFreed, e.turn, EnemyPayload{EnemyID: en.ID, Pos: en.Pos}))
		}
	}
}

// wakeDormant activates dormant enemies with the player's new cell in king-
// move reach (the 8 surrounding cells, never the enemy's own cell). A woken
// enemy sits out the movement phase of this turn.
func (e *Engine) wakeDormant() {
	for _, en := range e.enemies {
		if en.State != StateDormant {
			continue
		}
		if Chebyshev(en.Pos, e.player.Pos) == 1 {
			en.State = StateActive
			en.wokeTurn = e.turn
			e.eventLog.Emit(NewEvent(EventTypeEnemyWoke, e.turn, EnemyPayload{EnemyID: en.ID, Pos: en.Pos}))
		}
	}
}

// moveEnemies advances every eligible enemy one step, in creation order.
// Later enemies see the already-updated cells of earlier ones: rival colors
// block, same colors may stack and get collapsed by the merge phase. An
// enemy whose step lands in mud is trapped on arrival.
func (e *Engine) moveEnemies() {
	for _, en := range e.enemies {
		if en.State != StateActive || en.wokeTurn == e.turn {
			continue
		}
		blocked := func(p Position) bool { return e.blockedFor(en, p) }
		next := ChaseStep(en.Pos, e.player.Pos, e.grid.Goal(), blocked)
		if next == en.Pos {
			continue
		}
		en.Pos = next
		if e.grid.IsMud(next) {
			en.State = StateTrapped
			en.TrappedTurns = e.trapTurns
			e.eventLog.Emit(NewEvent(EventTypeEnemyTrapped, e.turn, EnemyPayload{EnemyID: en.ID, Pos: en.Pos}))
		}
	}
}

// blockedFor reports whether the enemy may not enter p: off-board cells,
// obstacles, and live enemies of another color. Same-color enemies never
// block — walking into one is how merges happen. The player never blocks:
// an enemy reaching the player's cell is the capture condition.
func (e *Engine) blockedFor(en *Enemy, p Position) bool {
	if !e.grid.InBounds(p) || e.grid.IsObstacle(p) {
		return true
	}
	for _, other := range e.enemies {
		if other == en || !other.Alive() {
			continue
		}
		if other.Pos == p && other.Color != en.Color {
			return true
		}
	}
	return false
}

// mergeStacks collapses same-color stacks left by the movement phase.
func (e *Engine) mergeStacks() {
	for _, m := range resolveCollisions(e.enemies) {
		ids := make([]int, 0, len(m.removed))
		for _, r := range m.removed {
			ids = append(ids, r.ID)
		}
		e.eventLog.Emit(NewEvent(EventTypeEnemiesMerged, e.turn, MergePayload{
			SurvivorID: m.survivor.ID,
			RemovedIDs: ids,
			Pos:        m.survivor.Pos,
		}))
	}
}

// purifyAtGoal removes every live enemy standing on the goal cell.
func (e *Engine) purifyAtGoal() {
	goal := e.grid.Goal()
	for _, en := range e.enemies {
		if en.Alive() && en.Pos == goal {
			en.State = StatePurified
			e.eventLog.Emit(NewEvent(EventTypeEnemyPurified, e.turn, EnemyPayload{EnemyID: en.ID, Pos: en.Pos}))
		}
	}
}

// checkTerminal runs capture before victory; a capture ends the match even
// if the capturing enemy was the last one alive.
func (e *Engine) checkTerminal() {
	if IsCaptured(e.player.Pos, e.enemies) {
		e.status = StatusLost
		e.eventLog.Emit(NewEvent(EventTypePlayerCaptured, e.turn, OutcomePayload{Status: e.status.String(), Turn: e.turn}))
		return
	}
	if IsVictory(e.enemies) {
		e.status = StatusWon
		e.eventLog.Emit(NewEvent(EventTypeMatchWon, e.turn, OutcomePayload{Status: e.status.String(), Turn: e.turn}))
	}
}

// Snapshot returns a deterministic copy of the current state. Sequence and
// Timestamp stay zero so replaying the same moves yields identical values.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Turn:   e.turn,
		Player: e.player.Pos,
		Status: e.status,
	}
	for _, en := range e.enemies {
		if !en.Alive() {
			continue
		}
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID:           en.ID,
			Pos:          en.Pos,
			Color:        en.Color,
			State:        en.State,
			TrappedTurns: en.TrappedTurns,
		})
	}
	snap.LiveCount = len(snap.Enemies)
	return snap
}

// Latest returns the most recently published end-of-turn snapshot without
// taking the engine lock. Preferred by broadcast consumers.
func (e *Engine) Latest() *Snapshot {
	return e.snapshotPool.AcquireRead()
}

// publishSnapshot copies the current state into the lock-free pool.
// Caller holds the lock.
func (e *Engine) publishSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	snap.Turn = e.turn
	snap.Player = e.player.Pos
	snap.Status = e.status
	for _, en := range e.enemies {
		if !en.Alive() || len(snap.Enemies) >= MaxEnemies {
			continue
		}
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID:           en.ID,
			Pos:          en.Pos,
			Color:        en.Color,
			State:        en.State,
			TrappedTurns: en.TrappedTurns,
		})
	}
	snap.LiveCount = len(snap.Enemies)
	e.snapshotPool.PublishWrite()
}

// Level returns a copy of the last-loaded level configuration.
func (e *Engine) Level() (LevelConfig, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.level, e.hasLevel
}

// StartEventLog initializes the diagnostic event log sink.
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event log, flushing pending events.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log counters for monitoring.
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}
