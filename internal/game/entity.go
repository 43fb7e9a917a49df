package game

import (
	"encoding/json"
	"fmt"
)

// Color identifies an enemy family. Enemies of the same color merge when
// they end up on the same cell; different colors block each other's movement.
// The set is open-ended — levels may introduce new colors freely.
type Color string

const (
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorGreen  Color = "green"
)

// EnemyState is the lifecycle state of an enemy.
type EnemyState uint8

const (
	StateDormant EnemyState = iota
	StateActive
	StateTrapped
	StatePurified // terminal: removed from the live set
)

// String returns the lowercase state name.
func (s EnemyState) String() string {
	switch s {
	case StateDormant:
		return "dormant"
	case StateActive:
		return "active"
	case StateTrapped:
		return "trapped"
	case StatePurified:
		return "purified"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the state as its name so API clients never see
// bare enum numbers.
func (s EnemyState) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// UnmarshalJSON decodes a state name.
func (s *EnemyState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "dormant":
		*s = StateDormant
	case "active":
		*s = StateActive
	case "trapped":
		*s = StateTrapped
	case "purified":
		*s = StatePurified
	default:
		return fmt.Errorf("unknown enemy state %q", name)
	}
	return nil
}

// Player is the single player token. It only has a position; the player
// never dies during a level, it is replaced wholesale on setup or reset.
type Player struct {
	Pos Position
}

// Enemy is one pursuer token. ID is assigned from spawn-list order at level
// setup and is stable for the enemy's whole life; that creation order is the
// iteration order of every per-turn pass, which later enemies depend on to
// observe earlier enemies' already-updated positions.
type Enemy struct {
	ID           int
	Pos          Position
	Color        Color
	State        EnemyState
	TrappedTurns int

	// wokeTurn records the turn the enemy left Dormant; it sits out the
	// movement phase of that turn and joins the chase on the next one.
	wokeTurn uint64
}

// Alive reports whether the enemy is still in the live set.
func (e *Enemy) Alive() bool { return e.State != StatePurified }

// MatchStatus is the closed set of match outcomes. Only the engine's
// terminal checks ever change it.
type MatchStatus uint8

const (
	StatusPlaying MatchStatus = iota
	StatusWon
	StatusLost
)

// String returns the lowercase status name.
func (s MatchStatus) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its name.
func (s MatchStatus) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// UnmarshalJSON decodes a status name.
func (s *MatchStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "playing":
		*s = StatusPlaying
	case "won":
		*s = StatusWon
	case "lost":
		*s = StatusLost
	default:
		return fmt.Errorf("unknown match status %q", name)
	}
	return nil
}
