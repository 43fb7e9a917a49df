package game

import (
	"encoding/json"
	"time"
)

// EventType classifies diagnostic turn events.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeLevelLoaded
	EventTypeLevelReset
	EventTypeMoveAccepted
	EventTypeMoveRejected
	EventTypeEnemyWoke
	EventTypeEnemyTrapped
	EventTypeEnemyFreed
	EventTypeEnemiesMerged
	EventTypeEnemyPurified
	EventTypePlayerCaptured
	EventTypeMatchWon
)

// EventVersion for backwards compatibility when reading old logs.
const EventVersion uint8 = 1

// Event is one entry in the diagnostic turn log. The log is write-only
// telemetry: nothing in turn resolution ever reads it back, so outcomes are
// identical with logging disabled.
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	Turn      uint64    `json:"turn"`      // Turn the event occurred in
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns a human-readable event type name.
func (t EventType) String() string {
	switch t {
	case EventTypeLevelLoaded:
		return "level_loaded"
	case EventTypeLevelReset:
		return "level_reset"
	case EventTypeMoveAccepted:
		return "move_accepted"
	case EventTypeMoveRejected:
		return "move_rejected"
	case EventTypeEnemyWoke:
		return "enemy_woke"
	case EventTypeEnemyTrapped:
		return "enemy_trapped"
	case EventTypeEnemyFreed:
		return "enemy_freed"
	case EventTypeEnemiesMerged:
		return "enemies_merged"
	case EventTypeEnemyPurified:
		return "enemy_purified"
	case EventTypePlayerCaptured:
		return "player_captured"
	case EventTypeMatchWon:
		return "match_won"
	default:
		return "unknown"
	}
}

// Typed payloads for the different event types.

// LevelLoadedPayload describes a level setup or reset.
type LevelLoadedPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Spawns int `json:"spawns"`
}

// MovePayload records an accepted player move.
type MovePayload struct {
	Direction string   `json:"direction"`
	Player    Position `json:"player"`
}

// RejectPayload records a refused player move.
type RejectPayload struct {
	Direction string `json:"direction"`
	Reason    string `json:"reason"`
}

// EnemyPayload records a single-enemy state change.
type EnemyPayload struct {
	EnemyID int      `json:"enemyId"`
	Pos     Position `json:"pos"`
}

// MergePayload records a same-color merge.
type MergePayload struct {
	SurvivorID int      `json:"survivorId"`
	RemovedIDs []int    `json:"removedIds"`
	Pos        Position `json:"pos"`
}

// OutcomePayload records a terminal transition.
type OutcomePayload struct {
	Status string `json:"status"`
	Turn   uint64 `json:"turn"`
}

// EncodePayload marshals a payload to JSON bytes.
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp.
func NewEvent(eventType EventType, turn uint64, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		Turn:      turn,
		Payload:   EncodePayload(payload),
	}
}
