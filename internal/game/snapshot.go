package game

import (
	"sync/atomic"
	"time"
)

// MaxEnemies caps how many enemies a published snapshot carries. It only
// bounds pool pre-allocation; level validation is separate.
const MaxEnemies = 64

// EnemySnapshot is an immutable copy of one live enemy.
type EnemySnapshot struct {
	ID           int        `json:"id"`
	Pos          Position   `json:"pos"`
	Color        Color      `json:"color"`
	State        EnemyState `json:"state"`
	TrappedTurns int        `json:"trappedTurns,omitempty"`
}

// Snapshot is a complete immutable view of the match after a turn. Value
// types only, so callers can hold one across turns without copying.
//
// Sequence and Timestamp are set only on snapshots published through the
// pool for broadcast consumers; Engine.Snapshot leaves them zero so that
// deterministic replays produce byte-identical snapshots.
type Snapshot struct {
	Sequence  uint64    `json:"sequence,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`

	Turn      uint64          `json:"turn"`
	Player    Position        `json:"player"`
	Status    MatchStatus     `json:"status"`
	Enemies   []EnemySnapshot `json:"enemies"`
	LiveCount int             `json:"liveCount"`
}

// SnapshotPool triple-buffers snapshots so the WebSocket broadcaster and
// HTTP handlers can read the latest turn without taking the engine lock.
type SnapshotPool struct {
	snapshots [3]Snapshot
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated enemy slices.
func NewSnapshotPool() *SnapshotPool {
	p := &SnapshotPool{}
	for i := range p.snapshots {
		p.snapshots[i].Enemies = make([]EnemySnapshot, 0, MaxEnemies)
	}
	return p
}

// AcquireWrite returns the next write slot (producer only) with the enemy
// slice reset but its capacity kept.
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]
	snap.Enemies = snap.Enemies[:0]
	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite marks the write complete and advances the read pointer.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published snapshot (consumer only).
func (p *SnapshotPool) AcquireRead() *Snapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}
