package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"gridwraith/internal/game"
	"gridwraith/internal/render"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	// Use the lock-free snapshot instead of Snapshot() to avoid RWMutex
	// contention on every poll request
	snapshot := h.engine.Latest()
	eventStats := h.engine.GetEventLogStats()

	if total, ok := eventStats["total"].(uint64); ok {
		if dropped, ok := eventStats["dropped"].(uint64); ok {
			UpdateEventLogStats(total, dropped)
		}
	}

	writeJSON(w, map[string]interface{}{
		"turn":      snapshot.Turn,
		"status":    snapshot.Status,
		"liveCount": snapshot.LiveCount,
		"sequence":  snapshot.Sequence,
		"eventLog":  eventStats,
	})
}

func (h *routerHandlers) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	dir, ok := game.ParseDirection(req.Direction)
	if !ok {
		writeError(w, "Unknown direction: "+req.Direction, http.StatusBadRequest)
		return
	}

	start := time.Now()
	outcome, err := h.engine.AttemptMove(dir)
	if err != nil {
		// Moving with no level or after the match ended is a caller bug,
		// not a rejected move
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	if outcome.Accepted {
		RecordTurn(time.Since(start))
		RecordMove("accepted")
		UpdateLiveEnemyCount(outcome.Snapshot.LiveCount)
		switch outcome.Snapshot.Status {
		case game.StatusWon:
			RecordMatchResult("won")
		case game.StatusLost:
			RecordMatchResult("lost")
		}
		h.notifyTurn(outcome.Snapshot)
	} else {
		RecordMove(outcome.Reason.String())
	}

	writeJSON(w, map[string]interface{}{
		"accepted": outcome.Accepted,
		"reason":   outcome.Reason.String(),
		"snapshot": outcome.Snapshot,
	})
}

func (h *routerHandlers) handleLoadLevel(w http.ResponseWriter, r *http.Request) {
	var cfg game.LevelConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.engine.SetupLevel(cfg); err != nil {
		var cfgErr *game.ConfigError
		if errors.As(err, &cfgErr) {
			writeError(w, cfgErr.Error(), http.StatusBadRequest)
			return
		}
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("🗺️ Level loaded: %dx%d, %d spawns", cfg.Width, cfg.Height, len(cfg.Spawns))
	RecordLevelLoad()

	snap := h.engine.Snapshot()
	h.notifyTurn(snap)
	writeJSON(w, snap)
}

func (h *routerHandlers) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Reset()
	if err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	RecordLevelLoad()
	h.notifyTurn(snap)
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	level, ok := h.engine.Level()
	if !ok {
		writeError(w, "no level loaded", http.StatusNotFound)
		return
	}

	board := render.NewBoard(level, render.DefaultCellSize)
	snap := h.engine.Snapshot()

	start := time.Now()
	w.Header().Set("Content-Type", "image/png")
	if err := board.EncodePNG(w, snap); err != nil {
		log.Printf("⚠️ Frame render error: %v", err)
		return
	}
	RecordRender(time.Since(start))
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
