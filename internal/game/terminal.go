package game

// IsCaptured reports whether any live Active enemy stands on the player's
// cell. Dormant and trapped enemies share the cell harmlessly.
func IsCaptured(player Position, enemies []*Enemy) bool {
	for _, e := range enemies {
		if e.State == StateActive && e.Pos == player {
			return true
		}
	}
	return false
}

// IsVictory reports whether the live enemy set is empty.
func IsVictory(enemies []*Enemy) bool {
	for _, e := range enemies {
		if e.Alive() {
			return false
		}
	}
	return true
}
