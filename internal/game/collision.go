package game

// mergeResult records one same-color merge: the surviving enemy and the
// members that were purified into it.
type mergeResult struct {
	survivor *Enemy
	removed  []*Enemy
}

// resolveCollisions groups live enemies by cell and collapses each
// same-color group to its lowest-creation-order member, purifying the rest.
// Mixed-color groups are left untouched: movement treats rival colors as
// blocking, so a mixed stack never arises from legal movement, and if one
// ever did this resolver would not be the place to invent an outcome for it.
//
// The input slice is in creation order, so group[0] is always the oldest
// member and group keys are visited in first-seen order — both matter for
// determinism.
func resolveCollisions(enemies []*Enemy) []mergeResult {
	byCell := make(map[Position][]*Enemy)
	var cells []Position
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		if _, seen := byCell[e.Pos]; !seen {
			cells = append(cells, e.Pos)
		}
		byCell[e.Pos] = append(byCell[e.Pos], e)
	}

	var results []mergeResult
	for _, cell := range cells {
		group := byCell[cell]
		if len(group) < 2 {
			continue
		}
		mixed := false
		for _, e := range group[1:] {
			if e.Color != group[0].Color {
				mixed = true
				break
			}
		}
		if mixed {
			continue
		}
		res := mergeResult{survivor: group[0]}
		for _, e := range group[1:] {
			e.State = StatePurified
			res.removed = append(res.removed, e)
		}
		results = append(results, res)
	}
	return results
}
