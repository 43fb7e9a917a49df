package game

// ChaseStep selects an enemy's next cell. It is a pure function: all state
// it needs arrives through its arguments, and the blocked callback must
// already reflect every move made earlier in the current turn.
//
// Candidates are the four cardinal neighbors, scanned in the fixed order
// up, down, left, right. Two rules, in priority order:
//
//  1. Any candidate strictly closer to the player (Manhattan) beats staying
//     put and beats every non-improving candidate. Among improving
//     candidates the smallest distance wins; equal distances keep the first
//     one seen in scan order.
//  2. If nothing improves, a candidate at the same distance to the player is
//     taken only if it strictly increases Manhattan distance from the goal
//     compared to staying. The largest increase wins; equal increases keep
//     the first one seen.
//
// If neither rule picks a candidate the enemy stays where it is. The result
// is never diagonal and never more than one cell away. Rule order is the
// mechanic that lets a player steer equidistant pursuers away from the goal
// before luring them in.
func ChaseStep(cur, player, goal Position, blocked func(Position) bool) Position {
	playerDist := Manhattan(cur, player)
	goalDist := Manhattan(cur, goal)

	var chase Position
	chaseDist := 0
	haveChase := false

	var avoid Position
	avoidDist := goalDist
	haveAvoid := false

	for _, dir := range chaseOrder {
		c := cur.Add(dir)
		if blocked(c) {
			continue
		}
		d := Manhattan(c, player)
		switch {
		case d < playerDist:
			if !haveChase || d < chaseDist {
				chase, chaseDist, haveChase = c, d, true
			}
		case d == playerDist:
			if g := Manhattan(c, goal); g > avoidDist {
				avoid, avoidDist, haveAvoid = c, g, true
			}
		}
	}

	if haveChase {
		return chase
	}
	if haveAvoid {
		return avoid
	}
	return cur
}
