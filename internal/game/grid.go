package game

// Position is a cell on the board. X grows rightward, Y grows upward.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell one step away in the given direction.
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Manhattan returns the number of cardinal steps between two cells.
func Manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Chebyshev returns the king-move distance between two cells.
func Chebyshev(a, b Position) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is a unit step vector. The engine accepts any of the eight
// king-move directions from the player; which subset is offered to a human
// is the input layer's business. Enemies only ever step cardinally.
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

var (
	DirUp        = Direction{DX: 0, DY: 1}
	DirDown      = Direction{DX: 0, DY: -1}
	DirLeft      = Direction{DX: -1, DY: 0}
	DirRight     = Direction{DX: 1, DY: 0}
	DirUpLeft    = Direction{DX: -1, DY: 1}
	DirUpRight   = Direction{DX: 1, DY: 1}
	DirDownLeft  = Direction{DX: -1, DY: -1}
	DirDownRight = Direction{DX: 1, DY: -1}
)

// chaseOrder is the candidate scan order for enemy movement. The order is
// significant: ties between equally good candidates keep the first one seen.
var chaseOrder = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// ParseDirection maps a wire name ("up", "down-left", ...) to a Direction.
func ParseDirection(name string) (Direction, bool) {
	switch name {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	case "up-left":
		return DirUpLeft, true
	case "up-right":
		return DirUpRight, true
	case "down-left":
		return DirDownLeft, true
	case "down-right":
		return DirDownRight, true
	default:
		return Direction{}, false
	}
}

// String returns the wire name of a direction, or "none" for the zero value.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUpLeft:
		return "up-left"
	case DirUpRight:
		return "up-right"
	case DirDownLeft:
		return "down-left"
	case DirDownRight:
		return "down-right"
	default:
		return "none"
	}
}

// Grid is the static terrain of one level: bounds, obstacle cells, mud cells
// and the purification goal. Immutable after construction; all methods are
// pure queries.
type Grid struct {
	width     int
	height    int
	obstacles map[Position]struct{}
	mud       map[Position]struct{}
	goal      Position
}

func newGrid(cfg LevelConfig) *Grid {
	g := &Grid{
		width:     cfg.Width,
		height:    cfg.Height,
		obstacles: make(map[Position]struct{}, len(cfg.Obstacles)),
		mud:       make(map[Position]struct{}, len(cfg.Mud)),
		goal:      cfg.Goal,
	}
	for _, p := range cfg.Obstacles {
		g.obstacles[p] = struct{}{}
	}
	for _, p := range cfg.Mud {
		g.mud[p] = struct{}{}
	}
	return g
}

// Width returns the horizontal cell count.
func (g *Grid) Width() int { return g.width }

// Height returns the vertical cell count.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies on the board.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// IsObstacle reports whether p is an obstacle cell.
func (g *Grid) IsObstacle(p Position) bool {
	_, ok := g.obstacles[p]
	return ok
}

// IsMud reports whether p is a mud cell.
func (g *Grid) IsMud(p Position) bool {
	_, ok := g.mud[p]
	return ok
}

// Goal returns the purification cell.
func (g *Grid) Goal() Position { return g.goal }
