package hivemg

import "fmt"

// Position is a hex cell in cube coordinates (X+Y+Z == 0) plus the level of
// a piece within the stack on that cell. Stack 0 is the ground.
type Position struct {
	X, Y, Z int
	Stack   int
}

// Origin is where the first piece of every game is placed.
var Origin = Position{}

type Direction int

const (
	Up Direction = iota
	UpRight
	DownRight
	Down
	DownLeft
	UpLeft

	NumDirections = 6
)

var directionDelta = [NumDirections][3]int{
	{0, 1, -1}, // Up
	{1, 0, -1}, // UpRight
	{1, -1, 0}, // DownRight
	{0, -1, 1}, // Down
	{-1, 0, 1}, // DownLeft
	{-1, 1, 0}, // UpLeft
}

var directionNames = [NumDirections]string{"Up", "UpRight", "DownRight", "Down", "DownLeft", "UpLeft"}

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Left and Right are the neighbouring directions, counter-clockwise and clockwise.
func (d Direction) Left() Direction  { return (d + NumDirections - 1) % NumDirections }
func (d Direction) Right() Direction { return (d + 1) % NumDirections }

func (d Direction) Opposite() Direction { return (d + 3) % NumDirections }

func NewPosition(x, y, z, stack int) (Position, error) {
	p := Position{X: x, Y: y, Z: z, Stack: stack}
	if !p.IsValid() {
		return Position{}, fmt.Errorf("invalid position %v", p)
	}
	return p, nil
}

func (p Position) IsValid() bool {
	return p.X+p.Y+p.Z == 0 && p.Stack >= 0
}

// Ground returns the same cell at stack level 0.
func (p Position) Ground() Position {
	p.Stack = 0
	return p
}

// Neighbor returns the adjacent cell in direction d, at ground level.
func (p Position) Neighbor(d Direction) Position {
	delta := directionDelta[d]
	return Position{X: p.X + delta[0], Y: p.Y + delta[1], Z: p.Z + delta[2]}
}

func (p Position) Neighbors() [NumDirections]Position {
	var out [NumDirections]Position
	for d := Direction(0); d < NumDirections; d++ {
		out[d] = p.Neighbor(d)
	}
	return out
}

// DirectionTo reports the direction from p to an adjacent cell q, ignoring stack levels.
func (p Position) DirectionTo(q Position) (Direction, bool) {
	dx, dy, dz := q.X-p.X, q.Y-p.Y, q.Z-p.Z
	for d := Direction(0); d < NumDirections; d++ {
		delta := directionDelta[d]
		if delta[0] == dx && delta[1] == dy && delta[2] == dz {
			return d, true
		}
	}
	return 0, false
}

func (p Position) IsAdjacent(q Position) bool {
	_, ok := p.DirectionTo(q)
	return ok
}

// Distance is the hex distance between the cells of p and q.
func (p Position) Distance(q Position) int {
	return (abs(p.X-q.X) + abs(p.Y-q.Y) + abs(p.Z-q.Z)) / 2
}

func (p Position) String() string {
	if p.Stack == 0 {
		return fmt.Sprintf("[%d,%d,%d]", p.X, p.Y, p.Z)
	}
	return fmt.Sprintf("[%d,%d,%d,%d]", p.X, p.Y, p.Z, p.Stack)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
