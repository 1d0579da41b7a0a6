package hivemg

// IsConnected reports whether all occupied cells form a single group.
func (b *Board) IsConnected() bool {
	return b.connectedWithout(Position{}, false)
}

// connectedWithout flood-fills the occupied cells, optionally treating skip
// as empty, and reports whether every remaining cell was reached.
func (b *Board) connectedWithout(skip Position, useSkip bool) bool {
	total := len(b.stacks)
	if useSkip {
		if _, ok := b.stacks[skip]; ok {
			total--
		}
	}
	if total <= 1 {
		return true
	}

	var start Position
	for cell := range b.stacks {
		if useSkip && cell == skip {
			continue
		}
		start = cell
		break
	}

	seen := make(map[Position]struct{}, total)
	seen[start] = struct{}{}
	queue := make([]Position, 0, total)
	queue = append(queue, start)
	for len(queue) > 0 {
		cell := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for d := Direction(0); d < NumDirections; d++ {
			n := cell.Neighbor(d)
			if useSkip && n == skip {
				continue
			}
			if _, occupied := b.stacks[n]; !occupied {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return len(seen) == total
}

// pinnedPieces marks every piece whose removal would split the hive: the
// articulation points of the cell graph, found in one depth-first pass.
// Only a piece alone on its cell can be pinned; taking a piece off a stack
// leaves the cell occupied.
func (b *Board) pinnedPieces() (pinned [NumPieceNames]bool) {
	if len(b.stacks) <= 2 {
		return pinned
	}
	var root Position
	for cell := range b.stacks {
		root = cell
		break
	}
	cut := articulation{
		board: b,
		disc:  make(map[Position]int, len(b.stacks)),
		low:   make(map[Position]int, len(b.stacks)),
	}
	cut.visit(root, root, true)
	for cell := range cut.points {
		if s := b.stacks[cell]; len(s) == 1 {
			pinned[s[0]] = true
		}
	}
	return pinned
}

type articulation struct {
	board  *Board
	disc   map[Position]int
	low    map[Position]int
	points map[Position]struct{}
	clock  int
}

func (a *articulation) visit(cell, parent Position, isRoot bool) {
	a.clock++
	a.disc[cell] = a.clock
	a.low[cell] = a.clock
	children := 0
	for d := Direction(0); d < NumDirections; d++ {
		n := cell.Neighbor(d)
		if a.board.height(n) == 0 {
			continue
		}
		if t, seen := a.disc[n]; seen {
			if isRoot || n != parent {
				a.low[cell] = min(a.low[cell], t)
			}
			continue
		}
		children++
		a.visit(n, cell, false)
		a.low[cell] = min(a.low[cell], a.low[n])
		if !isRoot && a.low[n] >= a.disc[cell] {
			a.mark(cell)
		}
	}
	if isRoot && children > 1 {
		a.mark(cell)
	}
}

func (a *articulation) mark(cell Position) {
	if a.points == nil {
		a.points = make(map[Position]struct{})
	}
	a.points[cell] = struct{}{}
}

// IsPinned reports whether p is in play and cannot leave its cell without
// breaking the one-hive rule.
func (b *Board) IsPinned(p PieceName) bool {
	if !b.PieceInPlay(p) {
		return false
	}
	cell := b.positions[p].Ground()
	if len(b.stacks[cell]) != 1 || b.singleNeighborRun(cell) {
		return false
	}
	return !b.connectedWithout(cell, true)
}

func (b *Board) singleNeighborRun(cell Position) bool {
	runs := 0
	prev := b.height(cell.Neighbor(UpLeft)) > 0
	for d := Direction(0); d < NumDirections; d++ {
		cur := b.height(cell.Neighbor(d)) > 0
		if cur && !prev {
			runs++
		}
		prev = cur
	}
	// runs is 0 when every neighbour is occupied.
	return runs <= 1
}
