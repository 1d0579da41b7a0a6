package hivemg

// moveSet collects generated moves in generation order without duplicates.
type moveSet struct {
	moves []Move
	seen  map[Move]struct{}
}

func newMoveSet(capacity int) moveSet {
	return moveSet{
		moves: make([]Move, 0, capacity),
		seen:  make(map[Move]struct{}, capacity),
	}
}

func (s *moveSet) add(m Move) {
	if _, ok := s.seen[m]; ok {
		return
	}
	s.seen[m] = struct{}{}
	s.moves = append(s.moves, m)
}

// ValidMoves returns every legal move for the side to move, in a stable
// order. It is empty when the game is over or the side to move must pass.
func (b *Board) ValidMoves() []Move {
	if b.GameOver() {
		return nil
	}
	set := newMoveSet(64)
	color := b.CurrentColor()
	b.generatePlacements(&set, color)
	if b.inPlay[QueenOf(color)] {
		pinned := b.pinnedPieces()
		for _, p := range colorPieces(color) {
			if !b.inPlay[p] || p == b.lastMoved || pinned[p] {
				continue
			}
			b.generatePieceMoves(&set, p)
		}
		b.generateThrows(&set, color, &pinned)
	}
	return set.moves
}

// MustPass reports whether the game is running and the side to move has no move.
func (b *Board) MustPass() bool {
	return !b.GameOver() && len(b.ValidMoves()) == 0
}

func colorPieces(c Color) []PieceName {
	out := make([]PieceName, piecesPerColor)
	for i := range out {
		out[i] = PieceName(int(c)*piecesPerColor + i)
	}
	return out
}

// =============================================================================
// PLACEMENT
// =============================================================================

// placementCells lists the empty cells where c may put a new piece.
func (b *Board) placementCells(c Color) []Position {
	switch b.currentTurn {
	case 0:
		return []Position{Origin}
	case 1:
		cells := Origin.Neighbors()
		return cells[:]
	}
	var cells []Position
	seen := make(map[Position]struct{})
	for _, p := range colorPieces(c) {
		if !b.inPlay[p] {
			continue
		}
		cell := b.positions[p].Ground()
		if b.top(cell) != p {
			continue
		}
		for d := Direction(0); d < NumDirections; d++ {
			n := cell.Neighbor(d)
			if _, ok := seen[n]; ok || b.height(n) != 0 {
				continue
			}
			seen[n] = struct{}{}
			if !b.touchesColor(n, c.Opponent()) {
				cells = append(cells, n)
			}
		}
	}
	return cells
}

func (b *Board) touchesColor(cell Position, c Color) bool {
	for d := Direction(0); d < NumDirections; d++ {
		if t := b.top(cell.Neighbor(d)); t != NoPiece && t.Color() == c {
			return true
		}
	}
	return false
}

func (b *Board) generatePlacements(set *moveSet, c Color) {
	cells := b.placementCells(c)
	if len(cells) == 0 {
		return
	}
	turn := b.currentTurn / 2
	queenInHand := !b.inPlay[QueenOf(c)]
	var offered [NumBugTypes]bool
	for _, p := range colorPieces(c) {
		bt := p.BugType()
		if b.inPlay[p] || offered[bt] || !b.gameType.Includes(bt) {
			continue
		}
		// Only the lowest-numbered piece of each bug type is offered.
		offered[bt] = true
		if bt == QueenBee && turn == 0 {
			continue
		}
		if queenInHand && turn >= 3 && bt != QueenBee {
			continue
		}
		for _, cell := range cells {
			set.add(Move{Piece: p, Dest: cell})
		}
	}
}

// =============================================================================
// MOVEMENT
// =============================================================================

// generatePieceMoves adds the moves of in-play piece p by its own rules.
// The piece is lifted off the board while its destinations are explored.
func (b *Board) generatePieceMoves(set *moveSet, p PieceName) {
	from := b.positions[p]
	cell := from.Ground()
	if b.top(cell) != p {
		return
	}
	b.popTop(cell)
	b.generateBugMoves(set, p, p.BugType(), from)
	b.pushTop(cell, p)
}

func (b *Board) generateBugMoves(set *moveSet, p PieceName, bt BugType, from Position) {
	cell := from.Ground()
	switch bt {
	case QueenBee, Pillbug:
		b.slideMoves(set, p, cell)
	case Spider:
		b.spiderMoves(set, p, cell)
	case Beetle:
		b.beetleMoves(set, p, from)
	case Grasshopper:
		b.grasshopperMoves(set, p, cell)
	case SoldierAnt:
		b.antMoves(set, p, cell)
	case Ladybug:
		b.ladybugMoves(set, p, cell)
	case Mosquito:
		if from.Stack > 0 {
			b.beetleMoves(set, p, from)
			return
		}
		var mimic [NumBugTypes]bool
		for d := Direction(0); d < NumDirections; d++ {
			if t := b.top(cell.Neighbor(d)); t != NoPiece {
				mimic[t.BugType()] = true
			}
		}
		for other := BugType(0); other < NumBugTypes; other++ {
			if mimic[other] && other != Mosquito {
				b.generateBugMoves(set, p, other, from)
			}
		}
	}
}

// canStep applies the gate rule to a single step from cell in direction d,
// starting at level fromLevel and landing at level toLevel. A step along the
// ground must also keep touching the hive.
func (b *Board) canStep(cell Position, d Direction, fromLevel, toLevel int) bool {
	left := b.height(cell.Neighbor(d.Left()))
	right := b.height(cell.Neighbor(d.Right()))
	if min(left, right) > max(fromLevel, toLevel) {
		return false
	}
	if fromLevel == 0 && toLevel == 0 {
		return left > 0 || right > 0
	}
	return true
}

func (b *Board) canSlide(cell Position, d Direction) bool {
	return b.height(cell.Neighbor(d)) == 0 && b.canStep(cell, d, 0, 0)
}

func (b *Board) slideMoves(set *moveSet, p PieceName, cell Position) {
	for d := Direction(0); d < NumDirections; d++ {
		if b.canSlide(cell, d) {
			set.add(Move{Piece: p, Dest: cell.Neighbor(d)})
		}
	}
}

func (b *Board) spiderMoves(set *moveSet, p PieceName, start Position) {
	var path [4]Position
	path[0] = start
	var walk func(step int)
	walk = func(step int) {
		cur := path[step]
		if step == 3 {
			set.add(Move{Piece: p, Dest: cur})
			return
		}
		for d := Direction(0); d < NumDirections; d++ {
			if !b.canSlide(cur, d) {
				continue
			}
			next := cur.Neighbor(d)
			visited := false
			for _, prev := range path[:step+1] {
				if prev == next {
					visited = true
					break
				}
			}
			if visited {
				continue
			}
			path[step+1] = next
			walk(step + 1)
		}
	}
	walk(0)
}

func (b *Board) antMoves(set *moveSet, p PieceName, start Position) {
	seen := map[Position]struct{}{start: {}}
	queue := []Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for d := Direction(0); d < NumDirections; d++ {
			if !b.canSlide(cur, d) {
				continue
			}
			next := cur.Neighbor(d)
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			set.add(Move{Piece: p, Dest: next})
			queue = append(queue, next)
		}
	}
}

func (b *Board) beetleMoves(set *moveSet, p PieceName, from Position) {
	cell := from.Ground()
	for d := Direction(0); d < NumDirections; d++ {
		to := cell.Neighbor(d)
		level := b.height(to)
		if !b.canStep(cell, d, from.Stack, level) {
			continue
		}
		to.Stack = level
		set.add(Move{Piece: p, Dest: to})
	}
}

func (b *Board) grasshopperMoves(set *moveSet, p PieceName, cell Position) {
	for d := Direction(0); d < NumDirections; d++ {
		next := cell.Neighbor(d)
		if b.height(next) == 0 {
			continue
		}
		for b.height(next) > 0 {
			next = next.Neighbor(d)
		}
		set.add(Move{Piece: p, Dest: next})
	}
}

// ladybugMoves: two steps over the top of the hive, then one step down.
func (b *Board) ladybugMoves(set *moveSet, p PieceName, start Position) {
	for d1 := Direction(0); d1 < NumDirections; d1++ {
		first := start.Neighbor(d1)
		h1 := b.height(first)
		if h1 == 0 || !b.canStep(start, d1, 0, h1) {
			continue
		}
		for d2 := Direction(0); d2 < NumDirections; d2++ {
			second := first.Neighbor(d2)
			h2 := b.height(second)
			if h2 == 0 || !b.canStep(first, d2, h1, h2) {
				continue
			}
			for d3 := Direction(0); d3 < NumDirections; d3++ {
				last := second.Neighbor(d3)
				if last == start || b.height(last) != 0 || !b.canStep(second, d3, h2, 0) {
					continue
				}
				set.add(Move{Piece: p, Dest: last})
			}
		}
	}
}

// =============================================================================
// PILLBUG THROWS
// =============================================================================

// generateThrows adds the moves where c's Pillbug, or c's Mosquito touching
// any Pillbug, carries an adjacent piece over itself to an empty cell.
func (b *Board) generateThrows(set *moveSet, c Color, pinned *[NumPieceNames]bool) {
	if !b.gameType.Includes(Pillbug) {
		return
	}
	for _, thrower := range [...]PieceName{PieceOf(c, Pillbug, 0), PieceOf(c, Mosquito, 0)} {
		if !b.gameType.Includes(thrower.BugType()) || !b.inPlay[thrower] || thrower == b.lastMoved {
			continue
		}
		pos := b.positions[thrower]
		cell := pos.Ground()
		if pos.Stack != 0 || b.height(cell) != 1 {
			continue
		}
		if thrower.BugType() == Mosquito && !b.touchesBug(cell, Pillbug) {
			continue
		}
		b.throwsFrom(set, cell, pinned)
	}
}

func (b *Board) throwsFrom(set *moveSet, cell Position, pinned *[NumPieceNames]bool) {
	for d := Direction(0); d < NumDirections; d++ {
		src := cell.Neighbor(d)
		if b.height(src) != 1 {
			continue
		}
		target := b.top(src)
		if target == b.lastMoved || pinned[target] {
			continue
		}
		// Lift onto the thrower, then drop on the far side.
		if !b.canStep(src, d.Opposite(), 0, 1) {
			continue
		}
		b.popTop(src)
		for e := Direction(0); e < NumDirections; e++ {
			dst := cell.Neighbor(e)
			if dst == src || b.height(dst) != 0 || !b.canStep(cell, e, 1, 0) {
				continue
			}
			set.add(Move{Piece: target, Dest: dst})
		}
		b.pushTop(src, target)
	}
}

func (b *Board) touchesBug(cell Position, bt BugType) bool {
	for d := Direction(0); d < NumDirections; d++ {
		if t := b.top(cell.Neighbor(d)); t != NoPiece && t.BugType() == bt {
			return true
		}
	}
	return false
}
