package hivemg

// Apply plays m without checking legality and returns a closure that takes it
// back. It is the fast path for search and perft, which only feed it moves
// from ValidMoves; use Play for untrusted input.
func (b *Board) Apply(m Move) func() {
	b.applyMove(m)
	return b.undo
}

func (b *Board) applyMove(m Move) {
	entry := historyEntry{
		move:          m,
		prevLastMoved: b.lastMoved,
		prevState:     b.state,
		prevSignature: b.signature,
	}

	if b.lastMoved != NoPiece {
		b.signature ^= zobristLastMoved[b.lastMoved]
	}
	if m.IsPass() {
		b.lastMoved = NoPiece
	} else {
		p := m.Piece
		if b.inPlay[p] {
			from := b.positions[p]
			entry.from = from
			entry.wasInPlay = true
			b.popTop(from.Ground())
			b.signature ^= zobristPiece(p, from)
		}
		dest := m.Dest.Ground()
		dest.Stack = b.pushTop(dest, p)
		b.positions[p] = dest
		b.inPlay[p] = true
		b.signature ^= zobristPiece(p, dest)
		b.lastMoved = p
		b.signature ^= zobristLastMoved[p]
	}
	b.signature ^= zobristSide

	b.history = append(b.history, entry)
	b.currentTurn++
	b.state = b.computeState()
}

func (b *Board) undo() {
	n := len(b.history) - 1
	entry := b.history[n]
	b.history = b.history[:n]

	if m := entry.move; !m.IsPass() {
		p := m.Piece
		b.popTop(b.positions[p].Ground())
		if entry.wasInPlay {
			b.pushTop(entry.from.Ground(), p)
			b.positions[p] = entry.from
		} else {
			b.positions[p] = Position{}
			b.inPlay[p] = false
		}
	}
	b.lastMoved = entry.prevLastMoved
	b.signature = entry.prevSignature
	b.state = entry.prevState
	b.currentTurn--
}

// Play validates m against the legal moves of the side to move and applies
// it. On error the board is unchanged. Stack levels in m.Dest are ignored;
// the board derives them.
func (b *Board) Play(m Move) error {
	if b.GameOver() {
		return ErrGameOver
	}
	valid := b.ValidMoves()
	if m.IsPass() {
		if len(valid) > 0 {
			return &InvalidMoveError{Move: m, Reason: "passing is only allowed when no other move exists"}
		}
		b.applyMove(PassMove)
		return nil
	}
	if !m.Piece.Valid() {
		return &InvalidMoveError{Move: m, Reason: "unknown piece"}
	}
	for _, v := range valid {
		if v.sameAs(m) {
			b.applyMove(v)
			return nil
		}
	}
	return &InvalidMoveError{Move: m, Reason: b.explainInvalid(m)}
}

// explainInvalid names the first rule m breaks. m is known to be illegal.
func (b *Board) explainInvalid(m Move) string {
	p := m.Piece
	color := b.CurrentColor()
	turn := b.currentTurn / 2
	queenInPlay := b.inPlay[QueenOf(color)]
	switch {
	case !b.gameType.Includes(p.BugType()):
		return "piece is not part of this game type"
	case p.Color() != color:
		return "it is " + color.String() + "'s turn"
	case !b.inPlay[p] && !queenInPlay && turn >= 3 && p.BugType() != QueenBee:
		return "the queen bee must be placed by the fourth turn"
	case !b.inPlay[p] && p.BugType() == QueenBee && turn == 0:
		return "the queen bee cannot be placed on the first turn"
	case !b.inPlay[p] && !b.isNextInHand(p):
		return "a lower-numbered piece of that bug type must be placed first"
	case !b.inPlay[p]:
		return "pieces must be placed next to a friendly piece and away from enemy pieces"
	case !queenInPlay:
		return "the queen bee must be in play before pieces can move"
	case p == b.lastMoved:
		return "the piece was moved last turn"
	case b.IsPinned(p):
		return "moving the piece would break the hive"
	}
	return "the destination cannot be reached"
}

func (b *Board) isNextInHand(p PieceName) bool {
	for _, q := range colorPieces(p.Color()) {
		if q.BugType() == p.BugType() && !b.inPlay[q] {
			return q == p
		}
	}
	return false
}

// UndoLastMove takes back the most recent move, including passes.
func (b *Board) UndoLastMove() error {
	if len(b.history) == 0 {
		return ErrNoMovesToUndo
	}
	b.undo()
	return nil
}
