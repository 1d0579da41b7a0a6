package hivemg

// Move places or moves Piece so that it ends up at Dest. Dest.Stack is the
// level the piece will occupy. A Piece of NoPiece marks a pass.
type Move struct {
	Piece PieceName
	Dest  Position
}

var PassMove = Move{Piece: NoPiece}

func (m Move) IsPass() bool { return m.Piece == NoPiece }

// String uses the absolute destination form; FormatMove produces the
// neighbour-relative form, which needs a board.
func (m Move) String() string {
	if m.IsPass() {
		return passString
	}
	return m.Piece.String() + m.Dest.String()
}

// sameAs compares moves by piece and destination cell. Stack levels are
// derived from the board, so callers may leave them unset.
func (m Move) sameAs(o Move) bool {
	return m.Piece == o.Piece && (m.IsPass() || m.Dest.Ground() == o.Dest.Ground())
}
