package hivemg

import (
	"strings"
)

type BoardState int

const (
	NotStarted BoardState = iota
	InProgress
	Draw
	WhiteWins
	BlackWins
)

var boardStateNames = [...]string{"NotStarted", "InProgress", "Draw", "WhiteWins", "BlackWins"}

func (s BoardState) String() string {
	if s < 0 || int(s) >= len(boardStateNames) {
		return "Unknown"
	}
	return boardStateNames[s]
}

func ParseBoardState(s string) (BoardState, error) {
	for i, name := range boardStateNames {
		if strings.EqualFold(s, name) {
			return BoardState(i), nil
		}
	}
	return NotStarted, &ParseError{Input: s, Reason: "unknown board state"}
}

func (s BoardState) IsOver() bool {
	return s == Draw || s == WhiteWins || s == BlackWins
}

// historyEntry holds everything needed to take a move back exactly.
type historyEntry struct {
	move          Move
	from          Position
	wasInPlay     bool
	prevLastMoved PieceName
	prevState     BoardState
	prevSignature uint64
}

// Board is a Hive position plus the history that produced it.
// Cells are keyed by their ground position; each holds its stack bottom-up.
type Board struct {
	gameType  GameType
	positions [NumPieceNames]Position
	inPlay    [NumPieceNames]bool
	stacks    map[Position][]PieceName

	currentTurn int
	state       BoardState
	lastMoved   PieceName
	signature   uint64
	history     []historyEntry
}

func NewBoard(gt GameType) *Board {
	b := &Board{
		gameType:  gt,
		stacks:    make(map[Position][]PieceName, NumPieceNames),
		lastMoved: NoPiece,
	}
	b.signature = b.ComputeZobrist()
	return b
}

func (b *Board) GameType() GameType { return b.gameType }
func (b *Board) State() BoardState  { return b.state }
func (b *Board) GameOver() bool     { return b.state.IsOver() }
func (b *Board) Signature() uint64  { return b.signature }

// LastMoved is the piece moved, placed or thrown by the previous move, or NoPiece.
func (b *Board) LastMoved() PieceName { return b.lastMoved }

// CurrentTurn counts plies played so far, passes included.
func (b *Board) CurrentTurn() int { return b.currentTurn }

func (b *Board) CurrentColor() Color { return Color(b.currentTurn & 1) }

// CurrentPlayerTurn is the 1-based turn number of the side to move.
func (b *Board) CurrentPlayerTurn() int { return b.currentTurn/2 + 1 }

func (b *Board) PieceInPlay(p PieceName) bool { return p.Valid() && b.inPlay[p] }

func (b *Board) PiecePosition(p PieceName) (Position, bool) {
	if !b.PieceInPlay(p) {
		return Position{}, false
	}
	return b.positions[p], true
}

// PieceAt returns the piece at pos, honouring pos.Stack.
func (b *Board) PieceAt(pos Position) PieceName {
	s := b.stacks[pos.Ground()]
	if pos.Stack < 0 || pos.Stack >= len(s) {
		return NoPiece
	}
	return s[pos.Stack]
}

// TopPieceAt returns the uppermost piece on the cell, or NoPiece when empty.
func (b *Board) TopPieceAt(cell Position) PieceName {
	return b.top(cell.Ground())
}

func (b *Board) StackHeight(cell Position) int {
	return len(b.stacks[cell.Ground()])
}

func (b *Board) PiecesInPlay() []PieceName {
	out := make([]PieceName, 0, NumPieceNames)
	for p := PieceName(0); p < NumPieceNames; p++ {
		if b.inPlay[p] {
			out = append(out, p)
		}
	}
	return out
}

// PiecesInHand counts pieces of the game type that have not been placed.
func (b *Board) PiecesInHand(c Color) int {
	n := 0
	for _, p := range b.gameType.Pieces() {
		if p.Color() == c && !b.inPlay[p] {
			n++
		}
	}
	return n
}

// Moves returns the moves played so far, oldest first.
func (b *Board) Moves() []Move {
	out := make([]Move, len(b.history))
	for i, e := range b.history {
		out[i] = e.move
	}
	return out
}

// RepetitionCount is how often the current position has occurred, including now.
func (b *Board) RepetitionCount() int {
	n := 1
	for _, e := range b.history {
		if e.prevSignature == b.signature {
			n++
		}
	}
	return n
}

func (b *Board) Clone() *Board {
	nb := *b
	nb.stacks = make(map[Position][]PieceName, len(b.stacks))
	for cell, s := range b.stacks {
		nb.stacks[cell] = append(make([]PieceName, 0, len(s)+1), s...)
	}
	nb.history = append([]historyEntry(nil), b.history...)
	return &nb
}

// Equal compares game type, piece placement, turn, state and move history.
func (b *Board) Equal(o *Board) bool {
	if b.gameType != o.gameType || b.currentTurn != o.currentTurn || b.state != o.state ||
		b.lastMoved != o.lastMoved || b.signature != o.signature ||
		b.positions != o.positions || b.inPlay != o.inPlay || len(b.history) != len(o.history) {
		return false
	}
	for i := range b.history {
		if b.history[i].move != o.history[i].move {
			return false
		}
	}
	return true
}

func (b *Board) height(cell Position) int { return len(b.stacks[cell]) }

func (b *Board) top(cell Position) PieceName {
	s := b.stacks[cell]
	if len(s) == 0 {
		return NoPiece
	}
	return s[len(s)-1]
}

func (b *Board) popTop(cell Position) PieceName {
	s := b.stacks[cell]
	p := s[len(s)-1]
	if len(s) == 1 {
		delete(b.stacks, cell)
	} else {
		b.stacks[cell] = s[:len(s)-1]
	}
	return p
}

func (b *Board) pushTop(cell Position, p PieceName) int {
	b.stacks[cell] = append(b.stacks[cell], p)
	return len(b.stacks[cell]) - 1
}

func (b *Board) queenSurrounded(c Color) bool {
	q := QueenOf(c)
	if !b.inPlay[q] {
		return false
	}
	cell := b.positions[q].Ground()
	for d := Direction(0); d < NumDirections; d++ {
		if b.height(cell.Neighbor(d)) == 0 {
			return false
		}
	}
	return true
}

func (b *Board) computeState() BoardState {
	if b.currentTurn == 0 {
		return NotStarted
	}
	white, black := b.queenSurrounded(White), b.queenSurrounded(Black)
	switch {
	case white && black:
		return Draw
	case white:
		return BlackWins
	case black:
		return WhiteWins
	}
	return InProgress
}
