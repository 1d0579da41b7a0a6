package hivemg

import (
	"fmt"
	"strconv"
	"strings"
)

const passString = "pass"

// Direction glyphs for the neighbour-relative form. A glyph after the
// reference piece puts the destination Up, UpRight or DownRight of it; a
// glyph before it puts the destination Down, DownLeft or UpLeft.
var (
	trailingGlyph = map[Direction]byte{Up: '/', UpRight: '-', DownRight: '\\'}
	leadingGlyph  = map[Direction]byte{Down: '/', DownLeft: '-', UpLeft: '\\'}
)

// FormatMove renders m relative to a piece already on the board, e.g.
// "bS1 wS1/" or "wB1 bQ" for a climb. It must be called before m is played.
func (b *Board) FormatMove(m Move) string {
	if m.IsPass() {
		return passString
	}
	name := m.Piece.String()
	if len(b.stacks) == 0 {
		return name
	}
	dest := m.Dest.Ground()
	if ref := b.top(dest); ref != NoPiece && ref != m.Piece {
		return name + " " + ref.String()
	}
	for d := Direction(0); d < NumDirections; d++ {
		refCell := dest.Neighbor(d)
		ref := b.referenceAt(refCell, m.Piece)
		if ref == NoPiece {
			continue
		}
		// dest lies in the opposite direction as seen from the reference.
		rel := d.Opposite()
		if g, ok := trailingGlyph[rel]; ok {
			return name + " " + ref.String() + string(g)
		}
		return name + " " + string(leadingGlyph[rel]) + ref.String()
	}
	return name + m.Dest.Ground().String()
}

// referenceAt is the uppermost piece on cell other than the moving piece.
func (b *Board) referenceAt(cell Position, moving PieceName) PieceName {
	s := b.stacks[cell]
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != moving {
			return s[i]
		}
	}
	return NoPiece
}

// ParseMove reads a move in either the relative form produced by FormatMove
// or the absolute form "wS1[x,y,z]" / "wS1[x,y,z,stack]". It checks syntax
// and references only; Play decides legality.
func (b *Board) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, passString) {
		return PassMove, nil
	}
	if i := strings.IndexByte(s, '['); i >= 0 {
		return b.parseAbsolute(s, i)
	}

	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Move{}, &ParseError{Input: s, Reason: "expected a piece and a reference"}
	}
	piece, err := ParsePieceName(fields[0])
	if err != nil {
		return Move{}, &ParseError{Input: s, Reason: "bad piece", Err: err}
	}
	if len(fields) == 1 {
		if len(b.stacks) != 0 {
			return Move{}, &ParseError{Input: s, Reason: "missing reference piece"}
		}
		return Move{Piece: piece, Dest: Origin}, nil
	}

	ref := fields[1]
	dir, relative := Direction(0), false
	if last := ref[len(ref)-1]; isGlyph(last) {
		d, ok := directionForGlyph(trailingGlyph, last)
		if !ok {
			return Move{}, &ParseError{Input: s, Reason: "bad direction glyph"}
		}
		dir, relative, ref = d, true, ref[:len(ref)-1]
	} else if first := ref[0]; isGlyph(first) {
		d, ok := directionForGlyph(leadingGlyph, first)
		if !ok {
			return Move{}, &ParseError{Input: s, Reason: "bad direction glyph"}
		}
		dir, relative, ref = d, true, ref[1:]
	}
	refPiece, err := ParsePieceName(ref)
	if err != nil {
		return Move{}, &ParseError{Input: s, Reason: "bad reference piece", Err: err}
	}
	refPos, ok := b.PiecePosition(refPiece)
	if !ok {
		return Move{}, &ParseError{Input: s, Reason: "reference piece " + refPiece.String() + " is not in play"}
	}

	dest := refPos.Ground()
	if relative {
		dest = dest.Neighbor(dir)
	}
	dest.Stack = b.destinationLevel(piece, dest)
	return Move{Piece: piece, Dest: dest}, nil
}

func (b *Board) parseAbsolute(s string, open int) (Move, error) {
	piece, err := ParsePieceName(s[:open])
	if err != nil {
		return Move{}, &ParseError{Input: s, Reason: "bad piece", Err: err}
	}
	body, ok := strings.CutSuffix(s[open+1:], "]")
	if !ok {
		return Move{}, &ParseError{Input: s, Reason: "missing ']'"}
	}
	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Move{}, &ParseError{Input: s, Reason: "expected 3 or 4 coordinates"}
	}
	var coords [4]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Move{}, &ParseError{Input: s, Reason: "bad coordinate", Err: err}
		}
		coords[i] = v
	}
	dest, err := NewPosition(coords[0], coords[1], coords[2], coords[3])
	if err != nil {
		return Move{}, &ParseError{Input: s, Reason: "bad coordinates", Err: err}
	}
	if len(parts) == 3 {
		dest.Stack = b.destinationLevel(piece, dest)
	}
	return Move{Piece: piece, Dest: dest}, nil
}

// destinationLevel is the stack level piece would occupy on cell.
func (b *Board) destinationLevel(piece PieceName, cell Position) int {
	h := b.height(cell.Ground())
	if b.top(cell.Ground()) == piece {
		h--
	}
	return h
}

func isGlyph(c byte) bool { return c == '/' || c == '-' || c == '\\' }

func directionForGlyph(glyphs map[Direction]byte, g byte) (Direction, bool) {
	for d, c := range glyphs {
		if c == g {
			return d, true
		}
	}
	return 0, false
}

// PlayString parses s against b and plays it.
func (b *Board) PlayString(s string) error {
	m, err := b.ParseMove(s)
	if err != nil {
		return err
	}
	if err := b.Play(m); err != nil {
		return fmt.Errorf("play %q: %w", s, err)
	}
	return nil
}
