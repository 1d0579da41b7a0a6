package hivemg

import (
	"fmt"
	"strings"
)

type Color int

const (
	White Color = iota
	Black

	NumColors = 2
)

func (c Color) Opponent() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

func (c Color) prefix() string {
	if c == White {
		return "w"
	}
	return "b"
}

type BugType int

const (
	QueenBee BugType = iota
	Spider
	Beetle
	Grasshopper
	SoldierAnt
	Mosquito
	Ladybug
	Pillbug

	NumBugTypes = 8
)

var bugNames = [NumBugTypes]string{"QueenBee", "Spider", "Beetle", "Grasshopper", "SoldierAnt", "Mosquito", "Ladybug", "Pillbug"}
var bugLetters = [NumBugTypes]byte{'Q', 'S', 'B', 'G', 'A', 'M', 'L', 'P'}

func (bt BugType) String() string {
	if bt < 0 || bt >= NumBugTypes {
		return fmt.Sprintf("BugType(%d)", int(bt))
	}
	return bugNames[bt]
}

func ParseBugType(s string) (BugType, error) {
	for bt := BugType(0); bt < NumBugTypes; bt++ {
		if strings.EqualFold(s, bugNames[bt]) {
			return bt, nil
		}
	}
	return 0, &ParseError{Input: s, Reason: "unknown bug type"}
}

// PieceName identifies one physical piece. White pieces come first, then
// black pieces in the same order.
type PieceName int

const (
	NoPiece PieceName = -1

	WhiteQueenBee PieceName = iota - 1
	WhiteSpider1
	WhiteSpider2
	WhiteBeetle1
	WhiteBeetle2
	WhiteGrasshopper1
	WhiteGrasshopper2
	WhiteGrasshopper3
	WhiteSoldierAnt1
	WhiteSoldierAnt2
	WhiteSoldierAnt3
	WhiteMosquito
	WhiteLadybug
	WhitePillbug
	BlackQueenBee
	BlackSpider1
	BlackSpider2
	BlackBeetle1
	BlackBeetle2
	BlackGrasshopper1
	BlackGrasshopper2
	BlackGrasshopper3
	BlackSoldierAnt1
	BlackSoldierAnt2
	BlackSoldierAnt3
	BlackMosquito
	BlackLadybug
	BlackPillbug

	NumPieceNames = 28
	piecesPerColor = NumPieceNames / NumColors
)

// Bug type and ordinal (0 for single pieces) of each slot within one color.
var pieceLayout = [piecesPerColor]struct {
	bug     BugType
	ordinal int
}{
	{QueenBee, 0},
	{Spider, 1}, {Spider, 2},
	{Beetle, 1}, {Beetle, 2},
	{Grasshopper, 1}, {Grasshopper, 2}, {Grasshopper, 3},
	{SoldierAnt, 1}, {SoldierAnt, 2}, {SoldierAnt, 3},
	{Mosquito, 0},
	{Ladybug, 0},
	{Pillbug, 0},
}

func (p PieceName) Valid() bool { return p >= 0 && p < NumPieceNames }

func (p PieceName) Color() Color {
	if p < piecesPerColor {
		return White
	}
	return Black
}

func (p PieceName) BugType() BugType { return pieceLayout[int(p)%piecesPerColor].bug }

// Ordinal is the number in the short name ("wS2" is 2), or 0 for unique pieces.
func (p PieceName) Ordinal() int { return pieceLayout[int(p)%piecesPerColor].ordinal }

func (p PieceName) String() string {
	if !p.Valid() {
		return "None"
	}
	s := p.Color().prefix() + string(bugLetters[p.BugType()])
	if o := p.Ordinal(); o > 0 {
		s += fmt.Sprint(o)
	}
	return s
}

// PieceOf builds a piece name from its parts. Ordinal is ignored for unique bugs.
func PieceOf(c Color, bt BugType, ordinal int) PieceName {
	for i, slot := range pieceLayout {
		if slot.bug != bt {
			continue
		}
		if slot.ordinal == 0 || slot.ordinal == ordinal {
			return PieceName(int(c)*piecesPerColor + i)
		}
	}
	return NoPiece
}

func QueenOf(c Color) PieceName { return PieceName(int(c) * piecesPerColor) }

var pieceByName = func() map[string]PieceName {
	m := make(map[string]PieceName, NumPieceNames)
	for p := PieceName(0); p < NumPieceNames; p++ {
		m[strings.ToLower(p.String())] = p
	}
	return m
}()

// ParsePieceName accepts short names such as "wQ", "bS2" or "wM", case-insensitively.
func ParsePieceName(s string) (PieceName, error) {
	if p, ok := pieceByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	return NoPiece, &ParseError{Input: s, Reason: "unknown piece"}
}

// GameType is the base game plus a set of expansion pieces.
type GameType uint8

const (
	ExpansionMosquito GameType = 1 << iota
	ExpansionLadybug
	ExpansionPillbug

	Base    GameType = 0
	BaseMLP          = ExpansionMosquito | ExpansionLadybug | ExpansionPillbug
)

// Includes reports whether bug type bt takes part in games of this type.
func (gt GameType) Includes(bt BugType) bool {
	switch bt {
	case Mosquito:
		return gt&ExpansionMosquito != 0
	case Ladybug:
		return gt&ExpansionLadybug != 0
	case Pillbug:
		return gt&ExpansionPillbug != 0
	}
	return true
}

func (gt GameType) String() string {
	if gt == Base {
		return "Base"
	}
	var sb strings.Builder
	sb.WriteString("Base+")
	if gt&ExpansionMosquito != 0 {
		sb.WriteByte('M')
	}
	if gt&ExpansionLadybug != 0 {
		sb.WriteByte('L')
	}
	if gt&ExpansionPillbug != 0 {
		sb.WriteByte('P')
	}
	return sb.String()
}

func ParseGameType(s string) (GameType, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "Base") {
		return Base, nil
	}
	rest, ok := strings.CutPrefix(s, "Base+")
	if !ok || rest == "" {
		return Base, &ParseError{Input: s, Reason: "unknown game type"}
	}
	var gt GameType
	for _, r := range strings.ToUpper(rest) {
		var flag GameType
		switch r {
		case 'M':
			flag = ExpansionMosquito
		case 'L':
			flag = ExpansionLadybug
		case 'P':
			flag = ExpansionPillbug
		default:
			return Base, &ParseError{Input: s, Reason: fmt.Sprintf("unknown expansion %q", r)}
		}
		if gt&flag != 0 {
			return Base, &ParseError{Input: s, Reason: fmt.Sprintf("duplicate expansion %q", r)}
		}
		gt |= flag
	}
	return gt, nil
}

// Pieces lists every piece of both colors that takes part in this game type.
func (gt GameType) Pieces() []PieceName {
	out := make([]PieceName, 0, NumPieceNames)
	for p := PieceName(0); p < NumPieceNames; p++ {
		if gt.Includes(p.BugType()) {
			out = append(out, p)
		}
	}
	return out
}
