package hivemg

import (
	"fmt"
	"strconv"
	"strings"
)

// GameString serializes the board as
//
//	GameType;State;Color[turn];move1;move2;...
//
// e.g. "Base;InProgress;White[2];wS1;bS1 wS1/". Moves are written in
// relative notation against the position they were played in.
func (b *Board) GameString() string {
	parts := make([]string, 0, 3+len(b.history))
	parts = append(parts,
		b.gameType.String(),
		b.state.String(),
		fmt.Sprintf("%s[%d]", b.CurrentColor(), b.CurrentPlayerTurn()),
	)
	replay := NewBoard(b.gameType)
	for _, e := range b.history {
		parts = append(parts, replay.FormatMove(e.move))
		replay.applyMove(e.move)
	}
	return strings.Join(parts, ";")
}

// ParseGameString rebuilds a board by replaying the recorded moves. The
// header must agree with the replayed position.
func ParseGameString(s string) (*Board, error) {
	parts := strings.Split(strings.TrimSpace(s), ";")
	if len(parts) < 3 {
		return nil, &ParseError{Input: s, Reason: "expected GameType;State;Turn"}
	}
	gt, err := ParseGameType(parts[0])
	if err != nil {
		return nil, &ParseError{Input: s, Reason: "bad game type", Err: err}
	}
	state, err := ParseBoardState(parts[1])
	if err != nil {
		return nil, &ParseError{Input: s, Reason: "bad board state", Err: err}
	}
	color, turn, err := parseTurn(parts[2])
	if err != nil {
		return nil, &ParseError{Input: s, Reason: "bad turn", Err: err}
	}

	b := NewBoard(gt)
	for _, ms := range parts[3:] {
		m, err := b.ParseMove(ms)
		if err != nil {
			return nil, &ParseError{Input: s, Reason: "bad move " + strconv.Quote(ms), Err: err}
		}
		if err := b.Play(m); err != nil {
			return nil, &ParseError{Input: s, Reason: "illegal move " + strconv.Quote(ms), Err: err}
		}
	}
	if b.state != state {
		return nil, &ParseError{Input: s, Reason: fmt.Sprintf("state is %s after replay, header says %s", b.state, state)}
	}
	if b.CurrentColor() != color || b.CurrentPlayerTurn() != turn {
		return nil, &ParseError{Input: s, Reason: fmt.Sprintf("turn is %s[%d] after replay, header says %s[%d]",
			b.CurrentColor(), b.CurrentPlayerTurn(), color, turn)}
	}
	return b, nil
}

func parseTurn(s string) (Color, int, error) {
	name, rest, ok := strings.Cut(s, "[")
	if !ok || !strings.HasSuffix(rest, "]") {
		return White, 0, fmt.Errorf("turn %q is not of the form Color[n]", s)
	}
	var color Color
	switch {
	case strings.EqualFold(name, "White"):
		color = White
	case strings.EqualFold(name, "Black"):
		color = Black
	default:
		return White, 0, fmt.Errorf("unknown color %q", name)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(rest, "]"))
	if err != nil || n < 1 {
		return White, 0, fmt.Errorf("bad turn number in %q", s)
	}
	return color, n, nil
}
