package hivemg

import (
	"errors"
	"fmt"
)

var (
	// ErrGameOver is returned when a move is played on a finished game.
	ErrGameOver = errors.New("hivemg: game is over")
	// ErrNoMovesToUndo is returned by UndoLastMove on a board without history.
	ErrNoMovesToUndo = errors.New("hivemg: no moves to undo")
)

// InvalidMoveError reports a move that is not legal in the current position.
// Every rules violation uses this type; Reason tells them apart.
type InvalidMoveError struct {
	Move   Move
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %s: %s", e.Move, e.Reason)
}

// ParseError reports malformed input, as opposed to a legal-but-wrong move.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
