package game

import "errors"

// ErrorKind separates bad input from commands that make no sense in the
// game's current state. Neither kind is fatal; the game is unchanged.
type ErrorKind int

const (
	UnknownError ErrorKind = iota
	ValidationError
	StateError
)

func (k ErrorKind) String() string {
	switch k {
	case ValidationError:
		return "validation"
	case StateError:
		return "state"
	}
	return "unknown"
}

// Error is the error type every engine operation fails with.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: ValidationError, msg: msg}
}

func NewStateError(msg string) *Error {
	return &Error{Kind: StateError, msg: msg}
}

var (
	ErrEmptyWord       = NewValidationError("no word given")
	ErrWordTooShort    = NewValidationError("word is too short")
	ErrDuplicatePlayer = NewValidationError("player already joined")
	ErrNotAPlayer      = NewValidationError("not a player in this game")
	ErrNotYourTurn     = NewValidationError("not your turn")

	ErrNoPlayers     = NewStateError("no players have joined")
	ErrPoolExhausted = NewStateError("no letters left to draw")
	ErrNothingToUndo = NewStateError("nothing to undo")
	ErrGameOver      = NewStateError("the game is over")
)

// KindOf returns the kind of an engine error anywhere in err's chain, or
// UnknownError.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return UnknownError
}
