package shell

import "errors"

var (
	// ErrMissingOperand is rendered when a command needs an argument it did not get
	ErrMissingOperand = errors.New("missing operand")
	// ErrUnknownCommand is rendered for verbs outside the dispatch table
	ErrUnknownCommand = errors.New("command not found")
	// ErrNoEditor is returned by editor commands when no Editor is attached
	ErrNoEditor = errors.New("no editor attached")
)
