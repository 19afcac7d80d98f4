package terminal

import (
	"time"

	"github.com/GriffinCanCode/webos/internal/shell"
)

// Session represents an active terminal session
type Session struct {
	ID         string
	StartedAt  time.Time
	LastActive time.Time
	Commands   int

	sh *shell.Interpreter
}

func (s *Session) info() SessionInfo {
	return SessionInfo{
		ID:         s.ID,
		WorkingDir: s.sh.Session().Cwd,
		Prompt:     s.sh.Prompt(),
		StartedAt:  s.StartedAt,
		LastActive: s.LastActive,
		Commands:   s.Commands,
	}
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID         string    `json:"id"`
	WorkingDir string    `json:"working_dir"`
	Prompt     string    `json:"prompt"`
	StartedAt  time.Time `json:"started_at"`
	LastActive time.Time `json:"last_active"`
	Commands   int       `json:"commands"`
}

// Output is the result of one command line
type Output struct {
	Output string `json:"output"`
	Cwd    string `json:"cwd"`
	Prompt string `json:"prompt"`
}
