// Package terminal provides interactive shell sessions over the virtual filesystem.
//
// Each session owns a working directory and a shell interpreter; all sessions share
// one filesystem tree. Commands run synchronously and return their rendered output
// together with the new prompt.
//
// Features:
//   - Multiple concurrent sessions with independent working directories
//   - Synchronous command execution with prompt and cwd in every reply
//   - Session listing and teardown
//
// Example Usage:
//
//	// Create a new terminal session
//	session := terminal.create_session(working_dir: "~/Documents")
//	// → Returns session_id
//
//	// Run a command
//	terminal.execute(session_id: "abc123", command: "ls -la")
//	// → Returns output, cwd and prompt
//
//	// Kill session
//	terminal.kill(session_id: "abc123")
//
// Tools:
//   - terminal.create_session: Create new shell session
//   - terminal.execute: Run one command line
//   - terminal.get_session: Session details
//   - terminal.list_sessions: List all active sessions
//   - terminal.kill: Terminate session
package terminal
