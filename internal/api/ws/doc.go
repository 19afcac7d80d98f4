// Package ws serves interactive terminal sessions over WebSocket.
//
// Each connection owns one terminal session, created on upgrade and killed when
// the socket closes. The query parameter cwd picks the starting directory.
//
// Message Types (Client → Server):
//   - command: Run the line in message (content is accepted when message is empty)
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - prompt: Session opened, carries session ID, prompt and cwd
//   - output: Command output with the new prompt and cwd
//   - clear: The client should clear its screen
//   - pong: Reply to ping
//   - error: Malformed or rejected message
//
// Example Usage:
//
//	handler := ws.NewHandler(terminals, metrics, logger)
//	router.GET("/terminal", handler.HandleConnection)
package ws
