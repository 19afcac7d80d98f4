// Package types provides shared data structures for the WebOS backend.
//
// Core Types:
//   - Service: Service provider definition
//   - Tool, Parameter: Service tool specification
//   - Context: Caller identity for tool execution
//   - Result: Standard operation result
//
// Request Types:
//   - ExecuteRequest: Service tool execution
//   - ShellRequest, ShellResponse: One-shot terminal commands
//   - WSMessage: WebSocket terminal protocol
//
// Example Usage:
//
//	result, err := registry.Execute(ctx, "filesystem.list", map[string]interface{}{
//	    "path": "~/Documents",
//	}, &types.Context{})
package types
