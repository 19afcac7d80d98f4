package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
	AppID  *string                `json:"app_id,omitempty"`
}

// ShellRequest carries one command line for a terminal session
type ShellRequest struct {
	Command string `json:"command"`
}

// ShellResponse is the rendered result of a command line
type ShellResponse struct {
	Output string `json:"output"`
	Cwd    string `json:"cwd"`
	Prompt string `json:"prompt"`
}

// WSMessage represents a WebSocket message in either direction
type WSMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Content string `json:"content,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
	Cwd     string `json:"cwd,omitempty"`
	Session string `json:"session,omitempty"`
}
