package terminal

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/webos/internal/shared/types"
)

// Provider implements terminal operations
type Provider struct {
	manager *Manager
}

// NewProvider creates a new terminal provider
func NewProvider(manager *Manager) *Provider {
	return &Provider{manager: manager}
}

// Manager returns the underlying session manager
func (p *Provider) Manager() *Manager {
	return p.manager
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "Shell sessions over the virtual filesystem",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"shell",
			"interactive",
			"sessions",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.create_session":
		return p.createSession(params)
	case "terminal.execute":
		return p.execute(params)
	case "terminal.list_sessions":
		return p.listSessions()
	case "terminal.get_session":
		return p.getSession(params)
	case "terminal.kill":
		return p.kill(params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

var sessionIDParameter = types.Parameter{
	Name:        "session_id",
	Type:        "string",
	Description: "Terminal session ID",
	Required:    true,
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.create_session",
			Name:        "Create Terminal Session",
			Description: "Create a new shell session",
			Parameters: []types.Parameter{
				{
					Name:        "working_dir",
					Type:        "string",
					Description: "Initial working directory. Defaults to ~",
					Required:    false,
				},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.execute",
			Name:        "Execute Command",
			Description: "Run one command line and return its output",
			Parameters: []types.Parameter{
				sessionIDParameter,
				{
					Name:        "command",
					Type:        "string",
					Description: "Command line to run",
					Required:    true,
				},
			},
			Returns: "output",
		},
		{
			ID:          "terminal.list_sessions",
			Name:        "List Terminal Sessions",
			Description: "List all active terminal sessions",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.get_session",
			Name:        "Get Session Info",
			Description: "Get information about a terminal session",
			Parameters:  []types.Parameter{sessionIDParameter},
			Returns:     "session_info",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Terminal Session",
			Description: "Terminate a terminal session",
			Parameters:  []types.Parameter{sessionIDParameter},
			Returns:     "success",
		},
	}
}

func failure(msg string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &msg}, nil
}

func sessionData(info *SessionInfo) map[string]interface{} {
	return map[string]interface{}{
		"id":          info.ID,
		"working_dir": info.WorkingDir,
		"prompt":      info.Prompt,
		"started_at":  info.StartedAt,
		"last_active": info.LastActive,
		"commands":    info.Commands,
	}
}

func (p *Provider) createSession(params map[string]interface{}) (*types.Result, error) {
	workingDir, _ := params["working_dir"].(string)

	info, err := p.manager.CreateSession(workingDir)
	if err != nil {
		return failure(err.Error())
	}
	return &types.Result{Success: true, Data: sessionData(info)}, nil
}

func (p *Provider) execute(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return failure("session_id is required")
	}
	command, ok := params["command"].(string)
	if !ok {
		return failure("command is required")
	}

	out, err := p.manager.Execute(sessionID, command)
	if err != nil {
		return failure(err.Error())
	}
	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"output": out.Output,
			"cwd":    out.Cwd,
			"prompt": out.Prompt,
		},
	}, nil
}

func (p *Provider) listSessions() (*types.Result, error) {
	sessions := p.manager.ListSessions()

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"sessions": sessions,
			"count":    len(sessions),
		},
	}, nil
}

func (p *Provider) getSession(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return failure("session_id is required")
	}

	info, err := p.manager.GetSession(sessionID)
	if err != nil {
		return failure(err.Error())
	}
	return &types.Result{Success: true, Data: sessionData(info)}, nil
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return failure("session_id is required")
	}

	if err := p.manager.Kill(sessionID); err != nil {
		return failure(err.Error())
	}
	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"killed": sessionID},
	}, nil
}
