package filesystem

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/shared/types"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

// Provider implements filesystem operations over the shared store
type Provider struct {
	store  *vfs.Store
	mu     sync.Locker
	logger *zap.Logger
}

// NewProvider creates a filesystem provider. mu must be the lock that guards store
// for every other caller.
func NewProvider(store *vfs.Store, mu sync.Locker, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{store: store, mu: mu, logger: logger}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "File and directory operations on the virtual filesystem",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read",
			"write",
			"create",
			"delete",
			"list",
			"stat",
			"move",
			"copy",
			"search",
		},
		Tools: tools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	handler, ok := p.handlers()[toolID]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return handler(session(params), params)
}

type handlerFunc func(sess *vfs.Session, params map[string]interface{}) (*types.Result, error)

func (p *Provider) handlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		"filesystem.list":   p.list,
		"filesystem.mkdir":  p.mkdir,
		"filesystem.read":   p.read,
		"filesystem.write":  p.write,
		"filesystem.touch":  p.touch,
		"filesystem.delete": p.delete,
		"filesystem.copy":   p.copy,
		"filesystem.move":   p.move,
		"filesystem.exists": p.exists,
		"filesystem.stat":   p.stat,
		"filesystem.find":   p.find,
	}
}

// session builds a throwaway session from the cwd override
func session(params map[string]interface{}) *vfs.Session {
	cwd, _ := params["cwd"].(string)
	if cwd == "" {
		return vfs.NewSession(vfs.HomePath)
	}
	return vfs.NewSession(vfs.Resolve(cwd, vfs.HomePath))
}

func pathParam(params map[string]interface{}, name string) (string, bool) {
	v, ok := params[name].(string)
	return v, ok && v != ""
}

func boolParam(params map[string]interface{}, name string) bool {
	v, _ := params[name].(bool)
	return v
}

func pathParameter(description string) types.Parameter {
	return types.Parameter{Name: "path", Type: "string", Description: description, Required: true}
}

var cwdParameter = types.Parameter{
	Name:        "cwd",
	Type:        "string",
	Description: "Directory relative paths resolve against. Defaults to ~",
	Required:    false,
}

func tools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.list",
			Name:        "List Directory",
			Description: "List contents of a directory in creation order",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path. Defaults to cwd", Required: false},
				{Name: "show_hidden", Type: "boolean", Description: "Include dot entries", Required: false},
				cwdParameter,
			},
			Returns: "array",
		},
		{
			ID:          "filesystem.mkdir",
			Name:        "Create Directory",
			Description: "Create a directory whose parent exists",
			Parameters:  []types.Parameter{pathParameter("Directory path"), cwdParameter},
			Returns:     "boolean",
		},
		{
			ID:          "filesystem.read",
			Name:        "Read File",
			Description: "Read file contents",
			Parameters:  []types.Parameter{pathParameter("File path"), cwdParameter},
			Returns:     "string",
		},
		{
			ID:          "filesystem.write",
			Name:        "Write File",
			Description: "Write data to a file, creating it when missing",
			Parameters: []types.Parameter{
				pathParameter("File path"),
				{Name: "data", Type: "string", Description: "Data to write", Required: true},
				{Name: "append", Type: "boolean", Description: "Append instead of overwrite", Required: false},
				cwdParameter,
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.touch",
			Name:        "Touch File",
			Description: "Create an empty file; existing entries are left alone",
			Parameters:  []types.Parameter{pathParameter("File path"), cwdParameter},
			Returns:     "boolean",
		},
		{
			ID:          "filesystem.delete",
			Name:        "Delete",
			Description: "Remove a file, or a directory when recursive is set",
			Parameters: []types.Parameter{
				pathParameter("Path to remove"),
				{Name: "recursive", Type: "boolean", Description: "Remove directories and their contents", Required: false},
				cwdParameter,
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.copy",
			Name:        "Copy File",
			Description: "Copy a file; directories are not supported",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source file", Required: true},
				{Name: "destination", Type: "string", Description: "Destination path", Required: true},
				cwdParameter,
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.move",
			Name:        "Move File",
			Description: "Move a file; directories are not supported",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source file", Required: true},
				{Name: "destination", Type: "string", Description: "Destination path", Required: true},
				cwdParameter,
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.exists",
			Name:        "Exists",
			Description: "Check whether a path exists and what kind it is",
			Parameters:  []types.Parameter{pathParameter("Path"), cwdParameter},
			Returns:     "object",
		},
		{
			ID:          "filesystem.stat",
			Name:        "File Info",
			Description: "Get file or directory metadata including MIME type",
			Parameters:  []types.Parameter{pathParameter("File or directory path"), cwdParameter},
			Returns:     "object",
		},
		{
			ID:          "filesystem.find",
			Name:        "Find",
			Description: "Find entries whose base name matches a glob",
			Parameters: []types.Parameter{
				{Name: "pattern", Type: "string", Description: "Glob such as *.txt", Required: true},
				{Name: "path", Type: "string", Description: "Subtree to search. Defaults to cwd", Required: false},
				{Name: "type", Type: "string", Description: "f for files, d for directories", Required: false},
				cwdParameter,
			},
			Returns: "array",
		},
	}
}
