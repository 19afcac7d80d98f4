package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/webos/internal/providers/terminal"
	"github.com/GriffinCanCode/webos/internal/shared/types"
	"github.com/GriffinCanCode/webos/internal/shared/utils"
)

// CreateShellRequest opens a session, optionally in a given directory
type CreateShellRequest struct {
	WorkingDir string `json:"working_dir"`
}

func sessionParam(c *gin.Context) (string, bool) {
	sessionID := c.Param("session")
	if err := utils.ValidateID(sessionID, "session"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return sessionID, true
}

func sessionError(c *gin.Context, err error) {
	if errors.Is(err, terminal.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// CreateShell starts a terminal session
func (h *Handlers) CreateShell(c *gin.Context) {
	var req CreateShellRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	info, err := h.Terminals.CreateSession(req.WorkingDir)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, info)
}

// ListShells lists live terminal sessions
func (h *Handlers) ListShells(c *gin.Context) {
	sessions := h.Terminals.ListSessions()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetShell returns one session
func (h *Handlers) GetShell(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	info, err := h.Terminals.GetSession(sessionID)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ExecShell runs one command line in a session
func (h *Handlers) ExecShell(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	var req types.ShellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateCommand(req.Command); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.Terminals.Execute(sessionID, req.Command)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ShellResponse{
		Output: out.Output,
		Cwd:    out.Cwd,
		Prompt: out.Prompt,
	})
}

// DeleteShell kills a session
func (h *Handlers) DeleteShell(c *gin.Context) {
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	if err := h.Terminals.Kill(sessionID); err != nil {
		sessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
