package terminal

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/shell"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

// ErrSessionNotFound is returned for unknown or killed session IDs
var ErrSessionNotFound = errors.New("session not found")

// Option configures a Manager
type Option func(*Manager)

// WithShellOptions are applied to every interpreter the manager creates
func WithShellOptions(opts ...shell.Option) Option {
	return func(m *Manager) {
		m.shellOpts = append(m.shellOpts, opts...)
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSessionGauge reports the number of live sessions after every change
func WithSessionGauge(set func(n int)) Option {
	return func(m *Manager) {
		m.gauge = set
	}
}

// Manager manages terminal sessions over a shared store
type Manager struct {
	store *vfs.Store
	// storeMu guards store and is shared with every other store user
	storeMu sync.Locker

	mu       sync.RWMutex
	sessions map[string]*Session

	shellOpts []shell.Option
	logger    *zap.Logger
	gauge     func(n int)
	now       func() time.Time
}

// NewManager creates a new session manager
func NewManager(store *vfs.Store, storeMu sync.Locker, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		storeMu:  storeMu,
		sessions: make(map[string]*Session),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSession starts a session in workingDir, which must be an existing directory.
// An empty workingDir starts at the home directory.
func (m *Manager) CreateSession(workingDir string) (*SessionInfo, error) {
	cwd := vfs.HomePath
	if workingDir != "" {
		cwd = vfs.Resolve(workingDir, vfs.HomePath)
	}

	m.storeMu.Lock()
	isDir := m.store.IsDirectory(nil, cwd)
	m.storeMu.Unlock()
	if !isDir {
		return nil, fmt.Errorf("invalid working directory %s: %s", cwd, vfs.NotADirectory.Message())
	}

	now := m.now()
	session := &Session{
		ID:         uuid.NewString(),
		StartedAt:  now,
		LastActive: now,
		sh:         shell.New(m.store, vfs.NewSession(cwd), m.shellOpts...),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	count := len(m.sessions)
	m.mu.Unlock()

	m.report(count)
	m.logger.Info("Terminal session created", zap.String("session", session.ID), zap.String("cwd", cwd))

	info := session.info()
	return &info, nil
}

func (m *Manager) get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// Execute runs one command line in a session
func (m *Manager) Execute(sessionID, line string) (*Output, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}

	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	out := session.sh.Execute(line)
	session.Commands++
	session.LastActive = m.now()

	return &Output{
		Output: out,
		Cwd:    session.sh.Session().Cwd,
		Prompt: session.sh.Prompt(),
	}, nil
}

// Kill terminates a session
func (m *Manager) Kill(sessionID string) error {
	m.mu.Lock()
	_, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	m.report(count)
	m.logger.Info("Terminal session closed", zap.String("session", sessionID))
	return nil
}

// ListSessions returns all active sessions, oldest first
func (m *Manager) ListSessions() []SessionInfo {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session.info())
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
	return sessions
}

// GetSession retrieves session info
func (m *Manager) GetSession(sessionID string) (*SessionInfo, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}

	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	info := session.info()
	return &info, nil
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) report(count int) {
	if m.gauge != nil {
		m.gauge(count)
	}
}
