package terminal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webos/internal/shared/types"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, *vfs.Store) {
	t.Helper()
	store := vfs.New()
	return NewManager(store, &sync.Mutex{}, opts...), store
}

func TestCreateSessionDefaultsToHome(t *testing.T) {
	m, _ := newTestManager(t)

	info, err := m.CreateSession("")
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, vfs.HomePath, info.WorkingDir)
	assert.Equal(t, "user@webos:~$ ", info.Prompt)
	assert.Equal(t, 1, m.Count())
}

func TestCreateSessionValidatesWorkingDir(t *testing.T) {
	m, store := newTestManager(t)
	require.NoError(t, store.Touch(nil, "note.txt"))

	info, err := m.CreateSession("~/Documents")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/Documents", info.WorkingDir)

	_, err = m.CreateSession("/nowhere")
	assert.Error(t, err)
	_, err = m.CreateSession("~/note.txt")
	assert.Error(t, err)
	assert.Equal(t, 1, m.Count())
}

func TestSessionsKeepSeparateWorkingDirectories(t *testing.T) {
	m, _ := newTestManager(t)

	a, err := m.CreateSession("")
	require.NoError(t, err)
	b, err := m.CreateSession("/tmp")
	require.NoError(t, err)

	out, err := m.Execute(a.ID, "cd Desktop")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/Desktop", out.Cwd)
	assert.Equal(t, "user@webos:~/Desktop$ ", out.Prompt)

	out, err = m.Execute(b.ID, "pwd")
	require.NoError(t, err)
	assert.Equal(t, "/tmp", out.Output)
	assert.Equal(t, "/tmp", out.Cwd)
}

func TestSessionsShareTheTree(t *testing.T) {
	m, store := newTestManager(t)

	a, _ := m.CreateSession("")
	b, _ := m.CreateSession("")

	_, err := m.Execute(a.ID, "echo hello > greeting.txt")
	require.NoError(t, err)

	out, err := m.Execute(b.ID, "cat greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.Output)
	assert.True(t, store.IsFile(nil, "~/greeting.txt"))
}

func TestExecuteTracksActivity(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := start
	m, _ := newTestManager(t)
	m.now = func() time.Time { return now }

	info, err := m.CreateSession("")
	require.NoError(t, err)

	now = start.Add(time.Minute)
	_, err = m.Execute(info.ID, "ls")
	require.NoError(t, err)
	_, err = m.Execute(info.ID, "bogus")
	require.NoError(t, err)

	got, err := m.GetSession(info.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Commands)
	assert.Equal(t, start, got.StartedAt)
	assert.Equal(t, start.Add(time.Minute), got.LastActive)
}

func TestKill(t *testing.T) {
	var gauge []int
	m, _ := newTestManager(t, WithSessionGauge(func(n int) { gauge = append(gauge, n) }))

	info, err := m.CreateSession("")
	require.NoError(t, err)
	require.NoError(t, m.Kill(info.ID))

	assert.ErrorIs(t, m.Kill(info.ID), ErrSessionNotFound)
	_, err = m.Execute(info.ID, "ls")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.GetSession(info.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, []int{1, 0}, gauge)
	assert.Zero(t, m.Count())
}

func TestListSessionsOrdered(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := start
	m, _ := newTestManager(t)
	m.now = func() time.Time { return now }

	first, _ := m.CreateSession("")
	now = now.Add(time.Second)
	second, _ := m.CreateSession("/tmp")

	sessions := m.ListSessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)
	assert.Equal(t, "/tmp", sessions[1].WorkingDir)
}

func TestProviderTools(t *testing.T) {
	m, _ := newTestManager(t)
	p := NewProvider(m)
	ctx := context.Background()

	def := p.Definition()
	assert.Equal(t, "terminal", def.ID)
	assert.Len(t, def.Tools, 5)

	created, err := p.Execute(ctx, "terminal.create_session", map[string]interface{}{"working_dir": "/tmp"}, &types.Context{})
	require.NoError(t, err)
	require.True(t, created.Success)
	id := created.Data["id"].(string)

	ran, err := p.Execute(ctx, "terminal.execute", map[string]interface{}{"session_id": id, "command": "mkdir build"}, nil)
	require.NoError(t, err)
	require.True(t, ran.Success)
	assert.Equal(t, "/tmp", ran.Data["cwd"])

	listed, err := p.Execute(ctx, "terminal.list_sessions", map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Data["count"])

	killed, err := p.Execute(ctx, "terminal.kill", map[string]interface{}{"session_id": id}, nil)
	require.NoError(t, err)
	assert.True(t, killed.Success)

	missing, err := p.Execute(ctx, "terminal.get_session", map[string]interface{}{"session_id": id}, nil)
	require.NoError(t, err)
	assert.False(t, missing.Success)
	require.NotNil(t, missing.Error)
	assert.Contains(t, *missing.Error, "session not found")

	noCommand, err := p.Execute(ctx, "terminal.execute", map[string]interface{}{"session_id": id}, nil)
	require.NoError(t, err)
	assert.False(t, noCommand.Success)

	_, err = p.Execute(ctx, "terminal.resize", nil, nil)
	assert.Error(t, err)
}
