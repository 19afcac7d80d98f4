package vfs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

type recordingPersister struct {
	saves []Snapshot
	err   error
}

func (p *recordingPersister) Save(snap Snapshot) error {
	p.saves = append(p.saves, snap)
	return p.err
}

type staticLoader struct {
	recordingPersister
	snap Snapshot
	ok   bool
}

func (l *staticLoader) Load() (Snapshot, bool) {
	return l.snap, l.ok
}

func newTestStore(t *testing.T) (*Store, *recordingPersister) {
	t.Helper()
	p := &recordingPersister{}
	return New(WithPersister(p), WithClock(fixedClock)), p
}

func TestDefaultLayout(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	root, err := store.List(sess, "/", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "tmp"}, root)

	home, err := store.List(sess, "~", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Desktop", "Documents", "Downloads"}, home)

	assert.True(t, store.IsDirectory(sess, "/"))
	assert.NoError(t, store.Validate())
}

func TestProjectsScenario(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	require.NoError(t, store.MakeDirectory(sess, "/home/user/Projects"))
	require.NoError(t, store.Touch(sess, "/home/user/Projects/a.txt"))

	names, err := store.List(sess, "/home/user/Projects", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names)

	err = store.Remove(sess, "/home/user/Projects", false)
	assert.ErrorIs(t, err, ErrIsADirectory)

	require.NoError(t, store.Remove(sess, "/home/user/Projects", true))

	names, err = store.List(sess, "/home/user", false)
	require.NoError(t, err)
	assert.NotContains(t, names, "Projects")
	assert.False(t, store.Exists(sess, "/home/user/Projects/a.txt"))
	assert.NoError(t, store.Validate())
}

func TestMakeDirectoryErrors(t *testing.T) {
	store, p := newTestStore(t)
	sess := NewSession(HomePath)

	err := store.MakeDirectory(sess, "Documents")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	err = store.MakeDirectory(sess, "missing/child")
	assert.ErrorIs(t, err, ErrNoSuchParent)

	require.NoError(t, store.WriteFile(sess, "file.txt", "x", false))
	err = store.MakeDirectory(sess, "file.txt/child")
	assert.ErrorIs(t, err, ErrNoSuchParent)

	err = store.MakeDirectory(sess, "/")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	assert.Len(t, p.saves, 1, "only the successful write persists")
}

func TestTouchIsIdempotent(t *testing.T) {
	store, p := newTestStore(t)
	sess := NewSession(HomePath)

	require.NoError(t, store.Touch(sess, "notes.txt"))
	require.NoError(t, store.WriteFile(sess, "notes.txt", "keep me", false))
	saves := len(p.saves)

	require.NoError(t, store.Touch(sess, "notes.txt"))

	content, err := store.ReadFile(sess, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep me", content)
	assert.Len(t, p.saves, saves, "touching an existing file does not persist")

	require.NoError(t, store.Touch(sess, "Documents"), "touching a directory is a no-op")
	assert.True(t, store.IsDirectory(sess, "Documents"))
}

func TestTouchRecordsCreationTime(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	require.NoError(t, store.Touch(sess, "a.txt"))

	info, err := store.Stat(sess, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, testNow, info.CreatedAt)
	assert.Equal(t, KindFile, info.Kind)
	assert.Equal(t, int64(0), info.Size)
}

func TestWriteFile(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession("/tmp")

	require.NoError(t, store.WriteFile(sess, "x.txt", "hi\n", false))
	require.NoError(t, store.WriteFile(sess, "x.txt", "bye\n", true))

	content, err := store.ReadFile(sess, "/tmp/x.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi\nbye\n", content)

	require.NoError(t, store.WriteFile(sess, "x.txt", "reset", false))
	content, err = store.ReadFile(sess, "x.txt")
	require.NoError(t, err)
	assert.Equal(t, "reset", content)

	err = store.WriteFile(sess, "/home", "nope", false)
	assert.ErrorIs(t, err, ErrIsADirectory)

	err = store.WriteFile(sess, "/nowhere/x.txt", "nope", false)
	assert.ErrorIs(t, err, ErrNoSuchParent)
	assert.False(t, store.Exists(sess, "/nowhere/x.txt"))
}

func TestReadFileErrors(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	_, err := store.ReadFile(sess, "missing.txt")
	assert.ErrorIs(t, err, ErrNoSuchEntry)

	_, err = store.ReadFile(sess, "Documents")
	assert.ErrorIs(t, err, ErrIsADirectory)

	require.NoError(t, store.Touch(sess, "empty.txt"))
	content, err := store.ReadFile(sess, "empty.txt")
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestListOrderAndHidden(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession("/tmp")

	for _, name := range []string{"c", ".hidden", "a", "b"} {
		require.NoError(t, store.Touch(sess, name))
	}

	names, err := store.List(sess, ".", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, names)

	names, err = store.List(sess, ".", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", ".hidden", "a", "b"}, names)

	names, err = store.List(sess, "a", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)

	_, err = store.List(sess, "zzz", false)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
}

func TestRemoveRecursiveLeavesNoResidue(t *testing.T) {
	store, p := newTestStore(t)
	sess := NewSession(HomePath)

	require.NoError(t, store.MakeDirectory(sess, "proj"))
	require.NoError(t, store.MakeDirectory(sess, "proj/src"))
	require.NoError(t, store.MakeDirectory(sess, "proj/src/deep"))
	require.NoError(t, store.WriteFile(sess, "proj/src/deep/main.go", "package main", false))
	require.NoError(t, store.WriteFile(sess, "proj/README", "readme", false))
	before := len(p.saves)

	require.NoError(t, store.Remove(sess, "proj", true))

	assert.Len(t, p.saves, before+1, "recursive remove persists once")
	for path := range store.Snapshot() {
		assert.False(t, strings.HasPrefix(path, "/home/user/proj"), "residual entry %s", path)
	}
	names, err := store.List(sess, "~", false)
	require.NoError(t, err)
	assert.NotContains(t, names, "proj")
	assert.NoError(t, store.Validate())
}

func TestRemoveErrors(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	assert.ErrorIs(t, store.Remove(sess, "missing", false), ErrNoSuchEntry)
	assert.ErrorIs(t, store.Remove(sess, "Desktop", false), ErrIsADirectory, "even empty directories need recursive")
	assert.ErrorIs(t, store.Remove(sess, "/", true), ErrBusy)
	assert.ErrorIs(t, store.Remove(sess, "/", false), ErrIsADirectory)
	assert.True(t, store.IsDirectory(sess, "/"))
}

func TestRemoveFile(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	require.NoError(t, store.Touch(sess, "a"))
	require.NoError(t, store.Touch(sess, "b"))
	require.NoError(t, store.Remove(sess, "a", false))

	names, err := store.List(sess, ".", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Desktop", "Documents", "Downloads", "b"}, names)
}

func TestCopy(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	require.NoError(t, store.WriteFile(sess, "a.txt", "alpha", false))
	require.NoError(t, store.Copy(sess, "a.txt", "Documents/b.txt"))

	content, err := store.ReadFile(sess, "Documents/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", content)
	assert.True(t, store.Exists(sess, "a.txt"))

	require.NoError(t, store.WriteFile(sess, "c.txt", "old", false))
	require.NoError(t, store.Copy(sess, "a.txt", "c.txt"))
	content, err = store.ReadFile(sess, "c.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", content)

	assert.ErrorIs(t, store.Copy(sess, "Documents", "docs2"), ErrIsADirectory)
	assert.ErrorIs(t, store.Copy(sess, "missing", "x"), ErrNoSuchEntry)
	assert.ErrorIs(t, store.Copy(sess, "a.txt", "Documents"), ErrIsADirectory)
}

func TestMoveMatchesCopyThenRemove(t *testing.T) {
	setup := func() (*Store, *Session) {
		store, _ := newTestStore(t)
		sess := NewSession(HomePath)
		require.NoError(t, store.WriteFile(sess, "a.txt", "payload", false))
		return store, sess
	}

	moved, sess := setup()
	require.NoError(t, moved.Move(sess, "a.txt", "Documents/a.txt"))

	composed, sess2 := setup()
	require.NoError(t, composed.Copy(sess2, "a.txt", "Documents/a.txt"))
	require.NoError(t, composed.Remove(sess2, "a.txt", false))

	if diff := cmp.Diff(composed.Snapshot(), moved.Snapshot(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("move differs from copy+remove (-want +got):\n%s", diff)
	}
}

func TestMoveFailureLeavesSource(t *testing.T) {
	store, p := newTestStore(t)
	sess := NewSession(HomePath)
	require.NoError(t, store.WriteFile(sess, "a.txt", "payload", false))
	before := store.Snapshot()
	saves := len(p.saves)

	err := store.Move(sess, "a.txt", "/missing/a.txt")
	assert.ErrorIs(t, err, ErrNoSuchParent)

	err = store.Move(sess, "Documents", "Docs")
	assert.ErrorIs(t, err, ErrIsADirectory)

	assert.Equal(t, before, store.Snapshot())
	assert.Len(t, p.saves, saves)
}

func TestMoveOntoItself(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)
	require.NoError(t, store.WriteFile(sess, "a.txt", "payload", false))

	require.NoError(t, store.Move(sess, "a.txt", "./a.txt"))

	content, err := store.ReadFile(sess, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", content)

	assert.ErrorIs(t, store.Move(sess, "nope", "nope"), ErrNoSuchEntry)
	assert.ErrorIs(t, store.Move(sess, "Documents", "/home/user/Documents"), ErrIsADirectory)
	assert.True(t, store.IsDirectory(sess, "Documents"))
}

func TestRemoveWorkingDirectoryIsBusy(t *testing.T) {
	store, p := newTestStore(t)
	sess := NewSession(HomePath)
	require.NoError(t, store.MakeDirectory(sess, "proj"))
	require.NoError(t, store.MakeDirectory(sess, "proj/src"))
	_, err := store.ChangeDirectory(sess, "proj/src")
	require.NoError(t, err)
	saves := len(p.saves)

	assert.ErrorIs(t, store.Remove(sess, ".", true), ErrBusy)
	assert.ErrorIs(t, store.Remove(sess, "..", true), ErrBusy)
	assert.ErrorIs(t, store.Remove(sess, "/home", true), ErrBusy)
	assert.True(t, store.IsDirectory(sess, "/home/user/proj/src"))
	assert.Len(t, p.saves, saves)

	// a sibling whose name shares the prefix is not an ancestor
	require.NoError(t, store.MakeDirectory(sess, "/home/user/pro"))
	require.NoError(t, store.Remove(sess, "/home/user/pro", true))

	other := NewSession(HomePath)
	require.NoError(t, store.Remove(other, "proj", true))
	assert.False(t, store.Exists(other, "proj"))
}

func TestChangeDirectoryScenario(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	dir, err := store.ChangeDirectory(sess, "..")
	require.NoError(t, err)
	assert.Equal(t, "/home", dir)
	assert.Equal(t, "/home", store.PrintWorkingDirectory(sess))

	_, err = store.ChangeDirectory(sess, "..")
	require.NoError(t, err)
	assert.Equal(t, "/", sess.Cwd)

	_, err = store.ChangeDirectory(sess, "..")
	require.NoError(t, err)
	assert.Equal(t, "/", sess.Cwd)
}

func TestChangeDirectoryErrors(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)
	require.NoError(t, store.Touch(sess, "file"))

	_, err := store.ChangeDirectory(sess, "missing")
	assert.ErrorIs(t, err, ErrNoSuchEntry)

	_, err = store.ChangeDirectory(sess, "file")
	assert.ErrorIs(t, err, ErrNotADirectory)

	assert.Equal(t, HomePath, sess.Cwd, "failed cd leaves the session alone")
}

func TestPersistFailureDoesNotRollBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := &recordingPersister{err: errors.New("disk full")}
	store := New(WithPersister(p), WithLogger(zap.New(core)))
	sess := NewSession(HomePath)

	require.NoError(t, store.MakeDirectory(sess, "kept"))

	assert.True(t, store.IsDirectory(sess, "kept"))
	assert.Len(t, p.saves, 1)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Snapshot persist failed", logs.All()[0].Message)
}

func TestOpenFallsBackToDefaultLayout(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		loader := &staticLoader{}
		store := Open(loader, WithClock(fixedClock))

		assert.Equal(t, DefaultSnapshot(testNow), store.Snapshot())
		assert.Empty(t, loader.saves, "loading does not write")
	})

	t.Run("invalid", func(t *testing.T) {
		loader := &staticLoader{ok: true, snap: Snapshot{"/orphan/x": {Kind: KindFile}}}
		store := Open(loader, WithClock(fixedClock))

		assert.Equal(t, DefaultSnapshot(testNow), store.Snapshot())
	})

	t.Run("nil loader", func(t *testing.T) {
		store := Open(nil, WithClock(fixedClock))
		assert.Equal(t, DefaultSnapshot(testNow), store.Snapshot())
	})
}

func TestOpenRestoresAndPersists(t *testing.T) {
	snap := DefaultSnapshot(testNow)
	snap["/tmp/x.txt"] = EntryRecord{Kind: KindFile, Content: "hi\n", CreatedAt: testNow}
	tmp := snap["/tmp"]
	tmp.Children = []string{"x.txt"}
	snap["/tmp"] = tmp

	loader := &staticLoader{ok: true, snap: snap}
	store := Open(loader)
	sess := NewSession("/tmp")

	content, err := store.ReadFile(sess, "x.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", content)

	require.NoError(t, store.Touch(sess, "y.txt"))
	require.Len(t, loader.saves, 1)
	assert.Contains(t, loader.saves[0], "/tmp/y.txt")
}

func TestWalkOrder(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession("/tmp")
	require.NoError(t, store.MakeDirectory(sess, "b"))
	require.NoError(t, store.Touch(sess, "b/z"))
	require.NoError(t, store.Touch(sess, "a"))

	var visited []string
	err := store.Walk(sess, ".", func(info Info) error {
		visited = append(visited, info.Path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp", "/tmp/b", "/tmp/b/z", "/tmp/a"}, visited)

	stop := errors.New("stop")
	count := 0
	err = store.Walk(sess, "/", func(Info) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}

func TestInvariantsHoldAcrossOperations(t *testing.T) {
	store, _ := newTestStore(t)
	sess := NewSession(HomePath)

	ops := []func() error{
		func() error { return store.MakeDirectory(sess, "w") },
		func() error { return store.MakeDirectory(sess, "w/x") },
		func() error { return store.Touch(sess, "w/x/1") },
		func() error { return store.WriteFile(sess, "w/2", "two", false) },
		func() error { return store.Copy(sess, "w/2", "w/x/3") },
		func() error { return store.Move(sess, "w/x/1", "/tmp/1") },
		func() error { return store.Remove(sess, "w/x", true) },
		func() error { return store.WriteFile(sess, "/tmp/1", "more", true) },
		func() error { return store.Remove(sess, "/tmp/1", false) },
	}

	for i, op := range ops {
		require.NoError(t, op(), "op %d", i)
		require.NoError(t, store.Validate(), "invariants after op %d", i)
	}

	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("f%d", i)
		require.NoError(t, store.Touch(sess, name))
	}
	names, err := store.List(sess, ".", false)
	require.NoError(t, err)
	assert.Equal(t, "f19", names[len(names)-1])
	assert.NoError(t, store.Validate())
}

func TestRestore(t *testing.T) {
	store, p := newTestStore(t)
	sess := NewSession(HomePath)
	require.NoError(t, store.MakeDirectory(sess, "scratch"))
	saves := len(p.saves)

	err := store.Restore(Snapshot{})
	assert.ErrorContains(t, err, "root missing")
	assert.True(t, store.Exists(sess, "scratch"))

	require.NoError(t, store.Restore(DefaultSnapshot(testNow)))
	assert.False(t, store.Exists(sess, "scratch"))
	assert.Len(t, p.saves, saves+1)
}
