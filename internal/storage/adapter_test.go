package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webos/internal/vfs"
)

func TestAdapterLoadMissing(t *testing.T) {
	a := NewAdapter(NewMemory())

	snap, ok := a.Load()
	assert.False(t, ok)
	assert.Nil(t, snap)
	assert.Equal(t, DefaultKey, a.Key())
}

func TestAdapterLoadMalformed(t *testing.T) {
	kv := NewMemory()
	require.NoError(t, kv.Put(context.Background(), "tree", []byte(`{"broken`)))

	_, ok := NewAdapter(kv, WithKey("tree")).Load()
	assert.False(t, ok)
}

func TestAdapterRoundTrip(t *testing.T) {
	a := NewAdapter(NewMemory())
	snap := vfs.DefaultSnapshot(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, a.Save(snap))

	loaded, ok := a.Load()
	require.True(t, ok)
	if diff := cmp.Diff(snap, loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("loaded snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	kv, err := NewFile(dir)
	require.NoError(t, err)
	store := vfs.Open(NewAdapter(kv))
	sess := vfs.NewSession(vfs.HomePath)

	require.NoError(t, store.MakeDirectory(sess, "Projects"))
	require.NoError(t, store.WriteFile(sess, "/tmp/x.txt", "hi\n", false))
	require.NoError(t, kv.Close())

	kv, err = NewFile(dir)
	require.NoError(t, err)
	defer kv.Close()
	reopened := vfs.Open(NewAdapter(kv))

	assert.True(t, reopened.IsDirectory(sess, "Projects"))
	content, err := reopened.ReadFile(sess, "/tmp/x.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", content)
}

func TestStoreFallsBackOnCorruptTree(t *testing.T) {
	kv := NewMemory()
	require.NoError(t, kv.Put(context.Background(), DefaultKey, []byte(`{"/x":{"kind":"file"}}`)))

	store := vfs.Open(NewAdapter(kv))

	names, err := store.List(nil, "/", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "tmp"}, names)
}
