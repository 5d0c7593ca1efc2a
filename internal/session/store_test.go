package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	stored  string
	saveErr error
	loadErr error
	deletes int
}

func (f *fakeBackend) Load(context.Context) (string, error) { return f.stored, f.loadErr }

func (f *fakeBackend) Save(_ context.Context, token string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored = token
	return nil
}

func (f *fakeBackend) Delete(context.Context) error {
	f.deletes++
	f.stored = ""
	return nil
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, zap.NewNop())

	assert.Empty(t, store.Token())
	assert.False(t, store.HasToken())

	require.NoError(t, store.Set(ctx, "first"))
	assert.Equal(t, "first", store.Token())

	require.NoError(t, store.Set(ctx, "second"))
	assert.Equal(t, "second", store.Token())

	require.NoError(t, store.Clear(ctx))
	assert.False(t, store.HasToken())
}

func TestStore_IsolatedInstances(t *testing.T) {
	ctx := context.Background()
	a := NewStore(nil, zap.NewNop())
	b := NewStore(nil, zap.NewNop())

	require.NoError(t, a.Set(ctx, "a-token"))
	assert.Empty(t, b.Token())
}

func TestStore_PersistsThroughBackend(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	store := NewStore(backend, zap.NewNop())

	require.NoError(t, store.Set(ctx, "tok"))
	assert.Equal(t, "tok", backend.stored)

	restored := NewStore(backend, zap.NewNop())
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, "tok", restored.Token())

	require.NoError(t, restored.Clear(ctx))
	assert.Equal(t, 1, backend.deletes)
	assert.Empty(t, backend.stored)
}

func TestStore_SetEmptyClears(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	store := NewStore(backend, zap.NewNop())

	require.NoError(t, store.Set(ctx, "tok"))
	require.NoError(t, store.Set(ctx, ""))
	assert.False(t, store.HasToken())
	assert.Equal(t, 1, backend.deletes)
}

func TestStore_BackendFailureKeepsMemoryValue(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&fakeBackend{saveErr: errors.New("disk full")}, zap.NewNop())

	err := store.Set(ctx, "tok")
	assert.Error(t, err)
	assert.Equal(t, "tok", store.Token())
}

func TestStore_RestoreError(t *testing.T) {
	store := NewStore(&fakeBackend{loadErr: errors.New("boom")}, zap.NewNop())
	assert.Error(t, store.Restore(context.Background()))
	assert.Empty(t, store.Token())
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "wellness")
	backend := NewFileBackend(dir)

	token, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, backend.Save(ctx, "file-token"))

	info, err := os.Stat(filepath.Join(dir, tokenFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "file-token", token)

	require.NoError(t, backend.Delete(ctx))
	require.NoError(t, backend.Delete(ctx))

	token, err = backend.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}
