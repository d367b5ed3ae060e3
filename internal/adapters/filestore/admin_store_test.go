package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStore_MissingFileIsEmpty(t *testing.T) {
	nopLogger := zerolog.Nop()
	store := NewAdminStore(filepath.Join(t.TempDir(), "admins.json"), &nopLogger)

	ids, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAdminStore_RoundTrip(t *testing.T) {
	// 1. Setup
	nopLogger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "data", "admins.json")
	store := NewAdminStore(path, &nopLogger)
	ctx := context.Background()

	// 2. Save creates the directory
	require.NoError(t, store.Save(ctx, []int64{5499281840, 42}))

	// 3. Load returns the same order
	ids, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{5499281840, 42}, ids)

	// 4. File layout
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"admin_ids":[5499281840,42]}`, string(raw))
}

func TestAdminStore_ReadsExistingFile(t *testing.T) {
	nopLogger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "admins.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"admin_ids": [3, 1, 2]}`), 0o644))

	ids, err := NewAdminStore(path, &nopLogger).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestAdminStore_CorruptFile(t *testing.T) {
	nopLogger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "admins.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := NewAdminStore(path, &nopLogger).Load(context.Background())

	assert.Error(t, err)
}
