package credstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/campus/pkg/credstore"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newFileStore(t *testing.T) *credstore.FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "creds")
	fs, err := credstore.NewFileStore(path, testSecret)
	require.NoError(t, err)
	return fs
}

func TestNewFileStore_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := credstore.NewFileStore(filepath.Join(t.TempDir(), "creds"), []byte("short"))
	require.ErrorIs(t, err, credstore.ErrBadSecret)
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := newFileStore(t)

	want := credstore.Credentials{Username: "jdoe", Password: "hunter2"}
	require.NoError(t, fs.Save(ctx, want))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, fs.Clear(ctx))

	_, err = fs.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNotFound)

	// Clearing twice is not an error.
	require.NoError(t, fs.Clear(ctx))
}

func TestFileStore_Overwrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := newFileStore(t)

	require.NoError(t, fs.Save(ctx, credstore.Credentials{Username: "a", Password: "1"}))
	require.NoError(t, fs.Save(ctx, credstore.Credentials{Username: "b", Password: "2"}))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, credstore.Credentials{Username: "b", Password: "2"}, got)
}

func TestFileStore_IncompletePair(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := newFileStore(t)

	require.ErrorIs(t, fs.Save(ctx, credstore.Credentials{Username: "jdoe"}), credstore.ErrIncomplete)
	require.ErrorIs(t, fs.Save(ctx, credstore.Credentials{Password: "x"}), credstore.ErrIncomplete)

	_, err := fs.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestFileStore_ModeSurvivesClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := newFileStore(t)

	require.NoError(t, fs.Save(ctx, credstore.Credentials{Username: "jdoe", Password: "x"}))
	require.NoError(t, fs.SaveMode(ctx, "student"))
	require.NoError(t, fs.Clear(ctx))

	mode, err := fs.LoadMode(ctx)
	require.NoError(t, err)
	require.Equal(t, "student", mode)

	_, err = fs.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestFileStore_LoadMode_Empty(t *testing.T) {
	t.Parallel()

	fs := newFileStore(t)
	_, err := fs.LoadMode(context.Background())
	require.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestFileStore_EncryptedAtRest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "creds")
	fs, err := credstore.NewFileStore(path, testSecret)
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, credstore.Credentials{Username: "jdoe", Password: "hunter2"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "jdoe")
	require.NotContains(t, string(raw), "hunter2")
}

func TestFileStore_CorruptedFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "creds")
	fs, err := credstore.NewFileStore(path, testSecret)
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, credstore.Credentials{Username: "jdoe", Password: "x"}))
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err = fs.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrUnavailable)
	require.NotErrorIs(t, err, credstore.ErrNotFound)
}

func TestFileStore_WrongSecret(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "creds")
	fs, err := credstore.NewFileStore(path, testSecret)
	require.NoError(t, err)
	require.NoError(t, fs.Save(ctx, credstore.Credentials{Username: "jdoe", Password: "x"}))

	other, err := credstore.NewFileStore(path, []byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	_, err = other.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrUnavailable)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ms := credstore.NewMemoryStore()

	_, err := ms.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNotFound)

	want := credstore.Credentials{Username: "jdoe", Password: "hunter2"}
	require.NoError(t, ms.Save(ctx, want))

	got, err := ms.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, ms.Clear(ctx))
	require.NoError(t, ms.Clear(ctx))

	_, err = ms.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestMemoryStore_Mode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ms := credstore.NewMemoryStore()

	_, err := ms.LoadMode(ctx)
	require.ErrorIs(t, err, credstore.ErrNotFound)

	require.NoError(t, ms.SaveMode(ctx, "employee"))

	mode, err := ms.LoadMode(ctx)
	require.NoError(t, err)
	require.Equal(t, "employee", mode)
}

func TestMemoryStore_IncompletePair(t *testing.T) {
	t.Parallel()

	ms := credstore.NewMemoryStore()
	require.ErrorIs(t, ms.Save(context.Background(), credstore.Credentials{Username: "x"}), credstore.ErrIncomplete)
}
