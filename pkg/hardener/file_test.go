package hardener

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hardenkit/internal/testutil"
	"github.com/joshuapare/hardenkit/pkg/types"
)

func openFile(t *testing.T, path string) *File {
	t.Helper()
	f, err := OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestOpenFileNotElectron(t *testing.T) {
	path := testutil.WriteTemp(t, "plain.bin", []byte("not an app"))

	_, err := OpenFile(path)
	require.ErrorIs(t, err, types.ErrNoSentinel)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveInPlace(t *testing.T) {
	orig := testutil.AppBinary()
	path := testutil.WriteTemp(t, "app", orig)
	f := openFile(t, path)

	_, err := f.App().Apply(DefaultProfile(), nil)
	require.NoError(t, err)

	// Nothing reaches disk before Save.
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, orig, onDisk)

	res, err := f.Save(context.Background(), &SaveOptions{Backup: true})
	require.NoError(t, err)
	require.True(t, res.InPlace)
	require.Equal(t, path, res.Path)
	require.Equal(t, path+".bak", res.Backup)
	require.NotEmpty(t, res.Ranges)
	require.Positive(t, res.BytesChanged)

	onDisk, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, f.App().Bytes(), onDisk)

	backup, err := os.ReadFile(res.Backup)
	require.NoError(t, err)
	require.Equal(t, orig, backup)

	require.False(t, f.App().Dirty(), "save clears tracked changes")
}

func TestSaveInPlaceReopen(t *testing.T) {
	path := testutil.WriteTemp(t, "app", testutil.AppBinary())

	f := openFile(t, path)
	_, err := f.App().SetFuseStatus(types.RunAsNode, false)
	require.NoError(t, err)
	require.NoError(t, f.App().PatchOption(types.RemoteDebuggingPort))
	_, err = f.Save(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	again := openFile(t, path)
	st, err := again.App().FuseStatus(types.RunAsNode)
	require.NoError(t, err)
	require.Equal(t, types.Present(false), st)
	require.ErrorIs(t, again.App().PatchOption(types.RemoteDebuggingPort), types.ErrElectronOptionNotPresent)
	require.NoError(t, again.App().PatchOption(types.RemoteDebuggingPipe))
}

func TestSaveNoChanges(t *testing.T) {
	path := testutil.WriteTemp(t, "app", testutil.AppBinary())
	f := openFile(t, path)

	res, err := f.Save(context.Background(), &SaveOptions{Backup: true})
	require.NoError(t, err)
	require.Empty(t, res.Ranges)
	require.Empty(t, res.Backup)

	_, err = os.Stat(path + ".bak")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveToOutput(t *testing.T) {
	orig := testutil.AppBinary()
	path := testutil.WriteTemp(t, "app", orig)
	out := filepath.Join(filepath.Dir(path), "app.hardened")
	f := openFile(t, path)

	_, err := f.App().SetFuseStatus(types.NodeOptions, false)
	require.NoError(t, err)

	res, err := f.Save(context.Background(), &SaveOptions{Output: out})
	require.NoError(t, err)
	require.False(t, res.InPlace)
	require.Equal(t, out, res.Path)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, f.App().Bytes(), written)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, orig, onDisk, "input is untouched")
}

func TestSaveDryRun(t *testing.T) {
	orig := testutil.AppBinary()
	path := testutil.WriteTemp(t, "app", orig)
	f := openFile(t, path)

	require.NoError(t, f.App().PatchOption(types.JsFlags))

	res, err := f.Save(context.Background(), &SaveOptions{DryRun: true, Backup: true})
	require.NoError(t, err)
	require.True(t, res.DryRun)
	require.Len(t, res.Ranges, 1)
	require.Equal(t, len("\x00js-flags\x00"), res.BytesChanged)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, orig, onDisk)
	require.True(t, f.App().Dirty())
}

func TestSaveCancelled(t *testing.T) {
	orig := testutil.AppBinary()
	path := testutil.WriteTemp(t, "app", orig)
	f := openFile(t, path)
	require.NoError(t, f.App().PatchOption(types.JsFlags))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Save(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)

	onDisk, _ := os.ReadFile(path)
	require.True(t, bytes.Equal(orig, onDisk))
}

func TestCloseTwice(t *testing.T) {
	path := testutil.WriteTemp(t, "app", testutil.AppBinary())
	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}
