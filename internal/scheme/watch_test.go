package scheme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestWatcherReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	reloaded := make(chan *Catalog, 4)
	w, err := NewWatcher(dir, zap.NewNop(), func(cat *Catalog, err error) {
		if err != nil {
			return
		}
		select {
		case reloaded <- cat:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "steno.toml"), []byte(steno), 0o644))

	select {
	case cat := <-reloaded:
		_, ok := cat.Get("steno")
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing a scheme file")
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(t.TempDir(), nil, nil)
	require.NoError(t, err)
	w.Stop()
}
