package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_RequiresPaths(t *testing.T) {
	_, err := New(nil, func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestWatcher_RunsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "templates.html")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("<template id=a></template>"), 0644))

	var runs atomic.Int32
	triggered := make(chan struct{}, 8)
	w, err := New([]string{target}, func(context.Context) error {
		runs.Add(1)
		triggered <- struct{}{}
		return nil
	}, WithDebounce(20*time.Millisecond), WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not become ready")
	}

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(target, []byte("<template id=b></template>"), 0644))

	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("run function was not invoked")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}

func TestWatcher_RunErrorsDoNotStopWatching(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "templates.html")
	require.NoError(t, os.WriteFile(target, nil, 0644))

	triggered := make(chan struct{}, 8)
	w, err := New([]string{target}, func(context.Context) error {
		triggered <- struct{}{}
		return assert.AnError
	}, WithDebounce(10*time.Millisecond), WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	<-w.Ready()

	for i := 0; i < 2; i++ {
		require.NoError(t, os.WriteFile(target, []byte{byte('a' + i)}, 0644))
		select {
		case <-triggered:
		case <-time.After(5 * time.Second):
			t.Fatalf("run %d was not invoked", i+1)
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
