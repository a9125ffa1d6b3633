package cli

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestWatchFile(t *testing.T) {
	path := writeTemp(t, "trades.csv", sampleCSV)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() { changes <- struct{}{} })
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(50 * time.Millisecond)

	// A burst of writes settles into a single reload.
	for i := 0; i < 3; i++ {
		assert.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	}

	select {
	case <-changes:
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	time.Sleep(3 * debounceDelay)
	assert.Equal(t, 0, len(changes))

	cancel()
	assert.IsError(t, <-done, context.Canceled)
}

func TestWatchFileIgnoresSiblings(t *testing.T) {
	path := writeTemp(t, "trades.csv", sampleCSV)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	changed := false
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path+".bak", []byte("x"), 0o644)
	}()

	err := watchFile(ctx, path, func() { changed = true })
	assert.IsError(t, err, context.DeadlineExceeded)
	assert.False(t, changed)
}
