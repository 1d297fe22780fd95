package docs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherSeesExternalChanges(t *testing.T) {
	s := newTestStore(t)
	w, err := NewWatcher(s)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()

	assert.Equal(t, int64(0), w.Generation())

	mustCreate(t, s, "seen.md", "hello")
	require.Eventually(t, func() bool {
		return w.Generation() > 0
	}, 2*time.Second, 10*time.Millisecond, "a created document should bump the generation")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
