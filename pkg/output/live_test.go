package output

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterRender(n *int32) RenderFunc {
	return func() ([]File, error) {
		v := atomic.AddInt32(n, 1)
		return []File{{Name: "report.txt", Data: []byte(fmt.Sprintf("render %d", v))}}, nil
	}
}

func TestLiveWriter_UrgentFlushesImmediately(t *testing.T) {
	target, err := OpenTarget(t.TempDir())
	require.NoError(t, err)

	var renders int32
	w := NewLiveWriter(target, counterRender(&renders), time.Hour)

	w.Notify(true)
	assert.Equal(t, 1, w.Flushes())

	data, err := os.ReadFile(target.Path("report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "render 1", string(data))
	require.NoError(t, w.Close())
}

func TestLiveWriter_DebouncesNonUrgent(t *testing.T) {
	target, err := OpenTarget(t.TempDir())
	require.NoError(t, err)

	var renders int32
	w := NewLiveWriter(target, counterRender(&renders), 20*time.Millisecond)

	for i := 0; i < 10; i++ {
		w.Notify(false)
	}
	assert.Equal(t, 0, w.Flushes())

	require.Eventually(t, func() bool { return w.Flushes() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&renders))
	require.NoError(t, w.Close())
}

func TestLiveWriter_CloseFlushesPending(t *testing.T) {
	target, err := OpenTarget(t.TempDir())
	require.NoError(t, err)

	var renders int32
	w := NewLiveWriter(target, counterRender(&renders), time.Hour)
	w.Notify(false)

	require.NoError(t, w.Close())
	assert.Equal(t, 1, w.Flushes())

	// Notifications after close are dropped.
	w.Notify(true)
	assert.Equal(t, 1, w.Flushes())
	assert.NoError(t, w.Close())
}

func TestLiveWriter_RenderError(t *testing.T) {
	target, err := OpenTarget(t.TempDir())
	require.NoError(t, err)

	boom := errors.New("boom")
	w := NewLiveWriter(target, func() ([]File, error) { return nil, boom }, 0)

	assert.ErrorIs(t, w.Flush(), boom)
	assert.ErrorIs(t, w.Err(), boom)
	assert.Equal(t, 0, w.Flushes())
}
