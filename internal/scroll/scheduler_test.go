package scroll

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_BurstRunsOnce(t *testing.T) {
	for _, policy := range []Policy{Coalesce, Debounce} {
		var runs atomic.Int32
		s := NewScheduler(40*time.Millisecond, policy, func() { runs.Add(1) })

		for i := 0; i < 50; i++ {
			s.Schedule()
		}
		assert.True(t, s.Pending())

		require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int32(1), runs.Load(), "policy %d", policy)
		assert.False(t, s.Pending())
	}
}

func TestScheduler_DebounceRestartsWindow(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(80*time.Millisecond, Debounce, func() { runs.Add(1) })

	s.Schedule()
	time.Sleep(50 * time.Millisecond)
	s.Schedule()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_Cancel(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(20*time.Millisecond, Debounce, func() { runs.Add(1) })

	s.Schedule()
	s.Cancel()
	assert.False(t, s.Pending())
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())

	// still usable after a cancel
	s.Schedule()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_CloseRefusesWork(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(20*time.Millisecond, Coalesce, func() { runs.Add(1) })

	s.Schedule()
	s.Close()
	s.Schedule()
	assert.False(t, s.Pending())
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestScheduler_EventsDuringRunTriggerOneFollowUp(t *testing.T) {
	var runs atomic.Int32
	var inFlight atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	s := NewScheduler(10*time.Millisecond, Coalesce, func() {
		if inFlight.Add(1) > 1 {
			t.Error("callback ran concurrently")
		}
		defer inFlight.Add(-1)
		if runs.Add(1) == 1 {
			close(started)
			<-release
		}
	})

	s.Schedule()
	<-started
	s.Schedule()
	s.Schedule()
	s.Schedule()
	assert.True(t, s.Pending())
	close(release)

	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())
}

func TestNewScheduler_DefaultWindows(t *testing.T) {
	assert.Equal(t, FrameInterval, NewScheduler(0, Coalesce, func() {}).Window())
	assert.Equal(t, DefaultDebounce, NewScheduler(-time.Second, Debounce, func() {}).Window())
	assert.Equal(t, time.Second, NewScheduler(time.Second, Debounce, func() {}).Window())
}
