package persistence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"project-planner-api/internal/domain"
)

type countingFlusher struct {
	calls atomic.Int32
	err   atomic.Value
}

func (f *countingFlusher) Flush(ctx context.Context) error {
	f.calls.Add(1)
	if v := f.err.Load(); v != nil {
		return v.(error)
	}
	return nil
}

type flushRecord struct {
	trigger string
	err     error
}

type mockRecorder struct {
	mu      sync.Mutex
	records []flushRecord
}

func (m *mockRecorder) RecordFlush(trigger string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, flushRecord{trigger: trigger, err: err})
}

func (m *mockRecorder) snapshot() []flushRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]flushRecord(nil), m.records...)
}

func TestScheduler_BurstProducesOneFlush(t *testing.T) {
	f := &countingFlusher{}
	s := NewScheduler(50*time.Millisecond, f.Flush, zap.NewNop(), nil)

	for i := 0; i < 20; i++ {
		s.Notify()
		time.Sleep(time.Millisecond)
	}
	assert.True(t, s.Pending())

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 1, f.calls.Load(), "burst must coalesce into exactly one flush")
	assert.False(t, s.Pending())
}

func TestScheduler_NotifyResetsTimer(t *testing.T) {
	f := &countingFlusher{}
	s := NewScheduler(80*time.Millisecond, f.Flush, zap.NewNop(), nil)

	s.Notify()
	time.Sleep(50 * time.Millisecond)
	s.Notify()
	time.Sleep(50 * time.Millisecond)
	// 100ms after the first notify, but only 50ms after the second
	assert.EqualValues(t, 0, f.calls.Load())

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_FlushNow(t *testing.T) {
	t.Run("flushes with nothing pending", func(t *testing.T) {
		f := &countingFlusher{}
		s := NewScheduler(time.Hour, f.Flush, zap.NewNop(), nil)

		require.NoError(t, s.FlushNow(context.Background()))
		assert.EqualValues(t, 1, f.calls.Load())
	})

	t.Run("cancels the pending timer", func(t *testing.T) {
		f := &countingFlusher{}
		rec := &mockRecorder{}
		s := NewScheduler(30*time.Millisecond, f.Flush, zap.NewNop(), rec)

		s.Notify()
		require.NoError(t, s.FlushNow(context.Background()))
		assert.False(t, s.Pending())

		time.Sleep(80 * time.Millisecond)
		assert.EqualValues(t, 1, f.calls.Load())
		assert.Equal(t, []flushRecord{{trigger: TriggerManual}}, rec.snapshot())
	})

	t.Run("returns persistence errors", func(t *testing.T) {
		f := &countingFlusher{}
		f.err.Store(errors.New("disk full"))
		s := NewScheduler(time.Hour, f.Flush, zap.NewNop(), nil)

		err := s.FlushNow(context.Background())
		var perr *domain.PersistenceError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "flush", perr.Op)
	})
}

func TestScheduler_DebouncedFailureIsLoggedAndRetried(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := &countingFlusher{}
	f.err.Store(errors.New("permission denied"))
	rec := &mockRecorder{}
	s := NewScheduler(20*time.Millisecond, f.Flush, zap.New(core), rec)

	s.Notify()
	require.Eventually(t, func() bool { return logs.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, logs.All()[0].Message, "Debounced flush failed")

	// the next mutation re-arms the flush
	f.err.Store(errors.New("still failing"))
	s.Notify()
	require.Eventually(t, func() bool { return f.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	records := rec.snapshot()
	require.Len(t, records, 2)
	assert.Equal(t, TriggerDebounce, records[0].trigger)
	assert.Error(t, records[0].err)
}

func TestScheduler_StopIgnoresNotify(t *testing.T) {
	f := &countingFlusher{}
	s := NewScheduler(10*time.Millisecond, f.Flush, zap.NewNop(), nil)

	s.Notify()
	s.Stop()
	s.Notify()
	time.Sleep(50 * time.Millisecond)

	assert.EqualValues(t, 0, f.calls.Load())
	assert.False(t, s.Pending())
}
