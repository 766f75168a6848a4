package journal

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := NewTestJournal()
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestReady(t *testing.T) {
	j := newTestJournal(t)
	assert.NoError(t, j.Ready(context.Background()))
}

func TestRecordAndCount(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.RecordMessage(ctx, "alice", "symptom", "success"))
	require.NoError(t, j.RecordMessage(ctx, "bob", "fallback", "success"))
	require.NoError(t, j.RecordAppointment(ctx, "alice", KindAppointmentCreated, "HC12345"))
	require.NoError(t, j.RecordAppointment(ctx, "alice", KindAppointmentRescheduled, "HC12345"))
	require.NoError(t, j.RecordAppointment(ctx, "bob", KindAppointmentCancelled, "HC54321"))

	count, err := j.CountKind(ctx, KindMessage)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = j.CountKind(ctx, KindAppointmentCreated)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetStats(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.RecordMessage(ctx, "alice", "booking", "success"))
	require.NoError(t, j.RecordAppointment(ctx, "alice", KindAppointmentCreated, "HC10001"))
	require.NoError(t, j.RecordAppointment(ctx, "alice", KindAppointmentCreated, "HC10002"))
	require.NoError(t, j.RecordAppointment(ctx, "alice", KindAppointmentCancelled, "HC10001"))

	stats, err := j.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Events)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 0, stats.Rescheduled)
}

func TestGetStatsConcurrent(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.RecordMessage(ctx, "alice", "booking", "success"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := j.GetStats(ctx)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, stats.Events, 1)
		}()
	}
	wg.Wait()
}
