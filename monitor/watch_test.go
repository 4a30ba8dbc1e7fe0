package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWatch_RunsImmediatelyAndOnSchedule verifies the first run happens at
// startup and the next one on the schedule
func TestWatch_RunsImmediatelyAndOnSchedule(t *testing.T) {
	f := newFixture(newMemStore(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := make(chan *RunResult, 10)
	done := make(chan error, 1)
	go func() {
		done <- f.monitor.Watch(ctx, "@every 1s", func(r *RunResult) { results <- r })
	}()

	first := <-results
	assert.Equal(t, []string{itemA}, first.Notified)

	second := <-results
	assert.Empty(t, second.Notified, "scheduled run should find nothing new")

	cancel()
	require.NoError(t, <-done)
}

// TestWatch_InvalidSchedule verifies a bad schedule fails before any run
func TestWatch_InvalidSchedule(t *testing.T) {
	f := newFixture(newMemStore(), 1)

	err := f.monitor.Watch(context.Background(), "every now and then", nil)

	require.Error(t, err)
	assert.Empty(t, f.notifier.notified, "nothing should run with a bad schedule")
}
