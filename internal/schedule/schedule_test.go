package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lydakis/homemcp/internal/config"
	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatch.Request
	fired chan struct{}
}

func (r *recordingDispatcher) Dispatch(_ context.Context, req dispatch.Request) response.Response {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()
	select {
	case r.fired <- struct{}{}:
	default:
	}
	return response.Text("ok")
}

func TestSchedulerFiresConfiguredCall(t *testing.T) {
	d := &recordingDispatcher{fired: make(chan struct{}, 1)}
	args := map[string]any{"scene": "Good Night"}

	s, err := New(d, []config.ScheduleConfig{
		{Name: "night", Cron: "@every 1s", Tool: "run_scene", Arguments: args},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-d.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("schedule did not fire")
	}
	cancel()
	<-done

	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.calls)
	assert.Equal(t, "run_scene", d.calls[0].Name)
	assert.Equal(t, "Good Night", d.calls[0].Arguments["scene"])

	d.calls[0].Arguments["scene"] = "changed"
	assert.Equal(t, "Good Night", args["scene"], "job arguments must not alias the config")
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New(&recordingDispatcher{}, []config.ScheduleConfig{
		{Cron: "whenever", Tool: "lights_on"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule #1")
}

func TestNextOrdersBySoonest(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	upcoming, err := Next([]config.ScheduleConfig{
		{Name: "night", Cron: "30 22 * * *", Tool: "run_scene"},
		{Name: "lunch", Cron: "15 12 * * *", Tool: "lights_on"},
		{Cron: "0 7 * * *", Tool: "lights_on"},
	}, now)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)

	assert.Equal(t, "lunch", upcoming[0].Name)
	assert.Equal(t, time.Date(2026, 10, 16, 12, 15, 0, 0, time.UTC), upcoming[0].Next)
	assert.Equal(t, "night", upcoming[1].Name)
	assert.Equal(t, "#3", upcoming[2].Name)
	assert.Equal(t, time.Date(2026, 10, 17, 7, 0, 0, 0, time.UTC), upcoming[2].Next)
}

type blockingDispatcher struct {
	started  chan struct{}
	canceled chan struct{}
}

func (b *blockingDispatcher) Dispatch(ctx context.Context, _ dispatch.Request) response.Response {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	close(b.canceled)
	return response.Error("command canceled: " + ctx.Err().Error())
}

func TestRunCancelsInFlightCallsOnShutdown(t *testing.T) {
	d := &blockingDispatcher{started: make(chan struct{}, 1), canceled: make(chan struct{})}

	s, err := New(d, []config.ScheduleConfig{
		{Name: "slow", Cron: "@every 1s", Tool: "lock_doors"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-d.started:
	case <-time.After(5 * time.Second):
		t.Fatal("schedule did not fire")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	select {
	case <-d.canceled:
	default:
		t.Fatal("in-flight call was not canceled")
	}
}
