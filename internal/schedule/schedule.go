// Package schedule runs configured tool calls on cron schedules.
package schedule

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/lydakis/homemcp/internal/config"
	"github.com/lydakis/homemcp/internal/dispatch"
	"github.com/lydakis/homemcp/internal/response"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Dispatcher runs one tool call to completion.
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) response.Response
}

// Upcoming is the next run of one schedule.
type Upcoming struct {
	Name string    `json:"name"`
	Cron string    `json:"cron"`
	Tool string    `json:"tool"`
	Next time.Time `json:"next"`
}

// Scheduler fires tool calls while it runs. A schedule whose previous call
// is still running skips its turn.
type Scheduler struct {
	cron *cron.Cron
	jobs int

	// ctx is canceled when Run returns, killing in-flight automations.
	ctx    context.Context
	cancel context.CancelFunc
}

// New registers every schedule against d.
func New(d Dispatcher, schedules []config.ScheduleConfig) (*Scheduler, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, jobs: len(schedules), ctx: ctx, cancel: cancel}
	for i, sc := range schedules {
		name := scheduleName(i, sc)
		job := cron.FuncJob(func() {
			runJob(s.ctx, d, name, sc)
		})
		if _, err := c.AddJob(sc.Cron, job); err != nil {
			cancel()
			return nil, fmt.Errorf("schedule %s: %w", name, err)
		}
	}
	return s, nil
}

// Len returns the number of registered schedules.
func (s *Scheduler) Len() int { return s.jobs }

// Run fires jobs until ctx is canceled, then cancels running jobs and
// waits for them to return.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	log.Info().Int("schedules", s.jobs).Msg("scheduler started")

	<-ctx.Done()
	stopped := s.cron.Stop()
	s.cancel()
	<-stopped.Done()
	log.Info().Msg("scheduler stopped")
}

func runJob(ctx context.Context, d Dispatcher, name string, sc config.ScheduleConfig) {
	resp := d.Dispatch(ctx, dispatch.Request{
		Name:      sc.Tool,
		Arguments: maps.Clone(sc.Arguments),
	})

	evt := log.Info()
	if resp.IsError {
		evt = log.Warn()
	}
	evt.Str("schedule", name).
		Str("tool", sc.Tool).
		Bool("is_error", resp.IsError).
		Str("text", resp.String()).
		Msg("scheduled call finished")
}

// Next computes the next run after now for each schedule, soonest first.
func Next(schedules []config.ScheduleConfig, now time.Time) ([]Upcoming, error) {
	out := make([]Upcoming, 0, len(schedules))
	for i, sc := range schedules {
		sched, err := cron.ParseStandard(sc.Cron)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", scheduleName(i, sc), err)
		}
		out = append(out, Upcoming{
			Name: scheduleName(i, sc),
			Cron: sc.Cron,
			Tool: sc.Tool,
			Next: sched.Next(now),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Next.Before(out[j].Next) })
	return out, nil
}

func scheduleName(i int, sc config.ScheduleConfig) string {
	if sc.Name != "" {
		return sc.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

// cronLogger forwards cron's internal logging to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
