package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-ou-se/mstd/pkg/contract"
)

func waitForAtLeast(t *testing.T, counter *int64, expected int64, timeout time.Duration) {
	t.Helper()

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(counter) >= expected
	}, timeout, 10*time.Millisecond, "counter never reached %d", expected)
}

func stop(t *testing.T, s *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestNew(t *testing.T) {
	s := New(context.Background(), Config{})

	assert.NotNil(t, s.cron)
	assert.NotNil(t, s.logger)
	assert.True(t, s.Running())
	stop(t, s)
	assert.False(t, s.Running())
}

func TestAddRunsRound(t *testing.T) {
	s := New(context.Background(), Config{})
	defer stop(t, s)

	var runs int64
	_, err := s.Add("@every 100ms", func(ctx context.Context) error {
		atomic.AddInt64(&runs, 1)
		return nil
	}, Options{Name: "count"})
	require.NoError(t, err)

	s.Start()
	waitForAtLeast(t, &runs, 2, 2*time.Second)
}

func TestAddInvalidSchedule(t *testing.T) {
	s := New(context.Background(), Config{})
	defer stop(t, s)

	_, err := s.Add("not a schedule", func(context.Context) error { return nil }, Options{})
	assert.ErrorContains(t, err, "not a schedule")
}

func TestScheduleFormats(t *testing.T) {
	s := New(context.Background(), Config{})
	defer stop(t, s)

	for _, spec := range []string{
		"*/5 * * * *",
		"0 */5 * * * *",
		"@every 30s",
		"@hourly",
	} {
		_, err := s.Add(spec, func(context.Context) error { return nil }, Options{Name: spec})
		assert.NoError(t, err, spec)
	}

	_, err := s.Add("* * * *", func(context.Context) error { return nil }, Options{})
	assert.Error(t, err, "four fields are not a schedule")
}

func TestRoundErrorsAndPanicsKeepScheduling(t *testing.T) {
	var mu sync.Mutex
	var errs []error
	s := New(context.Background(), Config{Hooks: Hooks{
		OnFinish: func(_ string, _ time.Duration, err error) {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		},
	}})
	defer stop(t, s)

	var runs int64
	_, err := s.Add("@every 100ms", func(context.Context) error {
		switch atomic.AddInt64(&runs, 1) {
		case 1:
			return errors.New("boom")
		case 2:
			contract.Panic(contract.ErrOverRelease, "twice")
		}
		return nil
	}, Options{Name: "flaky"})
	require.NoError(t, err)

	s.Start()
	waitForAtLeast(t, &runs, 3, 3*time.Second)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) >= 3
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.EqualError(t, errs[0], "boom")
	assert.ErrorIs(t, errs[1], contract.ErrOverRelease, "a violation panic must stay matchable")
	assert.NoError(t, errs[2])
}

func TestTimeoutReachesRound(t *testing.T) {
	s := New(context.Background(), Config{})
	defer stop(t, s)

	var expired int64
	_, err := s.Add("@every 100ms", func(ctx context.Context) error {
		<-ctx.Done()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			atomic.AddInt64(&expired, 1)
		}
		return ctx.Err()
	}, Options{Name: "slow", Timeout: 50 * time.Millisecond, OverlapPolicy: Skip})
	require.NoError(t, err)

	s.Start()
	waitForAtLeast(t, &expired, 1, 2*time.Second)
}

func TestSkipPolicy(t *testing.T) {
	s := New(context.Background(), Config{})
	defer stop(t, s)

	var running, maxRunning, runs int64
	_, err := s.Add("@every 100ms", func(ctx context.Context) error {
		n := atomic.AddInt64(&running, 1)
		defer atomic.AddInt64(&running, -1)
		for {
			m := atomic.LoadInt64(&maxRunning)
			if n <= m || atomic.CompareAndSwapInt64(&maxRunning, m, n) {
				break
			}
		}
		atomic.AddInt64(&runs, 1)
		select {
		case <-time.After(350 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	}, Options{Name: "long", OverlapPolicy: Skip})
	require.NoError(t, err)

	s.Start()
	waitForAtLeast(t, &runs, 2, 3*time.Second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&maxRunning))
}

func TestRemove(t *testing.T) {
	s := New(context.Background(), Config{})
	defer stop(t, s)

	var runs int64
	id, err := s.Add("@every 100ms", func(context.Context) error {
		atomic.AddInt64(&runs, 1)
		return nil
	}, Options{})
	require.NoError(t, err)

	s.Start()
	waitForAtLeast(t, &runs, 1, 2*time.Second)
	s.Remove(id)

	time.Sleep(150 * time.Millisecond)
	baseline := atomic.LoadInt64(&runs)
	assert.Never(t, func() bool {
		return atomic.LoadInt64(&runs) > baseline
	}, 300*time.Millisecond, 10*time.Millisecond)
}

func TestParentCancellationStops(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := New(parent, Config{})
	s.Start()

	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-s.done:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, s.Running())
}

func TestStopTwiceAndStartTwice(t *testing.T) {
	s := New(context.Background(), Config{})
	s.Start()
	s.Start()
	stop(t, s)
	stop(t, s)
}

func TestStopDeadline(t *testing.T) {
	s := New(context.Background(), Config{})

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	_, err := s.Add("@every 100ms", func(context.Context) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	}, Options{OverlapPolicy: Skip})
	require.NoError(t, err)
	s.Start()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Stop(ctx), context.DeadlineExceeded)

	close(release)
	stop(t, s)
}

func TestHooks(t *testing.T) {
	var started, finished int64
	var lastName atomic.Value
	s := New(context.Background(), Config{Hooks: Hooks{
		OnStart: func(name string) {
			lastName.Store(name)
			atomic.AddInt64(&started, 1)
		},
		OnFinish: func(string, time.Duration, error) { atomic.AddInt64(&finished, 1) },
	}})
	defer stop(t, s)

	_, err := s.Add("@every 100ms", func(context.Context) error { return nil }, Options{Name: "hooked"})
	require.NoError(t, err)
	s.Start()

	waitForAtLeast(t, &finished, 1, 2*time.Second)
	assert.GreaterOrEqual(t, atomic.LoadInt64(&started), int64(1))
	assert.Equal(t, "hooked", lastName.Load())
}

func TestOverlapPolicyString(t *testing.T) {
	assert.Equal(t, "overlap", Overlap.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "queue", Queue.String())
}
