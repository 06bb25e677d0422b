// Package scheduler runs soak rounds on cron schedules.
//
// It wraps github.com/robfig/cron/v3 with what the soak runner needs: a
// context per run that carries a timeout and ends on shutdown, an overlap
// policy per entry, panic recovery, hooks for metrics and slog output.
//
//	s := scheduler.New(ctx, scheduler.Config{Logger: log})
//	_, err := s.Add("@every 30s", runner.Run, scheduler.Options{
//		Name:          "soak",
//		Timeout:       20 * time.Second,
//		OverlapPolicy: scheduler.Skip,
//	})
//	s.Start()
//	defer s.Stop(shutdownCtx)
package scheduler
