package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"purpleos/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs the nightly maintenance jobs: the task expiry sweep and
// the daily stats rollover.
type Scheduler struct {
	scheduler gocron.Scheduler
	tasks     *services.TaskService
	stats     *services.StatsService
}

// NewScheduler creates the job scheduler. sweepHour is the UTC hour the
// nightly sweep fires at.
func NewScheduler(tasks *services.TaskService, stats *services.StatsService, sweepHour int) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{scheduler: scheduler, tasks: tasks, stats: stats}

	_, err = scheduler.NewJob(
		gocron.CronJob(fmt.Sprintf("0 %d * * *", sweepHour), false),
		gocron.NewTask(s.runSweep),
		gocron.WithName("task_expiry_sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register sweep job: %w", err)
	}

	// Rollover shortly after midnight so streak and hydration are fresh
	// even for users who have not opened the dashboard.
	_, err = scheduler.NewJob(
		gocron.CronJob("5 0 * * *", false),
		gocron.NewTask(s.runRollover),
		gocron.WithName("stats_daily_rollover"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register rollover job: %w", err)
	}

	return s, nil
}

// Start begins executing the registered jobs
func (s *Scheduler) Start() {
	s.scheduler.Start()
	log.Printf("🚀 [SCHEDULER] Started with %d jobs", len(s.scheduler.Jobs()))
}

// Stop shuts the scheduler down, waiting for running jobs
func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Printf("⚠️ [SCHEDULER] Shutdown error: %v", err)
		return
	}
	log.Println("✅ [SCHEDULER] Stopped")
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Println("▶️ [SCHEDULER] Running task expiry sweep")
	swept, err := s.tasks.SweepAllUsers(ctx)
	if err != nil {
		log.Printf("❌ [SCHEDULER] Expiry sweep failed: %v", err)
		return
	}
	log.Printf("✅ [SCHEDULER] Expiry sweep removed %d tasks", swept)
}

func (s *Scheduler) runRollover() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Println("▶️ [SCHEDULER] Running daily stats rollover")
	count, err := s.stats.RolloverAll(ctx)
	if err != nil {
		log.Printf("❌ [SCHEDULER] Stats rollover failed: %v", err)
		return
	}
	log.Printf("✅ [SCHEDULER] Stats rollover touched %d users", count)
}
