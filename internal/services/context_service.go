package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Context packet modes. Full recall sends the entire session transcript
// to the model; bounded keeps only the newest messages.
const (
	ContextModeFull    = "full"
	ContextModeBounded = "bounded"
)

// statsCacheTTL bounds how stale the cached stat block may be
const statsCacheTTL = 30 * time.Second

// ContextOptions tune how much of each source goes into the packet
type ContextOptions struct {
	Mode        string
	OpenTasks   int
	Workouts    int
	HistoryMsgs int
}

// ContextService assembles the grounding packet injected ahead of every
// model turn: clock, operator stats, open directives and recent training.
type ContextService struct {
	tasks    *TaskService
	training *TrainingService
	stats    *StatsService
	history  *ChatHistoryService
	redis    *RedisService
	opts     ContextOptions
}

// NewContextService creates a context assembler. redis may be nil.
func NewContextService(tasks *TaskService, training *TrainingService, stats *StatsService, history *ChatHistoryService, redis *RedisService, opts ContextOptions) *ContextService {
	if opts.Mode == "" {
		opts.Mode = ContextModeFull
	}
	return &ContextService{
		tasks:    tasks,
		training: training,
		stats:    stats,
		history:  history,
		redis:    redis,
		opts:     opts,
	}
}

// Build assembles the context text for one turn
func (s *ContextService) Build(ctx context.Context, userID string) string {
	var b strings.Builder

	now := time.Now()
	fmt.Fprintf(&b, "SYSTEM CLOCK: %s\n", now.Format("Monday, 2006-01-02 15:04"))
	fmt.Fprintf(&b, "TODAY'S DATE: %s\n\n", now.Format("2006-01-02"))

	b.WriteString(s.statsBlock(ctx, userID))
	b.WriteString(s.tasksBlock(ctx, userID))
	b.WriteString(s.trainingBlock(ctx, userID))

	return b.String()
}

// statsBlock renders the operator stat line, served from the Redis
// snapshot when fresh.
func (s *ContextService) statsBlock(ctx context.Context, userID string) string {
	cacheKey := "ctx:stats:" + userID
	if s.redis != nil {
		if cached := s.redis.Get(ctx, cacheKey); cached != "" {
			return cached
		}
	}

	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		log.Printf("⚠️ [CONTEXT] Failed to load stats for %s: %v", userID, err)
		return ""
	}

	block := fmt.Sprintf(
		"OPERATOR STATS: Level %d | XP %d | Streak %d days | Hydration %dml | Weight %.1fkg\n\n",
		stats.Level, stats.XP, stats.Streak, stats.HydrationCurrent, stats.CurrentWeight)

	if s.redis != nil {
		s.redis.Set(ctx, cacheKey, block, statsCacheTTL)
	}
	return block
}

func (s *ContextService) tasksBlock(ctx context.Context, userID string) string {
	tasks, err := s.tasks.OpenTasks(ctx, userID, s.opts.OpenTasks)
	if err != nil {
		log.Printf("⚠️ [CONTEXT] Failed to load open tasks for %s: %v", userID, err)
		return ""
	}
	if len(tasks) == 0 {
		return "ACTIVE DIRECTIVES: none\n\n"
	}

	var b strings.Builder
	b.WriteString("ACTIVE DIRECTIVES:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "- [%s] %s (due %s)\n", t.Category, t.Title, t.DueDate)
	}
	b.WriteString("\n")
	return b.String()
}

func (s *ContextService) trainingBlock(ctx context.Context, userID string) string {
	workouts, err := s.training.RecentWorkouts(ctx, userID, s.opts.Workouts)
	if err != nil {
		log.Printf("⚠️ [CONTEXT] Failed to load workouts for %s: %v", userID, err)
		return ""
	}
	if len(workouts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("RECENT TRAINING:\n")
	for _, w := range workouts {
		fmt.Fprintf(&b, "- %s: %s (%.0fkg volume)\n", w.Date.Format("2006-01-02"), w.SessionName, w.TotalVolume)
	}
	b.WriteString("\n")
	return b.String()
}

// HistoryLimit returns how many transcript messages the model should
// see: zero (everything) in full mode, the configured bound otherwise.
func (s *ContextService) HistoryLimit() int {
	if s.opts.Mode == ContextModeFull {
		return 0
	}
	return s.opts.HistoryMsgs
}

// InvalidateStats drops the cached stat block after a mutation
func (s *ContextService) InvalidateStats(ctx context.Context, userID string) {
	if s.redis != nil {
		s.redis.Delete(ctx, "ctx:stats:"+userID)
	}
}
