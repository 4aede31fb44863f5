package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters. HTTP-level metrics come from the fiberprometheus
// middleware; these track what the agent and the sweep actually do.
var (
	tasksExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purpleos_tasks_expired_total",
		Help: "Tasks removed by the recurrence expiry sweep",
	})

	commandsExecutedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "purpleos_agent_commands_total",
		Help: "Agent protocol commands executed, by action and result",
	}, []string{"action", "result"})

	chatTurnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purpleos_chat_turns_total",
		Help: "Completed chat turns (user message plus model reply)",
	})

	syncMergesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purpleos_chat_sync_merges_total",
		Help: "Chat history reconciliation merges applied",
	})

	staleFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purpleos_chat_stale_fetches_total",
		Help: "Server fetches discarded because a newer fetch superseded them",
	})
)

// RecordTasksExpired counts swept tasks
func RecordTasksExpired(n int) {
	tasksExpiredTotal.Add(float64(n))
}

// RecordCommand counts one executed agent command
func RecordCommand(action, result string) {
	commandsExecutedTotal.WithLabelValues(action, result).Inc()
}

// RecordChatTurn counts one completed chat turn
func RecordChatTurn() {
	chatTurnsTotal.Inc()
}

// RecordSyncMerge counts one applied reconciliation merge
func RecordSyncMerge() {
	syncMergesTotal.Inc()
}

// RecordStaleFetch counts one discarded stale fetch
func RecordStaleFetch() {
	staleFetchesTotal.Inc()
}
