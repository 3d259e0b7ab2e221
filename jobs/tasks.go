// Package jobs hosts the background workers: cache warmup for the sales
// statistics and the queue plumbing around them.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatsWarmup pre-computes the sales report caches.
	TaskStatsWarmup = "stats:warmup"
	// CronStatsWarmupNightly runs the warmup shortly after midnight, once
	// the day's orders have settled.
	CronStatsWarmupNightly = "10 0 * * *"
)

// StatsWarmupPayload scopes a warmup run.
type StatsWarmupPayload struct {
	// Days is how many trailing days to warm, today included. Zero means
	// the default window.
	Days int `json:"days"`
}

// NewStatsWarmupTask constructs an Asynq task for the warmup handler.
func NewStatsWarmupTask(payload StatsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatsWarmup, data), nil
}
