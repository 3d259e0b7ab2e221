package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/comptoir-pos/comptoir-pos/internal/jobs"
	"github.com/comptoir-pos/comptoir-pos/internal/stats"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const defaultWarmupDays = 2

// StatsWarmupJob pre-populates the report caches so the first dashboard
// hit of the morning does not pay the aggregation cost.
type StatsWarmupJob struct {
	Stats   *stats.Service
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewStatsWarmupJob wires dependencies for the warmup handler.
func NewStatsWarmupJob(statsSvc *stats.Service, pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *StatsWarmupJob {
	return &StatsWarmupJob{
		Stats:   statsSvc,
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes stats warmup tasks. Each trailing day is warmed both
// unscoped and per recently active cashier.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("stats warmup: handler not configured")
	}
	var payload StatsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Days <= 0 {
		payload.Days = defaultWarmupDays
	}

	tracker := j.metrics().Track(TaskStatsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("days", payload.Days))
	logger.Info("starting stats warmup")

	cashiers, err := j.fetchActiveCashiers(ctx, payload.Days)
	if err != nil {
		resultErr = err
		logger.Error("load active cashiers", slog.Any("error", err))
		return resultErr
	}

	now := j.now()
	warmed := 0
	for offset := 0; offset < payload.Days; offset++ {
		day := now.AddDate(0, 0, -offset).Format(stats.DateLayout)
		if err := j.warmDay(ctx, day, cashiers); err != nil {
			resultErr = err
			logger.Error("warm day", slog.String("day", day), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed stats warmup",
		slog.Int("days_warmed", warmed),
		slog.Int("cashiers", len(cashiers)),
		slog.Duration("duration", time.Since(now)))
	return resultErr
}

func (j *StatsWarmupJob) warmDay(ctx context.Context, day string, cashiers []string) error {
	if j.Stats == nil {
		return nil
	}
	dayCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	// The unscoped report first; it is the one every dashboard loads.
	inputs := append([]string{""}, cashiers...)
	for _, cashierID := range inputs {
		filter, err := stats.NormalizeFilter(stats.FilterInput{StartDate: day, CashierID: cashierID})
		if err != nil {
			return err
		}
		if _, err := j.Stats.ProductSummary(dayCtx, filter); err != nil {
			return err
		}
		if _, err := j.Stats.DetailedReport(dayCtx, filter); err != nil {
			return err
		}
	}
	return nil
}

func (j *StatsWarmupJob) fetchActiveCashiers(ctx context.Context, days int) ([]string, error) {
	if j.Pool == nil {
		return nil, errors.New("stats warmup: pool not configured")
	}
	rows, err := j.Pool.Query(ctx,
		`SELECT DISTINCT user_id FROM orders WHERE created_at >= NOW() - make_interval(days => $1) ORDER BY user_id`,
		days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cashiers := make([]string, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		cashiers = append(cashiers, strconv.FormatInt(id, 10))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cashiers, nil
}

func (j *StatsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStatsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskStatsWarmup))
}

func (j *StatsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *StatsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
