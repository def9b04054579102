package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/dto"
	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/models"
	"github.com/yudhap/cinematch/internal/recommend"
	"gorm.io/datatypes"
)

// JobQueue is the durable queue surface the worker drains.
type JobQueue interface {
	AcquireNext(ctx context.Context, queue string) (*models.Job, error)
	RetryLater(ctx context.Context, id uint, availableAt time.Time) error
	MarkCompleted(ctx context.Context, id uint, result datatypes.JSON) error
	MarkFailed(ctx context.Context, id uint, errMsg string) error
	ListStuckJobs(ctx context.Context, staleDuration time.Duration) ([]models.Job, error)
	Release(ctx context.Context, id uint) error
}

// StatusTracker mirrors lifecycle transitions into the queue status table.
type StatusTracker interface {
	Advance(ctx context.Context, jobID string, status config.QueueStatus, processingTime int) error
}

// Calculator runs one recommendation recalculation.
type Calculator interface {
	Calculate(ctx context.Context, userID uint) ([]recommend.MaterializedRecommendation, error)
}

type Worker struct {
	ID         int
	jobs       JobQueue
	statuses   StatusTracker
	calc       Calculator
	queues     []string
	jobTimeout time.Duration
	quit       chan struct{}
}

func NewWorker(id int, jobs JobQueue, statuses StatusTracker, calc Calculator, queues []string, jobTimeout time.Duration) *Worker {
	return &Worker{
		ID:         id,
		jobs:       jobs,
		statuses:   statuses,
		calc:       calc,
		queues:     queues,
		jobTimeout: jobTimeout,
		quit:       make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		currentDelay := 1 * time.Second
		maxDelay := 60 * time.Second

		for {
			if w.ProcessOne(ctx) {
				currentDelay = 1 * time.Second
			} else {
				currentDelay = min(currentDelay*2, maxDelay)
			}

			select {
			case <-time.After(currentDelay):
			case <-w.quit:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// ProcessOne claims and runs at most one job, reporting whether any queue
// had one to deliver.
func (w *Worker) ProcessOne(ctx context.Context) bool {
	job := w.pullJob(ctx)
	if job == nil {
		return false
	}
	w.process(ctx, job)
	return true
}

func (w *Worker) pullJob(ctx context.Context) *models.Job {
	for _, q := range w.queues {
		job, _ := w.jobs.AcquireNext(ctx, q)
		if job != nil {
			return job
		}
	}
	return nil
}

// process drives one claimed job through its lifecycle. The status record
// is advanced to processing before execution and only past it on success;
// a failed attempt goes back to the queue until attempts run out, after
// which the job is abandoned.
func (w *Worker) process(ctx context.Context, job *models.Job) {
	start := time.Now()

	if err := w.statuses.Advance(ctx, job.JobID, config.QueueStatusProcessing, 0); err != nil {
		logger.WithFields(map[string]interface{}{
			"jobId": job.JobID,
			"error": err.Error(),
		}).Error("worker: failed to advance status to processing")
	}

	logger.WithFields(map[string]interface{}{
		"jobId":   job.JobID,
		"attempt": job.Attempts,
		"worker":  w.ID,
	}).Info("Movie recommendation job: starting processing")

	result, err := w.execute(ctx, job)
	if err != nil {
		w.handleFailure(ctx, job, err)
		return
	}

	b, _ := json.Marshal(result)
	if err := w.jobs.MarkCompleted(ctx, job.ID, datatypes.JSON(b)); err != nil {
		logger.WithFields(map[string]interface{}{
			"jobId": job.JobID,
			"error": err.Error(),
		}).Error("worker: failed to mark job completed")
		return
	}

	elapsed := int(time.Since(start).Seconds())
	if err := w.statuses.Advance(ctx, job.JobID, config.QueueStatusDone, elapsed); err != nil {
		logger.WithFields(map[string]interface{}{
			"jobId": job.JobID,
			"error": err.Error(),
		}).Error("worker: failed to advance status to done")
	}

	logger.WithFields(map[string]interface{}{
		"jobId":          job.JobID,
		"processingTime": elapsed,
	}).Info("Movie recommendation job: completed successfully")
}

func (w *Worker) handleFailure(ctx context.Context, job *models.Job, jobErr error) {
	if job.Attempts >= job.MaxAttempts {
		if err := w.jobs.MarkFailed(ctx, job.ID, jobErr.Error()); err != nil {
			logger.WithFields(map[string]interface{}{
				"jobId": job.JobID,
				"error": err.Error(),
			}).Error("worker: failed to mark job failed")
		}
		if err := w.statuses.Advance(ctx, job.JobID, config.QueueStatusAbandoned, 0); err != nil {
			logger.WithFields(map[string]interface{}{
				"jobId": job.JobID,
				"error": err.Error(),
			}).Error("worker: failed to advance status to abandoned")
		}
		logger.WithFields(map[string]interface{}{
			"jobId":        job.JobID,
			"attempts":     job.Attempts,
			"failedReason": jobErr.Error(),
		}).Error("Movie recommendation job: abandoned after exhausting attempts")
		return
	}

	nextRun := time.Now().UTC().Add(backoffDelay(job))
	if err := w.jobs.RetryLater(ctx, job.ID, nextRun); err != nil {
		logger.WithFields(map[string]interface{}{
			"jobId": job.JobID,
			"error": err.Error(),
		}).Error("worker: failed to schedule retry")
		return
	}

	logger.WithFields(map[string]interface{}{
		"jobId":        job.JobID,
		"attempt":      job.Attempts,
		"nextRun":      nextRun,
		"failedReason": jobErr.Error(),
	}).Warn("Movie recommendation job: failed, scheduled for retry")
}

func (w *Worker) execute(ctx context.Context, job *models.Job) (any, error) {
	switch job.Type {
	case config.JobTypeMovieRecommendation:
		var payload dto.RecommendationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal recommendation payload: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()

		recs, err := w.calc.Calculate(runCtx, payload.UserID)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"userId":              payload.UserID,
			"recommendationCount": len(recs),
		}, nil
	default:
		return nil, fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// backoffDelay derives the redelivery delay for the attempt just failed:
// fixed backoff waits DelayMs every time, exponential doubles per attempt.
func backoffDelay(job *models.Job) time.Duration {
	delay := time.Duration(job.DelayMs) * time.Millisecond
	if job.Backoff == string(config.BackoffExponential) && job.Attempts > 1 {
		delay <<= uint(job.Attempts - 1)
	}
	return delay
}

func (w *Worker) Stop() { close(w.quit) }
