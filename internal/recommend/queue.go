package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/dto"
	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/models"
	"gorm.io/datatypes"
)

// QueueService enqueues recalculation jobs and mirrors them into the
// queue status table. Both favorite-created and favorite-deleted events
// call EnqueueRecalculation exactly once.
type QueueService struct {
	jobs     JobStore
	statuses StatusStore
}

func NewQueueService(jobs JobStore, statuses StatusStore) *QueueService {
	return &QueueService{jobs: jobs, statuses: statuses}
}

// defaultOptions is the retry policy every recommendation job ships with.
func defaultOptions() dto.EnqueueOptions {
	return dto.EnqueueOptions{
		Attempts: config.DefaultMaxAttempts,
		Backoff: dto.BackoffOptions{
			Type:    string(config.BackoffExponential),
			DelayMs: config.DefaultBackoffDelayMs,
		},
	}
}

// EnqueueRecalculation appends one movie-recommendation job for userID and
// returns its jobId. Duplicate enqueues for the same user are expected and
// harmless: the replace step makes redundant recalculation converge.
func (s *QueueService) EnqueueRecalculation(ctx context.Context, userID uint) (string, error) {
	payload, err := json.Marshal(dto.RecommendationPayload{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}

	opts := defaultOptions()
	job := models.Job{
		Queue:       config.RecommendationQueue,
		Type:        config.JobTypeMovieRecommendation,
		Payload:     datatypes.JSON(payload),
		MaxAttempts: opts.Attempts,
		Backoff:     opts.Backoff.Type,
		DelayMs:     opts.Backoff.DelayMs,
	}

	if err := s.jobs.Enqueue(ctx, &job); err != nil {
		return "", fmt.Errorf("add recommendation job: %w", err)
	}

	if _, err := s.statuses.Create(ctx, job.JobID, userID); err != nil {
		return "", fmt.Errorf("create queue record: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"jobId":  job.JobID,
		"userId": userID,
	}).Info("addQueue: recommendation job enqueued")

	return job.JobID, nil
}
