package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Enqueue appends a durable job. A uuid JobID is assigned when the caller
// did not provide one; AvailableAt defaults to now. Duplicate jobs for the
// same payload are legal, the pipeline tolerates redundant recalculation.
func (r *JobRepository) Enqueue(ctx context.Context, job *models.Job) error {
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = string(config.JobStatusPending)
	}
	if job.AvailableAt.IsZero() {
		job.AvailableAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

// Find retrieves a job by its external uuid identifier.
func (r *JobRepository) Find(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %w", err)
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return &job, nil
}

// AcquireNext claims the oldest deliverable job on the queue. The claim is
// an optimistic conditional update (status must still be pending), so
// concurrent workers never double-claim a row regardless of database
// locking support. Returns nil, nil when the queue is empty.
func (r *JobRepository) AcquireNext(ctx context.Context, queue string) (*models.Job, error) {
	now := time.Now().UTC()

	// A handful of candidates covers contention between workers without
	// scanning the whole queue.
	var candidates []models.Job
	err := r.db.WithContext(ctx).
		Where("queue = ? AND status = ? AND available_at <= ?",
			queue, string(config.JobStatusPending), now).
		Order("available_at asc").
		Limit(5).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("acquire next: %w", err)
	}

	for i := range candidates {
		res := r.db.WithContext(ctx).Model(&models.Job{}).
			Where("id = ? AND status = ?", candidates[i].ID, string(config.JobStatusPending)).
			Updates(map[string]any{
				"status":    string(config.JobStatusRunning),
				"attempts":  gorm.Expr("attempts + ?", 1),
				"locked_at": now,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("claim job %d: %w", candidates[i].ID, res.Error)
		}
		if res.RowsAffected == 1 {
			var claimed models.Job
			if err := r.db.WithContext(ctx).First(&claimed, candidates[i].ID).Error; err != nil {
				return nil, fmt.Errorf("reload claimed job: %w", err)
			}
			return &claimed, nil
		}
		// lost the race for this candidate, try the next one
	}

	return nil, nil
}

// RetryLater returns a failed job to the queue for redelivery after its
// backoff delay. Attempts stay as counted by AcquireNext.
func (r *JobRepository) RetryLater(ctx context.Context, id uint, availableAt time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       string(config.JobStatusPending),
			"available_at": availableAt,
			"locked_at":    nil,
		}).Error; err != nil {
		return fmt.Errorf("retry later: %w", err)
	}
	return nil
}

// MarkCompleted finalizes a successful job with its result document.
func (r *JobRepository) MarkCompleted(ctx context.Context, id uint, result datatypes.JSON) error {
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    string(config.JobStatusCompleted),
			"result":    result,
			"locked_at": nil,
		}).Error; err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// MarkFailed records a terminal failure once attempts are exhausted.
func (r *JobRepository) MarkFailed(ctx context.Context, id uint, errMsg string) error {
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    string(config.JobStatusFailed),
			"error":     errMsg,
			"locked_at": nil,
		}).Error; err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// ListStuckJobs finds running jobs whose lock is older than staleDuration,
// typically left behind by a crashed worker.
func (r *JobRepository) ListStuckJobs(ctx context.Context, staleDuration time.Duration) ([]models.Job, error) {
	cutoff := time.Now().UTC().Add(-staleDuration)
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Where("status = ? AND locked_at IS NOT NULL AND locked_at < ?",
			string(config.JobStatusRunning), cutoff).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list stuck jobs: %w", err)
	}
	return jobs, nil
}

// Release puts a stuck job back on the queue without counting an attempt
// against it beyond the one already recorded at claim time.
func (r *JobRepository) Release(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       string(config.JobStatusPending),
			"available_at": time.Now().UTC(),
			"locked_at":    nil,
		}).Error; err != nil {
		return fmt.Errorf("release job: %w", err)
	}
	return nil
}
