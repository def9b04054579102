package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/models"
	"gorm.io/gorm"
)

type QueueStatusRepository struct {
	db *gorm.DB
}

func NewQueueStatusRepository(db *gorm.DB) *QueueStatusRepository {
	return &QueueStatusRepository{db: db}
}

// Create records a freshly enqueued job in status "queued".
func (r *QueueStatusRepository) Create(ctx context.Context, jobID string, userID uint) (*models.QueueStatusRecord, error) {
	rec := models.QueueStatusRecord{
		JobID:  jobID,
		UserID: userID,
		Status: string(config.QueueStatusQueued),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create queue status: %w", err)
	}
	return &rec, nil
}

// Advance moves a record forward in its lifecycle. Processing time is only
// written alongside the terminal "done" status. Advancing an unknown jobID
// is a warn-logged no-op, out-of-order or duplicate status events must not
// fail the worker.
func (r *QueueStatusRepository) Advance(ctx context.Context, jobID string, status config.QueueStatus, processingTime int) error {
	updates := map[string]any{"status": string(status)}
	if status == config.QueueStatusDone && processingTime > 0 {
		updates["processing_time"] = processingTime
	}

	res := r.db.WithContext(ctx).Model(&models.QueueStatusRecord{}).
		Where("job_id = ?", jobID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("advance queue status: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		logger.WithFields(map[string]interface{}{
			"jobId":  jobID,
			"status": status,
		}).Warn("No queue status record found for jobId")
	}

	return nil
}

// Find retrieves a status record by job id.
func (r *QueueStatusRepository) Find(ctx context.Context, jobID string) (*models.QueueStatusRecord, error) {
	var rec models.QueueStatusRecord
	if err := r.db.WithContext(ctx).First(&rec, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("queue status not found: %w", err)
		}
		return nil, fmt.Errorf("find queue status: %w", err)
	}
	return &rec, nil
}
