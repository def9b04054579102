package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/models"
	"gorm.io/datatypes"
)

type JobQueueMock struct {
	mock.Mock
}

func (m *JobQueueMock) Enqueue(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobQueueMock) AcquireNext(ctx context.Context, queue string) (*models.Job, error) {
	args := m.Called(ctx, queue)

	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *JobQueueMock) RetryLater(ctx context.Context, id uint, availableAt time.Time) error {
	args := m.Called(ctx, id, availableAt)
	return args.Error(0)
}

func (m *JobQueueMock) MarkCompleted(ctx context.Context, id uint, result datatypes.JSON) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *JobQueueMock) MarkFailed(ctx context.Context, id uint, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *JobQueueMock) ListStuckJobs(ctx context.Context, staleDuration time.Duration) ([]models.Job, error) {
	args := m.Called(ctx, staleDuration)

	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *JobQueueMock) Release(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type QueueStatusMock struct {
	mock.Mock
}

func (m *QueueStatusMock) Create(ctx context.Context, jobID string, userID uint) (*models.QueueStatusRecord, error) {
	args := m.Called(ctx, jobID, userID)

	rec, _ := args.Get(0).(*models.QueueStatusRecord)
	return rec, args.Error(1)
}

func (m *QueueStatusMock) Advance(ctx context.Context, jobID string, status config.QueueStatus, processingTime int) error {
	args := m.Called(ctx, jobID, status, processingTime)
	return args.Error(0)
}

func (m *QueueStatusMock) Find(ctx context.Context, jobID string) (*models.QueueStatusRecord, error) {
	args := m.Called(ctx, jobID)

	rec, _ := args.Get(0).(*models.QueueStatusRecord)
	return rec, args.Error(1)
}
