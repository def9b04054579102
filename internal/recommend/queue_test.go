package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/mocks"
	"github.com/yudhap/cinematch/internal/models"
)

func TestQueueService_EnqueueRecalculation(t *testing.T) {
	jobs := new(mocks.JobQueueMock)
	statuses := new(mocks.QueueStatusMock)

	jobs.On("Enqueue", mock.Anything, mock.MatchedBy(func(job *models.Job) bool {
		var payload map[string]uint
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return false
		}
		return job.Queue == config.RecommendationQueue &&
			job.Type == config.JobTypeMovieRecommendation &&
			job.MaxAttempts == config.DefaultMaxAttempts &&
			job.Backoff == string(config.BackoffExponential) &&
			job.DelayMs == config.DefaultBackoffDelayMs &&
			payload["userId"] == 42
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Job).JobID = "job-abc"
	}).Return(nil)

	statuses.On("Create", mock.Anything, "job-abc", uint(42)).
		Return(&models.QueueStatusRecord{JobID: "job-abc", UserID: 42, Status: string(config.QueueStatusQueued)}, nil)

	svc := NewQueueService(jobs, statuses)
	jobID, err := svc.EnqueueRecalculation(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "job-abc", jobID)

	jobs.AssertExpectations(t)
	statuses.AssertExpectations(t)
}

func TestQueueService_EnqueueRecalculation_EnqueueFailure(t *testing.T) {
	jobs := new(mocks.JobQueueMock)
	statuses := new(mocks.QueueStatusMock)

	jobs.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := NewQueueService(jobs, statuses)
	_, err := svc.EnqueueRecalculation(context.Background(), 42)
	require.Error(t, err)
	statuses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestQueueService_EnqueueRecalculation_StatusFailure(t *testing.T) {
	jobs := new(mocks.JobQueueMock)
	statuses := new(mocks.QueueStatusMock)

	jobs.On("Enqueue", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Job).JobID = "job-abc"
	}).Return(nil)
	statuses.On("Create", mock.Anything, "job-abc", uint(42)).
		Return(nil, errors.New("connection refused"))

	svc := NewQueueService(jobs, statuses)
	_, err := svc.EnqueueRecalculation(context.Background(), 42)
	assert.Error(t, err)
}
