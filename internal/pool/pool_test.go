package pool

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yudhap/cinematch/internal/config"
	"github.com/yudhap/cinematch/internal/mocks"
	"github.com/yudhap/cinematch/internal/models"
)

func TestWorkerPool_RecoverStuck(t *testing.T) {
	jobs := new(mocks.JobQueueMock)
	lockDuration := time.Minute

	jobs.On("ListStuckJobs", mock.Anything, 2*lockDuration).Return([]models.Job{
		{ID: 1, JobID: "job-a", Status: string(config.JobStatusRunning)},
		{ID: 2, JobID: "job-b", Status: string(config.JobStatusRunning)},
	}, nil)
	jobs.On("Release", mock.Anything, uint(1)).Return(nil)
	jobs.On("Release", mock.Anything, uint(2)).Return(errors.New("connection refused"))

	p := NewWorkerPool(0, jobs, new(mocks.QueueStatusMock), new(mocks.CalculatorMock),
		[]string{config.RecommendationQueue}, lockDuration, time.Minute)
	defer p.Stop()

	p.recoverStuck()
	jobs.AssertExpectations(t)
}

func TestWorkerPool_RecoverStuck_ListFailure(t *testing.T) {
	jobs := new(mocks.JobQueueMock)
	jobs.On("ListStuckJobs", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	p := NewWorkerPool(0, jobs, new(mocks.QueueStatusMock), new(mocks.CalculatorMock),
		[]string{config.RecommendationQueue}, time.Minute, time.Minute)
	defer p.Stop()

	p.recoverStuck()
	jobs.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestWorkerPool_SpawnsRequestedWorkers(t *testing.T) {
	p := NewWorkerPool(3, new(mocks.JobQueueMock), new(mocks.QueueStatusMock), new(mocks.CalculatorMock),
		[]string{config.RecommendationQueue}, time.Minute, time.Minute)
	defer p.Stop()

	assert.Len(t, p.workers, 3)
}
