package pool

import (
	"context"
	"sync"
	"time"

	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/worker"
)

type WorkerPool struct {
	workers      []*worker.Worker
	jobs         worker.JobQueue
	lockDuration time.Duration
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

func NewWorkerPool(count int, jobs worker.JobQueue, statuses worker.StatusTracker, calc worker.Calculator, queues []string, lockDuration, jobTimeout time.Duration) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{jobs: jobs, lockDuration: lockDuration, ctx: ctx, cancel: cancel}

	for i := 1; i <= count; i++ {
		p.workers = append(p.workers, worker.NewWorker(i, jobs, statuses, calc, queues, jobTimeout))
	}
	return p
}

func (p *WorkerPool) Start() {
	for _, w := range p.workers {
		w.Start(p.ctx)
	}

	p.wg.Add(1)
	go p.janitor()
}

// janitor recovers jobs whose worker died mid-run: anything still locked
// past twice the lock duration goes back on the queue.
func (p *WorkerPool) janitor() {
	defer p.wg.Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.recoverStuck()
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *WorkerPool) recoverStuck() {
	stuck, err := p.jobs.ListStuckJobs(p.ctx, p.lockDuration*2)
	if err != nil {
		logger.WithField("error", err.Error()).Error("janitor: failed to list stuck jobs")
		return
	}
	for _, j := range stuck {
		logger.WithField("jobId", j.JobID).Warn("Recovering stuck job")
		if err := p.jobs.Release(p.ctx, j.ID); err != nil {
			logger.WithFields(map[string]interface{}{
				"jobId": j.JobID,
				"error": err.Error(),
			}).Error("janitor: failed to release stuck job")
		}
	}
}

func (p *WorkerPool) Stop() {
	p.cancel()
	for _, w := range p.workers {
		w.Stop()
	}
	p.wg.Wait()
}
