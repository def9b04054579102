package config

type JobStatus string

type QueueStatus string

var (
	// RecommendationQueue is the single queue the worker pool drains.
	RecommendationQueue = "recommendations"

	// JobTypeMovieRecommendation identifies a "recalculate recommendations
	// for user U" unit of work.
	JobTypeMovieRecommendation = "movie-recommendation"

	// AllowedQueues is the set of queues the worker pool drains.
	AllowedQueues = []string{RecommendationQueue}

	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"

	// Lifecycle mirror kept in the queue_statuses table. Monotonic:
	// queued -> processing -> done, or -> abandoned on exhausted retries.
	QueueStatusQueued     QueueStatus = "queued"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusDone       QueueStatus = "done"
	QueueStatusAbandoned  QueueStatus = "abandoned"
)

type BackoffType string

const (
	BackoffFixed       BackoffType = "fixed"
	BackoffExponential BackoffType = "exponential"
)

const (
	// Enqueue defaults for recommendation jobs.
	DefaultMaxAttempts    = 3
	DefaultBackoffDelayMs = 2000
)
