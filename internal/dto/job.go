package dto

// RecommendationPayload is the payload of every movie-recommendation job.
type RecommendationPayload struct {
	UserID uint `json:"userId" validate:"required,gt=0"`
}

// EnqueueOptions maps the queue-level retry policy. Attempts counts total
// deliveries, not redeliveries, so it must be at least 1.
type EnqueueOptions struct {
	Attempts int            `json:"attempts" validate:"gte=1,lte=20"`
	Backoff  BackoffOptions `json:"backoff"`
}

type BackoffOptions struct {
	Type    string `json:"type" validate:"oneof=fixed exponential"`
	DelayMs int    `json:"delayMs" validate:"gte=0"`
}

type QueueStatusResponse struct {
	JobID          string `json:"job_id"`
	UserID         uint   `json:"user_id"`
	Status         string `json:"status"`
	ProcessingTime int    `json:"processing_time"`
}
