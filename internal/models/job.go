package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is one durable unit of work. JobID is the externally visible
// identifier (uuid) recorded in the queue_statuses table; ID is the
// storage primary key used for claiming.
type Job struct {
	ID          uint           `gorm:"primaryKey"`
	JobID       string         `gorm:"type:varchar(64);uniqueIndex;not null"`
	Queue       string         `gorm:"type:varchar(255);not null"`
	Type        string         `gorm:"type:varchar(255);not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	Status      string         `gorm:"type:varchar(50);not null;default:'pending'"`
	Attempts    int            `gorm:"default:0;not null"`
	MaxAttempts int            `gorm:"default:3"`
	Backoff     string         `gorm:"type:varchar(20);default:'exponential'"`
	DelayMs     int            `gorm:"default:2000"`
	AvailableAt time.Time
	LockedAt    *time.Time
	Result      datatypes.JSON `gorm:"type:jsonb"`
	Error       string         `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

// QueueStatusRecord mirrors a job's lifecycle for observability. Rows are
// never deleted; they form the historical record of every enqueue.
type QueueStatusRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	JobID          string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"job_id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	Status         string    `gorm:"type:varchar(20);not null;default:'queued';index" json:"status"`
	ProcessingTime int       `gorm:"default:0" json:"processing_time"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
