package entity

import (
	"time"

	"github.com/google/uuid"
)

type Subscriber struct {
	UserID       int64
	Username     string
	SubscribedAt time.Time
}

// UserPreference is created the first time a user talks to the bot.
type UserPreference struct {
	UserID      int64
	Language    string
	FirstSeenAt time.Time
	UpdatedAt   *time.Time
}

type OperationStatus string

const (
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
)

type OperationLog struct {
	Id         uuid.UUID
	JobID      string
	UserID     int64
	Feature    string
	Status     OperationStatus
	Inputs     int
	Outputs    int
	Options    []string
	Error      string
	Tool       string
	DurationMs int64
	CreatedAt  time.Time
}

// OperationCounts aggregates operation logs.
type OperationCounts struct {
	Total  int64
	Today  int64
	Failed int64
}

// FeatureCount is one row of the per-feature usage breakdown.
type FeatureCount struct {
	Feature string
	Count   int64
}
