package dto

import (
	"time"

	"pdf-toolbox-bot/pkg/session"
)

// --- Operations ---

// Job is one finalized request travelling from the bot handler to the
// conversion worker.
type Job struct {
	ID          string                   `json:"id"`
	ChatID      int64                    `json:"chat_id"`
	Language    string                   `json:"language"`
	Request     session.OperationRequest `json:"request"`
	SubmittedAt time.Time                `json:"submitted_at"`
}

// --- Admin ---

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type FeatureUsage struct {
	Feature string `json:"feature"`
	Count   int64  `json:"count"`
}

type StatsSummary struct {
	Users          int64          `json:"users"`
	Subscribers    int64          `json:"subscribers"`
	OperationsDay  int64          `json:"operations_today"`
	OperationsAll  int64          `json:"operations_total"`
	Failed         int64          `json:"failed"`
	ActiveSessions int            `json:"active_sessions"`
	TopFeatures    []FeatureUsage `json:"top_features"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

type BroadcastRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type BroadcastResult struct {
	Sent  int `json:"sent"`
	Total int `json:"total"`
}

type OperationLogResponse struct {
	JobID      string    `json:"job_id"`
	UserID     int64     `json:"user_id"`
	Feature    string    `json:"feature"`
	Status     string    `json:"status"`
	Inputs     int       `json:"inputs"`
	Outputs    int       `json:"outputs"`
	Options    []string  `json:"options,omitempty"`
	Error      string    `json:"error,omitempty"`
	Tool       string    `json:"tool,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
