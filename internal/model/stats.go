package model

import (
	"time"
)

// PipelineStats is a point-in-time snapshot of the monitoring counters.
// Counters are monotone within a session and reset when a new session starts.
type PipelineStats struct {
	TotalTransactions uint64    `json:"total_transactions"`
	SuccessfulParses  uint64    `json:"successful_parses"`
	FailedParses      uint64    `json:"failed_parses"`
	NotificationsSent uint64    `json:"notifications_sent"`
	StartTime         time.Time `json:"start_time"`
	UptimeSeconds     int64     `json:"uptime_seconds"`
	Running           bool      `json:"running"`
}
