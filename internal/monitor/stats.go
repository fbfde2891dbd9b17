package monitor

import (
	"sync"
	"sync/atomic"
	"time"

	"mempoolScope/internal/model"
)

// Stats holds the session counters. Updated only by the ingestion loop and
// the emitter; read through Snapshot.
type Stats struct {
	total         atomic.Uint64
	successful    atomic.Uint64
	failed        atomic.Uint64
	notifications atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time
	stopTime  time.Time
}

func NewStats() *Stats {
	return &Stats{}
}

// Reset zeroes all counters and records the new session start time.
func (s *Stats) Reset(start time.Time) {
	s.total.Store(0)
	s.successful.Store(0)
	s.failed.Store(0)
	s.notifications.Store(0)

	s.mu.Lock()
	s.startTime = start
	s.stopTime = time.Time{}
	s.mu.Unlock()
}

// MarkStopped freezes uptime at the session end.
func (s *Stats) MarkStopped(at time.Time) {
	s.mu.Lock()
	s.stopTime = at
	s.mu.Unlock()
}

func (s *Stats) IncrTotal()         { s.total.Add(1) }
func (s *Stats) IncrSuccessful()    { s.successful.Add(1) }
func (s *Stats) IncrFailed()        { s.failed.Add(1) }
func (s *Stats) IncrNotifications() { s.notifications.Add(1) }

// Snapshot returns a point-in-time copy of the counters.
func (s *Stats) Snapshot(running bool) model.PipelineStats {
	s.mu.RLock()
	start := s.startTime
	stop := s.stopTime
	s.mu.RUnlock()

	var uptime int64
	switch {
	case start.IsZero():
	case !stop.IsZero():
		uptime = int64(stop.Sub(start).Seconds())
	default:
		uptime = int64(time.Since(start).Seconds())
	}

	return model.PipelineStats{
		TotalTransactions: s.total.Load(),
		SuccessfulParses:  s.successful.Load(),
		FailedParses:      s.failed.Load(),
		NotificationsSent: s.notifications.Load(),
		StartTime:         start,
		UptimeSeconds:     uptime,
		Running:           running,
	}
}
