package monitor

import (
	"testing"
	"time"
)

func TestSnapshotFreezesUptimeAfterStop(t *testing.T) {
	stats := NewStats()
	start := time.Now().Add(-10 * time.Minute)
	stats.Reset(start)
	stats.MarkStopped(start.Add(5 * time.Minute))

	snap := stats.Snapshot(false)
	if snap.UptimeSeconds != 300 {
		t.Fatalf("uptime should freeze at the stop time, got %d", snap.UptimeSeconds)
	}

	// Later snapshots report the same frozen value.
	if again := stats.Snapshot(false); again.UptimeSeconds != 300 {
		t.Fatalf("stopped uptime must not keep growing, got %d", again.UptimeSeconds)
	}
}

func TestResetClearsStopTime(t *testing.T) {
	stats := NewStats()
	start := time.Now().Add(-10 * time.Minute)
	stats.Reset(start)
	stats.MarkStopped(start.Add(time.Minute))

	stats.Reset(time.Now())
	snap := stats.Snapshot(true)
	if snap.UptimeSeconds < 0 || snap.UptimeSeconds > 5 {
		t.Fatalf("new session should resume live uptime, got %d", snap.UptimeSeconds)
	}
}
