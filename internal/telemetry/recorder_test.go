package telemetry

import (
	"path/filepath"
	"testing"

	"github.com/phoenix-dive/aimlink/internal/status"
)

func openTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRecorderSessionLifecycle(t *testing.T) {
	r := openTestRecorder(t)

	id, err := r.StartSession("10.0.0.5")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	var row Session
	if err := r.db.First(&row, "session_id = ?", id).Error; err != nil {
		t.Fatalf("load session: %v", err)
	}
	if row.Host != "10.0.0.5" || row.StartedAt == 0 {
		t.Fatalf("session row = %+v", row)
	}
	if row.EndedAt != 0 {
		t.Fatal("session ended before Close")
	}
}

func TestRecorderSamplesAreThrottled(t *testing.T) {
	r := openTestRecorder(t)
	id, err := r.StartSession("10.0.0.5")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	snap := status.Empty()
	snap.Robot.Battery = 90
	for i := 0; i < 5; i++ {
		if err := r.RecordSnapshot(snap); err != nil {
			t.Fatalf("RecordSnapshot failed: %v", err)
		}
	}

	var count int64
	if err := r.db.Model(&StatusSample{}).Where("session_id = ?", id).Count(&count).Error; err != nil {
		t.Fatalf("count samples: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d samples from a burst, want 1", count)
	}

	var row StatusSample
	if err := r.db.First(&row, "session_id = ?", id).Error; err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if row.Battery != 90 {
		t.Fatalf("battery = %v, want 90", row.Battery)
	}
}

func TestRecorderCommands(t *testing.T) {
	r := openTestRecorder(t)
	id, err := r.StartSession("10.0.0.5")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if err := r.RecordCommand("drive", []byte(`{"cmd_id":"drive"}`)); err != nil {
		t.Fatalf("RecordCommand failed: %v", err)
	}

	var row CommandRecord
	if err := r.db.First(&row, "session_id = ?", id).Error; err != nil {
		t.Fatalf("load command: %v", err)
	}
	if row.CmdID != "drive" || row.Payload == "" {
		t.Fatalf("command row = %+v", row)
	}
}

func TestRecorderIgnoresDataWithoutSession(t *testing.T) {
	r := openTestRecorder(t)

	if err := r.RecordSnapshot(status.Empty()); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}
	if err := r.RecordCommand("drive", nil); err != nil {
		t.Fatalf("RecordCommand failed: %v", err)
	}

	var samples, commands int64
	r.db.Model(&StatusSample{}).Count(&samples)
	r.db.Model(&CommandRecord{}).Count(&commands)
	if samples != 0 || commands != 0 {
		t.Fatalf("recorded %d samples, %d commands without a session", samples, commands)
	}
}

func TestRecorderCloseStampsSessionEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := r.StartSession("10.0.0.5")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer r2.Close()

	var row Session
	if err := r2.db.First(&row, "session_id = ?", id).Error; err != nil {
		t.Fatalf("load session: %v", err)
	}
	if row.EndedAt == 0 {
		t.Fatal("ended_at not stamped by Close")
	}
	if row.EndedAt < row.StartedAt {
		t.Fatalf("ended_at %d before started_at %d", row.EndedAt, row.StartedAt)
	}
}
