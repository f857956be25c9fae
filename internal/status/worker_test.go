package status

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/phoenix-dive/aimlink/internal/channel"
	"github.com/phoenix-dive/aimlink/internal/logging"
)

func newTestWorker(t *testing.T, opts ...Option) (*Worker, *channel.FakeSocket) {
	t.Helper()
	sock := channel.NewFakeSocket()
	dialer := channel.NewFakeDialer(sock)
	logger := logging.NewLogger(logging.Options{Writer: io.Discard, Channel: "ws_status"})
	conn := channel.Dial(context.Background(), "robot.test", "ws_status", dialer, logger)
	return NewWorker(conn, logger, opts...), sock
}

func statusJSON(flags, touchFlags uint32) []byte {
	return []byte(fmt.Sprintf(`{
		"controller": {"flags": "0x0", "stick_x": 0, "stick_y": 0, "battery": 100},
		"robot": {
			"flags": "0x%08x", "battery": "87",
			"touch_flags": "0x%04x", "touch_x": 80, "touch_y": 120,
			"robot_x": "1.5", "robot_y": 2.5,
			"roll": 0, "pitch": "0.5", "yaw": "-12.25",
			"heading": 90, "rotation": 450,
			"acceleration": {"x": 0, "y": 0, "z": 1},
			"gyro_rate": {"x": 0, "y": 0, "z": 0},
			"screen": {"row": 1, "column": 2}
		},
		"aivision": {
			"classnames": {"count": 1, "items": [{"index": 0, "name": "SportsBall"}]},
			"objects": {"count": 0, "items": []}
		}
	}`, flags, touchFlags))
}

func TestPollOncePublishesDecodedSnapshot(t *testing.T) {
	w, sock := newTestWorker(t)
	sock.QueueRead(statusJSON(FlagProgramActive, 0))

	w.PollOnce(context.Background())

	writes := sock.Writes()
	if len(writes) != 1 || !writes[0].Binary || !bytes.Equal(writes[0].Payload, []byte{1}) {
		t.Fatalf("probe writes = %+v, want one binary byte 0x01", writes)
	}
	if w.IsEmpty() {
		t.Fatal("snapshot still empty after successful cycle")
	}
	if w.Heartbeat() != 1 {
		t.Fatalf("heartbeat = %d, want 1", w.Heartbeat())
	}

	snap := w.Snapshot()
	if !snap.Robot.Flags.Has(FlagProgramActive) {
		t.Fatalf("robot flags = %#x, want program-active set", uint32(snap.Robot.Flags))
	}
	if got := snap.Robot.Battery.Float(); got != 87 {
		t.Fatalf("battery = %v, want 87 (quoted scalar)", got)
	}
	if got := snap.Robot.Yaw.Float(); got != -12.25 {
		t.Fatalf("yaw = %v, want -12.25", got)
	}
	if got := snap.Vision.ClassName(0); got != "SportsBall" {
		t.Fatalf("class 0 = %q, want SportsBall", got)
	}
	if got := snap.Vision.ClassName(7); got != "" {
		t.Fatalf("out-of-range class = %q, want empty", got)
	}
}

func TestPollOnceAppliesShadowOverrides(t *testing.T) {
	w, sock := newTestWorker(t)
	w.Shadow().RequestSet(FlagMoveActive)

	// Device has not caught up yet: override forces the bit on.
	sock.QueueRead(statusJSON(0, 0))
	w.PollOnce(context.Background())
	if !w.Snapshot().Robot.Flags.Has(FlagMoveActive) {
		t.Fatal("move-active not forced while pending")
	}

	// Device confirms, then drops the bit: raw value flows through again.
	sock.QueueRead(statusJSON(FlagMoveActive, 0))
	w.PollOnce(context.Background())
	sock.QueueRead(statusJSON(0, 0))
	w.PollOnce(context.Background())
	if w.Snapshot().Robot.Flags.Has(FlagMoveActive) {
		t.Fatal("move-active still set after device cleared it")
	}
}

func TestSnapshotRetainedThroughFiveLossesThenEmptied(t *testing.T) {
	w, sock := newTestWorker(t)
	sock.QueueRead(statusJSON(FlagProgramActive, 0))
	w.PollOnce(context.Background())

	for i := 1; i <= 5; i++ {
		sock.QueueReadError(errors.New("link down"))
		w.PollOnce(context.Background())
		if w.IsEmpty() {
			t.Fatalf("snapshot emptied after %d losses, want retained through 5", i)
		}
	}

	sock.QueueReadError(errors.New("link down"))
	w.PollOnce(context.Background())
	if !w.IsEmpty() {
		t.Fatal("snapshot not emptied after 6 consecutive losses")
	}
}

func TestLossCounterResetsOnSuccess(t *testing.T) {
	w, sock := newTestWorker(t)
	for i := 0; i < 4; i++ {
		sock.QueueReadError(errors.New("link down"))
		w.PollOnce(context.Background())
	}
	sock.QueueRead(statusJSON(0, 0))
	w.PollOnce(context.Background())

	// Four more losses must not reach the threshold again.
	for i := 0; i < 4; i++ {
		sock.QueueReadError(errors.New("link down"))
		w.PollOnce(context.Background())
	}
	if w.IsEmpty() {
		t.Fatal("snapshot emptied even though the counter was reset by a success")
	}
}

func TestMalformedPacketCountsAsLoss(t *testing.T) {
	w, sock := newTestWorker(t)
	sock.QueueRead(statusJSON(0, 0))
	w.PollOnce(context.Background())

	sock.QueueRead([]byte(`{"robot": {"flags": "zz`))
	w.PollOnce(context.Background())

	if w.IsEmpty() {
		t.Fatal("one malformed packet must not clear the snapshot")
	}
	if w.Heartbeat() != 1 {
		t.Fatalf("heartbeat = %d, want 1 (malformed cycle must not count)", w.Heartbeat())
	}
}

func TestTouchEdgesFireOnTransitionsOnly(t *testing.T) {
	w, sock := newTestWorker(t)
	var pressed, released int
	w.OnPressed(func() { pressed++ })
	w.OnReleased(func() { released++ })

	for _, touch := range []uint32{0, TouchPressed, TouchPressed, 0, TouchPressed} {
		sock.QueueRead(statusJSON(0, touch))
		w.PollOnce(context.Background())
	}

	if pressed != 2 {
		t.Fatalf("pressed fired %d times, want 2", pressed)
	}
	if released != 1 {
		t.Fatalf("released fired %d times, want 1", released)
	}
}

func TestCrashFlagFiresCallback(t *testing.T) {
	w, sock := newTestWorker(t)
	var crashes int
	w.OnCrash(func() { crashes++ })

	sock.QueueRead(statusJSON(FlagCrashed, 0))
	w.PollOnce(context.Background())
	if crashes != 1 {
		t.Fatalf("crash fired %d times, want 1", crashes)
	}
}

func TestPowerButtonRequestsStop(t *testing.T) {
	var reason string
	w, sock := newTestWorker(t, WithStopRequest(func(r string) { reason = r }))

	sock.QueueRead(statusJSON(FlagPowerButton, 0))
	w.PollOnce(context.Background())
	if reason == "" {
		t.Fatal("power button did not request stop")
	}
}

func TestProgramActiveFallingEdgeRequestsStop(t *testing.T) {
	var stops int
	w, sock := newTestWorker(t, WithStopRequest(func(string) { stops++ }))

	sock.QueueRead(statusJSON(FlagProgramActive, 0))
	w.PollOnce(context.Background())
	if stops != 0 {
		t.Fatal("stop requested while program still active")
	}

	sock.QueueRead(statusJSON(0, 0))
	w.PollOnce(context.Background())
	if stops != 1 {
		t.Fatalf("stops = %d, want 1 after falling edge", stops)
	}

	// Never-active sessions must not trigger on a plain zero flag word.
	sock.QueueRead(statusJSON(0, 0))
	w.PollOnce(context.Background())
	if stops != 1 {
		t.Fatalf("stops = %d, want still 1", stops)
	}
}

func TestApplyCommandEffectDrivesShadow(t *testing.T) {
	w, _ := newTestWorker(t)

	w.ApplyCommandEffect("drive")
	got := w.Shadow().Apply(0)
	if got&FlagMoveActive == 0 || got&FlagMoving == 0 {
		t.Fatalf("drive effect = %#x, want move-active and moving forced", got)
	}

	w.ApplyCommandEffect("stop_sound")
	if w.Shadow().Apply(FlagSoundPlaying)&FlagSoundPlaying != 0 {
		t.Fatal("stop_sound effect did not force the sound bit off")
	}

	w.ApplyCommandEffect("imu_calibrate")
	if w.Shadow().Apply(0)&FlagIMUCalibrating == 0 {
		t.Fatal("imu_calibrate effect did not force the calibrating bit")
	}
}

func TestSnapshotObserverSeesPublishedSnapshots(t *testing.T) {
	var seen []*Snapshot
	w, sock := newTestWorker(t, WithSnapshotObserver(func(s *Snapshot) { seen = append(seen, s) }))

	sock.QueueRead(statusJSON(0, 0))
	w.PollOnce(context.Background())
	sock.QueueReadError(errors.New("link down"))
	w.PollOnce(context.Background())

	if len(seen) != 1 {
		t.Fatalf("observer saw %d snapshots, want 1 (losses are not published)", len(seen))
	}
	if seen[0] != w.Snapshot() {
		t.Fatal("observer snapshot differs from the published one")
	}
}
