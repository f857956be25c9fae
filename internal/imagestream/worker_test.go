package imagestream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/phoenix-dive/aimlink/internal/channel"
	"github.com/phoenix-dive/aimlink/internal/logging"
)

func newTestWorker(t *testing.T) (*Worker, *channel.FakeSocket) {
	t.Helper()
	sock := channel.NewFakeSocket()
	dialer := channel.NewFakeDialer(sock)
	logger := logging.NewLogger(logging.Options{Writer: io.Discard, Channel: "ws_img"})
	conn := channel.Dial(context.Background(), "robot.test", "ws_img", dialer, logger)
	return NewWorker(conn, logger), sock
}

func TestStartStopSendControlBytes(t *testing.T) {
	w, sock := newTestWorker(t)
	ctx := context.Background()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	writes := sock.Writes()
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2 (Start is idempotent)", len(writes))
	}
	if !writes[0].Binary || !bytes.Equal(writes[0].Payload, []byte{1}) {
		t.Fatalf("start write = %+v, want binary 0x01", writes[0])
	}
	if !writes[1].Binary || !bytes.Equal(writes[1].Payload, []byte{0}) {
		t.Fatalf("stop write = %+v, want binary 0x00", writes[1])
	}
}

func TestLatestNilBeforeFirstFrame(t *testing.T) {
	w, _ := newTestWorker(t)
	if w.Latest() != nil {
		t.Fatal("Latest before any frame should be nil")
	}
	if w.Frames() != 0 {
		t.Fatalf("Frames = %d, want 0", w.Frames())
	}
}

func TestFramesAlternateBuffersAndKeepNewest(t *testing.T) {
	w, sock := newTestWorker(t)
	ctx := context.Background()

	sock.QueueRead([]byte("frame-one"))
	w.pumpOnce(ctx)
	if got := w.Latest(); !bytes.Equal(got, []byte("frame-one")) {
		t.Fatalf("Latest = %q, want frame-one", got)
	}

	held := w.Latest()
	sock.QueueRead([]byte("frame-two"))
	w.pumpOnce(ctx)
	if got := w.Latest(); !bytes.Equal(got, []byte("frame-two")) {
		t.Fatalf("Latest = %q, want frame-two", got)
	}
	// The slice handed out before the flip must be untouched.
	if !bytes.Equal(held, []byte("frame-one")) {
		t.Fatalf("previously returned frame mutated to %q", held)
	}
	if w.Frames() != 2 {
		t.Fatalf("Frames = %d, want 2", w.Frames())
	}
}

func TestReceiveFailurePublishesNoSignalFrame(t *testing.T) {
	w, sock := newTestWorker(t)
	ctx := context.Background()

	sock.QueueRead([]byte("frame-one"))
	w.pumpOnce(ctx)
	sock.QueueReadError(errors.New("link down"))
	w.pumpOnce(ctx)

	if got := w.Latest(); !bytes.Equal(got, []byte{0}) {
		t.Fatalf("Latest after failure = %v, want the one-byte zero sentinel", got)
	}
}

func TestStreamRestartsAfterConnectionDrop(t *testing.T) {
	sock1 := channel.NewFakeSocket()
	sock2 := channel.NewFakeSocket()
	dialer := channel.NewFakeDialer(sock1, sock2)
	logger := logging.NewLogger(logging.Options{Writer: io.Discard, Channel: "ws_img"})
	conn := channel.Dial(context.Background(), "robot.test", "ws_img", dialer, logger)
	w := NewWorker(conn, logger)
	ctx := context.Background()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sock1.QueueReadError(errors.New("link down"))
	w.pumpOnce(ctx)

	if w.Streaming() {
		t.Fatal("Streaming = true after the connection dropped")
	}
	if !conn.Maintain(ctx) {
		t.Fatal("Maintain did not redial")
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start after redial: %v", err)
	}
	writes := sock2.Writes()
	if len(writes) != 1 || !bytes.Equal(writes[0].Payload, []byte{1}) {
		t.Fatalf("new socket writes = %v, want one stream-on byte", writes)
	}
}

func TestFailedStartStaysStopped(t *testing.T) {
	w, sock := newTestWorker(t)
	sock.FailWrites(errors.New("link down"))

	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start over a dead link should fail")
	}
	if w.Streaming() {
		t.Fatal("Streaming = true after a failed Start")
	}
}
