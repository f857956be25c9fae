package channel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDial_ExitsProcessWhenFirstAttemptFails(t *testing.T) {
	exited := -1
	old := exitFunc
	exitFunc = func(code int) { exited = code }
	defer func() { exitFunc = old }()

	Dial(context.Background(), "10.0.0.9", "ws_cmd", NewFakeDialer(), discardLogger())
	if exited != 1 {
		t.Fatalf("expected exit code 1 on failed initial dial, got %d", exited)
	}
}

func TestSend_TransportErrorMarksResetAndReturnsDisconnected(t *testing.T) {
	sock := NewFakeSocket()
	sock.FailWrites(errors.New("broken pipe"))
	conn := Dial(context.Background(), "10.0.0.9", "ws_cmd", NewFakeDialer(sock), discardLogger())

	err := conn.Send(context.Background(), []byte{1}, true)
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("expected ErrDisconnected, got %v", err)
	}
	if conn.Connected() {
		t.Fatalf("connection should be marked for reset after send failure")
	}
}

func TestReceive_TransportErrorReturnsReceiveError(t *testing.T) {
	sock := NewFakeSocket()
	sock.QueueReadError(errors.New("connection reset"))
	conn := Dial(context.Background(), "10.0.0.9", "ws_status", NewFakeDialer(sock), discardLogger())

	_, err := conn.Receive(context.Background())
	if !errors.Is(err, ErrReceive) {
		t.Fatalf("expected ErrReceive, got %v", err)
	}
}

func TestMaintain_ClosesAndRedialsAfterReset(t *testing.T) {
	first := NewFakeSocket()
	second := NewFakeSocket()
	dialer := NewFakeDialer(first, second)
	conn := Dial(context.Background(), "10.0.0.9", "ws_img", dialer, discardLogger())

	conn.MarkReset()
	if !conn.Maintain(context.Background()) {
		t.Fatalf("expected Maintain to reconnect")
	}
	if !first.Closed() {
		t.Fatalf("expected old socket to be closed on reset")
	}
	if dialer.Dials() != 2 {
		t.Fatalf("expected 2 dials (initial + reconnect), got %d", dialer.Dials())
	}

	// Once the script runs dry, Maintain fails non-fatally and keeps trying.
	conn.MarkReset()
	if conn.Maintain(context.Background()) {
		t.Fatalf("expected Maintain to report not connected with no socket available")
	}
	if conn.Connected() {
		t.Fatalf("connection should not report connected after failed redial")
	}
}

func TestSend_RecordsPayloadAndOpcode(t *testing.T) {
	sock := NewFakeSocket()
	conn := Dial(context.Background(), "10.0.0.9", "ws_status", NewFakeDialer(sock), discardLogger())

	if err := conn.Send(context.Background(), []byte{1}, true); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	writes := sock.Writes()
	if len(writes) != 1 || !writes[0].Binary || len(writes[0].Payload) != 1 || writes[0].Payload[0] != 1 {
		t.Fatalf("unexpected writes: %+v", writes)
	}
}
