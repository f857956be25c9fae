// Package imagestream receives camera frames and publishes the newest one
// through a double buffer, so readers never block the receive path.
package imagestream

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/phoenix-dive/aimlink/internal/channel"
)

var (
	streamOn  = []byte{1}
	streamOff = []byte{0}

	// noSignal replaces the frame when a receive fails, so readers can tell
	// "stream interrupted" apart from "no frame yet".
	noSignal = []byte{0}
)

const reconnectDelay = 100 * time.Millisecond

// Worker owns the image channel. Frames are written into the inactive slot
// of a two-slot buffer and published by an atomic index flip; Latest never
// sees a partially written frame.
type Worker struct {
	conn   *channel.Conn
	logger *slog.Logger

	buffers [2][]byte
	index   atomic.Int32 // -1 until the first frame lands
	frames  atomic.Uint64

	streaming atomic.Bool
}

func NewWorker(conn *channel.Conn, logger *slog.Logger) *Worker {
	w := &Worker{conn: conn, logger: logger}
	w.index.Store(-1)
	return w
}

// Start asks the device to begin streaming frames. Idempotent.
func (w *Worker) Start(ctx context.Context) error {
	if !w.streaming.CompareAndSwap(false, true) {
		return nil
	}
	if err := w.conn.Send(ctx, streamOn, true); err != nil {
		w.streaming.Store(false)
		return err
	}
	return nil
}

// Stop asks the device to stop streaming. Idempotent.
func (w *Worker) Stop(ctx context.Context) error {
	if !w.streaming.CompareAndSwap(true, false) {
		return nil
	}
	return w.conn.Send(ctx, streamOff, true)
}

func (w *Worker) Streaming() bool { return w.streaming.Load() }

// Latest returns the most recently published frame, or nil if none has
// arrived. A one-byte zero frame means the stream was interrupted.
func (w *Worker) Latest() []byte {
	i := w.index.Load()
	if i < 0 {
		return nil
	}
	return w.buffers[i]
}

// Frames counts published frames. Callers waiting for a fresh frame watch
// it advance.
func (w *Worker) Frames() uint64 { return w.frames.Load() }

// Run receives frames until the context is cancelled. The device only sends
// while streaming is enabled, so the receive simply blocks in between.
func (w *Worker) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if !w.conn.Maintain(ctx) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}
		w.pumpOnce(ctx)
	}
}

func (w *Worker) pumpOnce(ctx context.Context) {
	data, err := w.conn.Receive(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Warn("image receive failed", "error", err)
		// The replacement connection starts with streaming disabled on the
		// device, so the next Start must re-send the stream-on byte.
		w.streaming.Store(false)
		w.publish(noSignal)
		return
	}
	w.publish(data)
}

func (w *Worker) publish(frame []byte) {
	next := (w.index.Load() + 1) & 1
	cp := make([]byte, len(frame))
	copy(cp, frame)
	w.buffers[next] = cp
	w.index.Store(next)
	w.frames.Add(1)
}
