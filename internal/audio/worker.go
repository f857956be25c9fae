package audio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phoenix-dive/aimlink/internal/channel"
)

const maintainInterval = 200 * time.Millisecond

// Worker owns the audio channel. The device never sends on it; the worker
// only keeps the connection healthy and pushes uploads.
type Worker struct {
	conn   *channel.Conn
	logger *slog.Logger

	mu sync.Mutex
}

func NewWorker(conn *channel.Conn, logger *slog.Logger) *Worker {
	return &Worker{conn: conn, logger: logger}
}

// Upload frames the file and sends it as one binary frame. Playback and
// download progress are observed on the status channel, not here.
func (w *Worker) Upload(ctx context.Context, name string, format Format, volume int, data []byte) error {
	payload, err := EncodePayload(name, format, volume, data)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger.Info("uploading sound", "name", name, "bytes", len(data))
	return w.conn.Send(ctx, payload, true)
}

// Run keeps the connection alive until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(maintainInterval)
	defer ticker.Stop()
	for {
		w.conn.Maintain(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
