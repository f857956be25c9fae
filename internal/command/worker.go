// Package command serializes JSON commands over the command channel. The
// device answers every command with exactly one response frame, so the
// worker enforces one request in flight at a time.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phoenix-dive/aimlink/internal/channel"
	"github.com/phoenix-dive/aimlink/internal/wire"
)

// maintainInterval paces the reconnect discipline when no commands flow.
const maintainInterval = 200 * time.Millisecond

// Worker owns the command channel. Device-side rejections are logged and
// absorbed; only transport failures surface to the caller, which lets
// long-running motion scripts keep going across a brief link drop.
type Worker struct {
	conn   *channel.Conn
	logger *slog.Logger

	// effects records the optimistic state consequences of an acknowledged
	// command, wired to the status worker's shadow flags.
	effects func(cmdID string)

	mu sync.Mutex
}

type Option func(*Worker)

// WithEffects installs the acknowledged-command hook.
func WithEffects(fn func(cmdID string)) Option {
	return func(w *Worker) { w.effects = fn }
}

func NewWorker(conn *channel.Conn, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{conn: conn, logger: logger}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Send encodes the command, writes it as one binary frame and consumes the
// matching response. It blocks any concurrent sender until the response
// arrives; interleaved requests would make responses uncorrelatable.
func (w *Worker) Send(ctx context.Context, cmd wire.Command) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	payload, err := wire.Encode(cmd)
	if err != nil {
		return fmt.Errorf("command %s: %w", cmd.ID(), err)
	}
	if err := w.conn.Send(ctx, payload, true); err != nil {
		return err
	}
	data, err := w.conn.Receive(ctx)
	if err != nil {
		return err
	}
	resp, err := wire.DecodeResponse(data)
	if err != nil {
		return fmt.Errorf("command %s: %w", cmd.ID(), err)
	}

	if resp.CmdID == wire.UnknownCommandID {
		w.logger.Warn("command not supported by device", "cmd", cmd.ID())
		return nil
	}
	switch resp.Status {
	case wire.StatusComplete, wire.StatusInProgress:
		if w.effects != nil {
			w.effects(cmd.ID())
		}
	case wire.StatusError:
		w.logger.Error("command rejected", "cmd", cmd.ID(), "reason", resp.ErrorInfo)
	default:
		w.logger.Warn("unexpected command status", "cmd", cmd.ID(), "status", resp.Status)
	}
	return nil
}

// Run keeps the connection healthy while the session is idle.
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
