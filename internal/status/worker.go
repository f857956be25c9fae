package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phoenix-dive/aimlink/internal/channel"
	"github.com/phoenix-dive/aimlink/internal/wire"
)

const (
	// PollInterval is the status duty cycle period.
	PollInterval = 50 * time.Millisecond

	// lossThreshold is how many consecutive failed cycles are tolerated
	// before the published snapshot is reset to Empty.
	lossThreshold = 5

	pollTimeout = 4 * time.Second
)

var probe = []byte{1}

// Worker drives the status channel: every cycle it sends a one-byte probe,
// receives one JSON snapshot, folds in shadow overrides and publishes the
// result. Publication uses an atomic pointer swap so readers on any
// goroutine get a coherent snapshot without locking.
type Worker struct {
	conn   *channel.Conn
	logger *slog.Logger
	shadow *Shadow

	// requestStop asks the owning robot to shut the session down; fired
	// on power-button press and on the program-active falling edge.
	requestStop func(reason string)

	// onSnapshot, when set, observes every published snapshot. Used by
	// the flight recorder.
	onSnapshot func(*Snapshot)

	empty     *Snapshot
	snapshot  atomic.Pointer[Snapshot]
	heartbeat atomic.Uint64
	losses    int

	lastPressed   bool
	programActive bool

	cbMu       sync.Mutex
	onPressed  []func()
	onReleased []func()
	onCrash    []func()
}

type Option func(*Worker)

// WithStopRequest installs the session shutdown hook.
func WithStopRequest(fn func(reason string)) Option {
	return func(w *Worker) { w.requestStop = fn }
}

// WithSnapshotObserver installs a hook called with every published snapshot.
func WithSnapshotObserver(fn func(*Snapshot)) Option {
	return func(w *Worker) { w.onSnapshot = fn }
}

func NewWorker(conn *channel.Conn, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		conn:        conn,
		logger:      logger,
		shadow:      NewShadow(),
		requestStop: func(string) {},
		empty:       Empty(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.snapshot.Store(w.empty)
	return w
}

// Snapshot returns the most recently published snapshot. It is never nil.
func (w *Worker) Snapshot() *Snapshot { return w.snapshot.Load() }

// IsEmpty reports whether the published snapshot is the canonical empty one,
// meaning no live data has arrived yet or the link has been down too long.
func (w *Worker) IsEmpty() bool { return w.snapshot.Load() == w.empty }

// Shadow exposes the flag override machine for command-side effects.
func (w *Worker) Shadow() *Shadow { return w.shadow }

// Heartbeat returns a counter incremented on every successful cycle.
// Callers that must wait for fresh data watch it advance.
func (w *Worker) Heartbeat() uint64 { return w.heartbeat.Load() }

// OnPressed registers a callback fired when the touch panel transitions
// from released to pressed. Callbacks run on the worker goroutine.
func (w *Worker) OnPressed(fn func()) {
	w.cbMu.Lock()
	w.onPressed = append(w.onPressed, fn)
	w.cbMu.Unlock()
}

// OnReleased registers a callback fired on the pressed-to-released edge.
func (w *Worker) OnReleased(fn func()) {
	w.cbMu.Lock()
	w.onReleased = append(w.onReleased, fn)
	w.cbMu.Unlock()
}

// OnCrash registers a callback fired while the crash flag is reported.
func (w *Worker) OnCrash(fn func()) {
	w.cbMu.Lock()
	w.onCrash = append(w.onCrash, fn)
	w.cbMu.Unlock()
}

// ApplyCommandEffect records the optimistic flag consequences of an
// acknowledged command so callers polling the snapshot see motion or
// calibration as active before the device reports it.
func (w *Worker) ApplyCommandEffect(cmdID string) {
	switch {
	case wire.IsMoveClass(cmdID):
		w.shadow.RequestSet(FlagMoveActive)
		w.shadow.RequestSet(FlagMoving)
	case wire.IsTurnClass(cmdID):
		w.shadow.RequestSet(FlagTurnActive)
		w.shadow.RequestSet(FlagMoving)
	}
	switch cmdID {
	case "spin_wheels":
		w.shadow.RequestSet(FlagMoving)
	case "imu_calibrate":
		w.shadow.RequestSet(FlagIMUCalibrating)
	case "play_sound", "play_file", "play_note":
		w.shadow.RequestSet(FlagSoundPlaying)
	case "stop_sound":
		w.shadow.RequestClear(FlagSoundPlaying)
	}
}

// Run loops the duty cycle until the context is cancelled, letting the
// connection heal itself between cycles.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		if w.conn.Maintain(ctx) {
			w.PollOnce(ctx)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PollOnce performs one probe/receive/publish cycle. Transport and decode
// failures are absorbed into the loss counter; after lossThreshold
// consecutive losses the empty snapshot is published so stale readings
// cannot masquerade as live ones.
func (w *Worker) PollOnce(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	snap, err := w.fetch(cctx)
	if err != nil {
		w.losses++
		w.logger.Warn("status cycle lost", "losses", w.losses, "error", err)
		if w.losses > lossThreshold {
			w.snapshot.Store(w.empty)
		}
		return
	}
	w.losses = 0

	snap.Robot.Flags = HexFlags(w.shadow.Apply(uint32(snap.Robot.Flags)))
	w.snapshot.Store(snap)
	w.heartbeat.Add(1)
	if w.onSnapshot != nil {
		w.onSnapshot(snap)
	}
	w.detectEdges(snap)
}

func (w *Worker) fetch(ctx context.Context) (*Snapshot, error) {
	if err := w.conn.Send(ctx, probe, true); err != nil {
		return nil, err
	}
	data, err := w.conn.Receive(ctx)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (w *Worker) detectEdges(s *Snapshot) {
	w.cbMu.Lock()
	crash := append([]func(){}, w.onCrash...)
	pressed := append([]func(){}, w.onPressed...)
	released := append([]func(){}, w.onReleased...)
	w.cbMu.Unlock()

	if s.Robot.Flags.Has(FlagCrashed) {
		for _, fn := range crash {
			fn()
		}
	}

	isPressed := s.Robot.TouchFlags.Has(TouchPressed)
	if isPressed && !w.lastPressed {
		for _, fn := range pressed {
			fn()
		}
	}
	if !isPressed && w.lastPressed {
		for _, fn := range released {
			fn()
		}
	}
	w.lastPressed = isPressed

	if s.Robot.Flags.Has(FlagPowerButton) {
		w.requestStop("power button pressed")
	}
	active := s.Robot.Flags.Has(FlagProgramActive)
	if w.programActive && !active {
		w.requestStop("device program stopped")
	}
	w.programActive = active
}
