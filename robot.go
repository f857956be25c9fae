// Package aim is a client for the VEX AIM mobile robot. It keeps four
// websocket channels (status, image, command, audio) connected for the
// lifetime of a session and exposes motion, perception, screen, sound and
// light facades on top of them.
package aim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/phoenix-dive/aimlink/internal/audio"
	"github.com/phoenix-dive/aimlink/internal/channel"
	"github.com/phoenix-dive/aimlink/internal/command"
	"github.com/phoenix-dive/aimlink/internal/imagestream"
	"github.com/phoenix-dive/aimlink/internal/logging"
	"github.com/phoenix-dive/aimlink/internal/settings"
	"github.com/phoenix-dive/aimlink/internal/status"
	"github.com/phoenix-dive/aimlink/internal/telemetry"
	"github.com/phoenix-dive/aimlink/internal/wire"
)

const (
	blockPollInterval = 100 * time.Millisecond
	blockDebounce     = 50 * time.Millisecond
	defaultBlockWait  = 10 * time.Second

	readyTimeout = 10 * time.Second
)

type Options struct {
	// Host is the robot address; empty falls back to the settings file and
	// then to the access-point default.
	Host string

	LogLevel  string
	LogWriter io.Writer

	// SettingsDir overrides where the settings file lives.
	SettingsDir string

	// TelemetryPath, when set, records the session into a SQLite database.
	TelemetryPath string

	// Dialer overrides the websocket dialer. Tests script it.
	Dialer channel.Dialer
}

// Robot is one live session. All methods are safe for concurrent use.
type Robot struct {
	logger *slog.Logger
	host   string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	conns         []*channel.Conn
	statusWorker  *status.Worker
	imageWorker   *imagestream.Worker
	commandWorker *command.Worker
	audioWorker   *audio.Worker
	recorder      *telemetry.Recorder

	// blockWait bounds every motion wait; a timed-out wait stops the robot
	// rather than leaving it moving unattended.
	blockWait time.Duration

	mu             sync.Mutex
	headingOffset  float64
	rotationOffset float64

	vision   *Vision
	screen   *Screen
	sound    *Sound
	led      *Led
	kicker   *Kicker
	inertial *Inertial
}

// New connects all four channels, announces the program to the device and
// waits for the first status snapshot. A robot that cannot be reached at all
// exits the process; see channel.Dial.
func New(ctx context.Context, opts Options) (*Robot, error) {
	host, err := resolveHost(opts)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(logging.Options{Level: opts.LogLevel, Writer: opts.LogWriter})

	var dialer channel.Dialer = channel.WebsocketDialer{}
	if opts.Dialer != nil {
		dialer = opts.Dialer
	}

	var recorder *telemetry.Recorder
	if opts.TelemetryPath != "" {
		recorder, err = telemetry.Open(opts.TelemetryPath)
		if err != nil {
			return nil, fmt.Errorf("open telemetry: %w", err)
		}
		if _, err := recorder.StartSession(host); err != nil {
			return nil, fmt.Errorf("start telemetry session: %w", err)
		}
	}

	rctx, cancel := context.WithCancel(ctx)
	r := &Robot{
		logger:    logger,
		host:      host,
		ctx:       rctx,
		cancel:    cancel,
		recorder:  recorder,
		blockWait: defaultBlockWait,
	}

	statusConn := channel.Dial(rctx, host, "status", dialer, logger.With("channel", "status"))
	imgConn := channel.Dial(rctx, host, "img", dialer, logger.With("channel", "img"))
	cmdConn := channel.Dial(rctx, host, "cmd", dialer, logger.With("channel", "cmd"))
	audioConn := channel.Dial(rctx, host, "audio", dialer, logger.With("channel", "audio"))
	r.conns = []*channel.Conn{statusConn, imgConn, cmdConn, audioConn}

	statusOpts := []status.Option{status.WithStopRequest(r.requestStop)}
	if recorder != nil {
		statusOpts = append(statusOpts, status.WithSnapshotObserver(func(s *status.Snapshot) {
			if err := recorder.RecordSnapshot(s); err != nil {
				logger.Warn("telemetry sample failed", "error", err)
			}
		}))
	}
	r.statusWorker = status.NewWorker(statusConn, logger.With("channel", "status"), statusOpts...)
	r.imageWorker = imagestream.NewWorker(imgConn, logger.With("channel", "img"))
	r.commandWorker = command.NewWorker(cmdConn, logger.With("channel", "cmd"),
		command.WithEffects(r.statusWorker.ApplyCommandEffect))
	r.audioWorker = audio.NewWorker(audioConn, logger.With("channel", "audio"))

	r.vision = &Vision{robot: r}
	r.screen = &Screen{robot: r}
	r.sound = &Sound{robot: r}
	r.led = &Led{robot: r}
	r.kicker = &Kicker{robot: r}
	r.inertial = &Inertial{robot: r}

	r.startWorkers()

	if err := r.send(rctx, wire.NewProgramInit()); err != nil {
		r.shutdown()
		return nil, err
	}
	if err := r.waitForStatus(rctx); err != nil {
		r.shutdown()
		return nil, err
	}
	r.ResetHeading()
	logger.Info("session started", "host", host)
	return r, nil
}

func (r *Robot) startWorkers() {
	run := func(fn func(context.Context)) {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			fn(r.ctx)
		}()
	}
	run(r.statusWorker.Run)
	run(r.imageWorker.Run)
	run(r.commandWorker.Run)
	run(r.audioWorker.Run)
}

func resolveHost(opts Options) (string, error) {
	if opts.Host != "" {
		return opts.Host, nil
	}
	dir := opts.SettingsDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return settings.DefaultHost, nil
		}
		dir = filepath.Join(base, "aimlink")
	}
	cfg, err := settings.NewStore(dir).LoadOrInit()
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	return cfg.Connection.Host, nil
}

// waitForStatus blocks until the first live snapshot is published.
func (r *Robot) waitForStatus(ctx context.Context) error {
	deadline := time.Now().Add(readyTimeout)
	for time.Now().Before(deadline) {
		if !r.statusWorker.IsEmpty() {
			return nil
		}
		if !sleepCtx(ctx, status.PollInterval) {
			return ctx.Err()
		}
	}
	return ErrNotReady
}

// Done is closed when the session ends, whether by Close, the power button,
// or device-side program termination.
func (r *Robot) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Robot) requestStop(reason string) {
	r.logger.Info("session stopping", "reason", reason)
	r.cancel()
}

// Close stops all workers, drops the connections and finalizes telemetry.
func (r *Robot) Close() error {
	return r.shutdown()
}

func (r *Robot) shutdown() error {
	r.cancel()
	r.wg.Wait()
	for _, c := range r.conns {
		_ = c.Close()
	}
	if r.recorder != nil {
		return r.recorder.Close()
	}
	return nil
}

// send routes a command through the command channel, recording it first.
func (r *Robot) send(ctx context.Context, cmd wire.Command) error {
	if r.recorder != nil {
		if payload, err := wire.Encode(cmd); err == nil {
			if err := r.recorder.RecordCommand(cmd.ID(), payload); err != nil {
				r.logger.Warn("telemetry command record failed", "error", err)
			}
		}
	}
	return r.commandWorker.Send(ctx, cmd)
}

func (r *Robot) snapshot() *status.Snapshot { return r.statusWorker.Snapshot() }

// Facade accessors.
func (r *Robot) Vision() *Vision     { return r.vision }
func (r *Robot) Screen() *Screen     { return r.screen }
func (r *Robot) Sound() *Sound       { return r.sound }
func (r *Robot) Led() *Led           { return r.led }
func (r *Robot) Kicker() *Kicker     { return r.kicker }
func (r *Robot) Inertial() *Inertial { return r.inertial }

// Battery returns the robot's charge percentage.
func (r *Robot) Battery() int { return r.snapshot().Robot.Battery.Int() }

// OnCrash registers a callback fired when the robot reports a crash.
func (r *Robot) OnCrash(fn func()) { r.statusWorker.OnCrash(fn) }

// HasCrashed reports the crash flag from the latest snapshot.
func (r *Robot) HasCrashed() bool {
	return r.snapshot().Robot.Flags.Has(status.FlagCrashed)
}

// IsShaking reports whether the robot detects being shaken.
func (r *Robot) IsShaking() bool {
	return r.snapshot().Robot.Flags.Has(status.FlagShake)
}

type CrashSensitivity int

const (
	CrashSensitivityLow CrashSensitivity = iota
	CrashSensitivityMedium
	CrashSensitivityHigh
)

func (r *Robot) SetCrashSensitivity(ctx context.Context, s CrashSensitivity) error {
	return r.send(ctx, wire.NewSetCrashSensitivity(int(s)))
}

// ResetHeading makes the robot's current orientation the zero heading for
// subsequent Heading, Rotation and position reads.
func (r *Robot) ResetHeading() {
	snap := r.snapshot()
	r.mu.Lock()
	r.headingOffset = snap.Robot.Heading.Float()
	r.rotationOffset = snap.Robot.Rotation.Float()
	r.mu.Unlock()
}

func (r *Robot) offsets() (heading, rotation float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.headingOffset, r.rotationOffset
}

// Heading returns degrees in [0, 360) relative to the last heading reset.
func (r *Robot) Heading() float64 {
	off, _ := r.offsets()
	h := math.Mod(r.snapshot().Robot.Heading.Float()-off, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Rotation returns cumulative degrees turned since the last heading reset;
// unlike Heading it does not wrap.
func (r *Robot) Rotation() float64 {
	_, off := r.offsets()
	return r.snapshot().Robot.Rotation.Float() - off
}

// XPosition and YPosition report the robot's position in millimeters,
// rotated into the frame established by the last heading reset.
func (r *Robot) XPosition() float64 {
	x, _ := r.position()
	return x
}

func (r *Robot) YPosition() float64 {
	_, y := r.position()
	return y
}

func (r *Robot) position() (float64, float64) {
	snap := r.snapshot()
	x := snap.Robot.X.Float()
	y := snap.Robot.Y.Float()
	off, _ := r.offsets()
	theta := -off * math.Pi / 180
	sin, cos := math.Sin(theta), math.Cos(theta)
	return x*cos + y*sin, y*cos - x*sin
}

// waitWhile polls active at the block cadence until it turns false, the
// context ends, or wait elapses. A false reading is re-checked once after a
// short debounce so one stale snapshot cannot end the wait early. Returns
// false on timeout.
func (r *Robot) waitWhile(ctx context.Context, wait time.Duration, active func() bool) bool {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if !active() {
			if !sleepCtx(ctx, blockDebounce) {
				return true
			}
			if !active() {
				return true
			}
		}
		if !sleepCtx(ctx, blockPollInterval) {
			return true
		}
	}
	return false
}

// blockWhile is waitWhile with the motion safety fallback: a wait that times
// out stops all movement before returning.
func (r *Robot) blockWhile(ctx context.Context, active func() bool) error {
	if r.waitWhile(ctx, r.blockWait, active) {
		return nil
	}
	r.logger.Warn("motion wait timed out, stopping robot")
	return r.StopAllMovement(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
