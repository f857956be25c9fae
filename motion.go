package aim

import (
	"context"
	"math"

	"github.com/phoenix-dive/aimlink/internal/status"
	"github.com/phoenix-dive/aimlink/internal/wire"
)

// Velocity percentages map onto the drivetrain's physical limits: 100%
// drive is 200 mm/s, 100% turn is 180 deg/s. Unspecified velocities fall
// back to the device defaults, already in physical units.
const (
	mmPerSecondAtFull  = 200.0
	degPerSecondAtFull = 180.0

	DefaultDriveSpeed = 100.0 // millimeters per second
	DefaultTurnRate   = 75.0  // degrees per second
)

type TurnDirection int

const (
	TurnLeft TurnDirection = iota
	TurnRight
)

func (d TurnDirection) sign() float64 {
	if d == TurnLeft {
		return -1
	}
	return 1
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func driveSpeed(pct float64) float64 {
	if pct <= 0 {
		return DefaultDriveSpeed
	}
	return clampPercent(pct) * mmPerSecondAtFull / 100
}

func turnRate(pct float64) float64 {
	if pct <= 0 {
		return DefaultTurnRate
	}
	return clampPercent(pct) * degPerSecondAtFull / 100
}

// MoveAt drives continuously toward angle (degrees, robot-relative) until
// stopped. velocityPct <= 0 selects the default drive velocity.
func (r *Robot) MoveAt(ctx context.Context, angle, velocityPct float64) error {
	return r.send(ctx, wire.NewDrive(angle, driveSpeed(velocityPct)))
}

// MoveFor drives distance millimeters toward angle. With wait it blocks
// until the move finishes, with the usual stop-on-timeout fallback.
func (r *Robot) MoveFor(ctx context.Context, distance, angle, velocityPct float64, wait bool) error {
	cmd := wire.NewDriveFor(distance, angle, driveSpeed(velocityPct), turnRate(0))
	if err := r.send(ctx, cmd); err != nil {
		return err
	}
	if !wait {
		return nil
	}
	return r.blockWhile(ctx, r.IsMoveActive)
}

// MoveWithVectors drives along the (x, y) percent vector while rotating at
// rotationPct (signed, positive clockwise).
func (r *Robot) MoveWithVectors(ctx context.Context, x, y, rotationPct float64) error {
	magnitude := clampPercent(math.Hypot(x, y))
	angle := math.Atan2(x, y) * 180 / math.Pi
	rot := turnRate(math.Abs(rotationPct))
	if rotationPct < 0 {
		rot = -rot
	}
	if rotationPct == 0 {
		rot = 0
	}
	return r.send(ctx, wire.NewDriveWithVector(magnitude*mmPerSecondAtFull/100, angle, rot))
}

// Turn rotates continuously in the given direction until stopped.
func (r *Robot) Turn(ctx context.Context, direction TurnDirection, velocityPct float64) error {
	return r.send(ctx, wire.NewTurn(direction.sign()*turnRate(velocityPct)))
}

// TurnFor rotates by angle degrees in the given direction.
func (r *Robot) TurnFor(ctx context.Context, direction TurnDirection, angle, velocityPct float64, wait bool) error {
	cmd := wire.NewTurnFor(direction.sign()*angle, turnRate(velocityPct))
	if err := r.send(ctx, cmd); err != nil {
		return err
	}
	if !wait {
		return nil
	}
	return r.blockWhile(ctx, r.IsTurnActive)
}

// TurnTo rotates to an absolute heading in the frame established by the
// last heading reset.
func (r *Robot) TurnTo(ctx context.Context, heading, velocityPct float64, wait bool) error {
	off, _ := r.offsets()
	target := math.Mod(heading+off, 360)
	if target < 0 {
		target += 360
	}
	if err := r.send(ctx, wire.NewTurnTo(target, turnRate(velocityPct))); err != nil {
		return err
	}
	if !wait {
		return nil
	}
	return r.blockWhile(ctx, r.IsTurnActive)
}

// SpinWheels drives the three omni wheels directly, in percent.
func (r *Robot) SpinWheels(ctx context.Context, v1, v2, v3 int) error {
	return r.send(ctx, wire.NewSpinWheels(v1, v2, v3))
}

// StopAllMovement halts the drivetrain immediately. The device has no
// dedicated stop command, so it is a zero-speed drive plus a zero-rate
// turn; the motion flags are cleared locally right away so IsStopped
// reports true before the next snapshot lands.
func (r *Robot) StopAllMovement(ctx context.Context) error {
	if err := r.send(ctx, wire.NewDrive(0, 0)); err != nil {
		return err
	}
	if err := r.send(ctx, wire.NewTurn(0)); err != nil {
		return err
	}
	shadow := r.statusWorker.Shadow()
	shadow.RequestClear(status.FlagMoveActive)
	shadow.RequestClear(status.FlagTurnActive)
	shadow.RequestClear(status.FlagMoving)
	return nil
}

// SetXYPosition overwrites the robot's odometry position, expressed in the
// caller's frame in millimeters. The coordinates are rotated back into the
// device frame, then two status heartbeats are awaited so subsequent
// position reads reflect the new pose.
func (r *Robot) SetXYPosition(ctx context.Context, x, y float64) error {
	off, _ := r.offsets()
	theta := -off * math.Pi / 180
	deviceX := x*math.Cos(theta) - y*math.Sin(theta)
	deviceY := y*math.Cos(theta) + x*math.Sin(theta)
	if err := r.send(ctx, wire.NewSetPose(deviceX, deviceY)); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		mark := r.statusWorker.Heartbeat()
		for r.statusWorker.Heartbeat() == mark {
			if !sleepCtx(ctx, status.PollInterval) {
				return ctx.Err()
			}
		}
	}
	return nil
}

// IsMoveActive reports whether a drive-class command is still running.
func (r *Robot) IsMoveActive() bool {
	return r.snapshot().Robot.Flags.Has(status.FlagMoveActive)
}

// IsTurnActive reports whether a turn-class command is still running.
func (r *Robot) IsTurnActive() bool {
	return r.snapshot().Robot.Flags.Has(status.FlagTurnActive)
}

// IsMoving reports whether the drivetrain is in motion at all.
func (r *Robot) IsMoving() bool {
	return r.snapshot().Robot.Flags.Has(status.FlagMoving)
}

// IsStopped is the inverse of IsMoving, except that a stop command already
// sent counts as stopped even before the device confirms it.
func (r *Robot) IsStopped() bool {
	if r.statusWorker.Shadow().PendingClear(status.FlagMoving) {
		return true
	}
	return !r.IsMoving()
}
