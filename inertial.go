package aim

import (
	"context"
	"math"

	"github.com/phoenix-dive/aimlink/internal/status"
	"github.com/phoenix-dive/aimlink/internal/wire"
)

// Inertial reads the IMU section of the status snapshot.
type Inertial struct {
	robot *Robot
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Roll, Pitch and Yaw return degrees rounded to two decimals, matching the
// sensor's useful resolution.
func (i *Inertial) Roll() float64  { return round2(i.robot.snapshot().Robot.Roll.Float()) }
func (i *Inertial) Pitch() float64 { return round2(i.robot.snapshot().Robot.Pitch.Float()) }
func (i *Inertial) Yaw() float64   { return round2(i.robot.snapshot().Robot.Yaw.Float()) }

// Acceleration returns the accelerometer vector in g.
func (i *Inertial) Acceleration() (x, y, z float64) {
	a := i.robot.snapshot().Robot.Acceleration
	return a.X.Float(), a.Y.Float(), a.Z.Float()
}

// GyroRate returns the gyroscope vector in deg/s.
func (i *Inertial) GyroRate() (x, y, z float64) {
	g := i.robot.snapshot().Robot.GyroRate
	return g.X.Float(), g.Y.Float(), g.Z.Float()
}

// IsCalibrating reports whether an IMU calibration is in progress.
func (i *Inertial) IsCalibrating() bool {
	return i.robot.snapshot().Robot.Flags.Has(status.FlagIMUCalibrating)
}

// Calibrate starts an IMU calibration and waits for it to finish. The robot
// must stay still while calibrating.
func (i *Inertial) Calibrate(ctx context.Context) error {
	if err := i.robot.send(ctx, wire.NewInertialCalibrate()); err != nil {
		return err
	}
	i.robot.waitWhile(ctx, i.robot.blockWait, i.IsCalibrating)
	return nil
}
