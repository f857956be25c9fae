// Package wire defines the JSON payloads exchanged on the robot's command
// channel. Builders are stateless value objects; each serializes to a
// cmd_id plus its parameters and is consumed exactly once by the command
// worker.
package wire

import "encoding/json"

type Command interface {
	ID() string
}

// Encode renders a command to its wire form (compact JSON).
func Encode(cmd Command) ([]byte, error) {
	return json.Marshal(cmd)
}

type base struct {
	CmdID string `json:"cmd_id"`
}

func (b base) ID() string { return b.CmdID }

// Command ids that drive the wheels; a complete/in_progress response to one
// of these triggers a shadow-flag override on the status side.
var (
	moveClass = map[string]bool{"drive": true, "drive_for": true}
	turnClass = map[string]bool{"turn": true, "turn_for": true, "turn_to": true}
)

func IsMoveClass(id string) bool { return moveClass[id] }
func IsTurnClass(id string) bool { return turnClass[id] }
func IsMotionClass(id string) bool {
	return moveClass[id] || turnClass[id]
}

type ProgramInit struct{ base }

func NewProgramInit() ProgramInit {
	return ProgramInit{base{"program_init"}}
}

type Drive struct {
	base
	Angle        float64 `json:"angle"`
	Speed        float64 `json:"speed"`
	StackingType int     `json:"stacking_type"`
}

func NewDrive(angle, speed float64) Drive {
	return Drive{base: base{"drive"}, Angle: angle, Speed: speed}
}

type DriveFor struct {
	base
	Distance     float64 `json:"distance"`
	Angle        float64 `json:"angle"`
	FinalHeading float64 `json:"final_heading"`
	DriveSpeed   float64 `json:"drive_speed"`
	TurnSpeed    float64 `json:"turn_speed"`
	StackingType int     `json:"stacking_type"`
}

func NewDriveFor(distance, angle, driveSpeed, turnSpeed float64) DriveFor {
	return DriveFor{base: base{"drive_for"}, Distance: distance, Angle: angle, DriveSpeed: driveSpeed, TurnSpeed: turnSpeed}
}

type DriveWithVector struct {
	base
	X float64 `json:"x"`
	T float64 `json:"t"`
	R float64 `json:"r"`
}

func NewDriveWithVector(x, t, r float64) DriveWithVector {
	return DriveWithVector{base: base{"drive_with_vector"}, X: x, T: t, R: r}
}

type Turn struct {
	base
	TurnRate     float64 `json:"turn_rate"`
	StackingType int     `json:"stacking_type"`
}

func NewTurn(turnRate float64) Turn {
	return Turn{base: base{"turn"}, TurnRate: turnRate}
}

type TurnTo struct {
	base
	Heading      float64 `json:"heading"`
	TurnRate     float64 `json:"turn_rate"`
	StackingType int     `json:"stacking_type"`
}

func NewTurnTo(heading, turnRate float64) TurnTo {
	return TurnTo{base: base{"turn_to"}, Heading: heading, TurnRate: turnRate}
}

type TurnFor struct {
	base
	Angle        float64 `json:"angle"`
	TurnRate     float64 `json:"turn_rate"`
	StackingType int     `json:"stacking_type"`
}

func NewTurnFor(angle, turnRate float64) TurnFor {
	return TurnFor{base: base{"turn_for"}, Angle: angle, TurnRate: turnRate}
}

type SpinWheels struct {
	base
	Vel1 int `json:"vel1"`
	Vel2 int `json:"vel2"`
	Vel3 int `json:"vel3"`
}

func NewSpinWheels(vel1, vel2, vel3 int) SpinWheels {
	return SpinWheels{base: base{"spin_wheels"}, Vel1: vel1, Vel2: vel2, Vel3: vel3}
}

type SetPose struct {
	base
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewSetPose(x, y float64) SetPose {
	return SetPose{base: base{"set_pose"}, X: x, Y: y}
}

type InertialCalibrate struct{ base }

func NewInertialCalibrate() InertialCalibrate {
	return InertialCalibrate{base{"imu_calibrate"}}
}

type SetCrashSensitivity struct {
	base
	Sensitivity int `json:"sensitivity"`
}

func NewSetCrashSensitivity(sensitivity int) SetCrashSensitivity {
	return SetCrashSensitivity{base: base{"imu_set_crash_threshold"}, Sensitivity: sensitivity}
}

// Kick's strength is carried in the command id itself.
type Kick struct{ base }

func NewKick(kickID string) Kick {
	return Kick{base{kickID}}
}
