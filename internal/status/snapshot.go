// Package status maintains the latest fully-decoded device snapshot, the
// shadow-flag overrides that mask device reporting latency, and the
// edge-triggered callbacks derived from snapshot transitions.
package status

import (
	"fmt"
	"strconv"
	"strings"
)

// Robot system flags, bit positions fixed by the firmware.
const (
	FlagSoundPlaying     uint32 = 1 << 0
	FlagMoveActive       uint32 = 1 << 1
	FlagIMUCalibrating   uint32 = 1 << 3
	FlagTurnActive       uint32 = 1 << 4
	FlagMoving           uint32 = 1 << 5
	FlagCrashed          uint32 = 1 << 6
	FlagShake            uint32 = 1 << 8
	FlagPowerButton      uint32 = 1 << 9
	FlagProgramActive    uint32 = 1 << 10
	FlagSoundDownloading uint32 = 1 << 16
)

// Touch flag bits.
const TouchPressed uint32 = 0x0001

// Scalar decodes numeric fields that the firmware sometimes quotes
// ("roll": "0" and "roll": 0 both occur on the wire).
type Scalar float64

func (s *Scalar) UnmarshalJSON(b []byte) error {
	str := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if str == "" || str == "null" {
		*s = 0
		return nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("status: bad scalar %q: %w", str, err)
	}
	*s = Scalar(v)
	return nil
}

func (s Scalar) Float() float64 { return float64(s) }
func (s Scalar) Int() int       { return int(s) }

// HexFlags decodes the firmware's packed bit-flags, sent as a hex string
// like "0x00000400".
type HexFlags uint32

func (f *HexFlags) UnmarshalJSON(b []byte) error {
	str := strings.Trim(strings.TrimSpace(string(b)), `"`)
	str = strings.TrimPrefix(strings.ToLower(str), "0x")
	if str == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(str, 16, 32)
	if err != nil {
		return fmt.Errorf("status: bad flags %q: %w", str, err)
	}
	*f = HexFlags(v)
	return nil
}

func (f HexFlags) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"0x%08x"`, uint32(f))), nil
}

func (f HexFlags) Has(bit uint32) bool { return uint32(f)&bit != 0 }

// Snapshot is the latest device status. It is replaced wholesale on every
// successful receive and never mutated in place, so readers always observe a
// consistent view.
type Snapshot struct {
	Controller ControllerState `json:"controller"`
	Robot      RobotState      `json:"robot"`
	Vision     VisionState     `json:"aivision"`
}

type ControllerState struct {
	Flags   HexFlags `json:"flags"`
	StickX  Scalar   `json:"stick_x"`
	StickY  Scalar   `json:"stick_y"`
	Battery Scalar   `json:"battery"`
}

type RobotState struct {
	Flags        HexFlags `json:"flags"`
	Battery      Scalar   `json:"battery"`
	TouchFlags   HexFlags `json:"touch_flags"`
	TouchX       Scalar   `json:"touch_x"`
	TouchY       Scalar   `json:"touch_y"`
	X            Scalar   `json:"robot_x"`
	Y            Scalar   `json:"robot_y"`
	Roll         Scalar   `json:"roll"`
	Pitch        Scalar   `json:"pitch"`
	Yaw          Scalar   `json:"yaw"`
	Heading      Scalar   `json:"heading"`
	Rotation     Scalar   `json:"rotation"`
	Acceleration Vec3     `json:"acceleration"`
	GyroRate     Vec3     `json:"gyro_rate"`
	Screen       Cursor   `json:"screen"`
}

type Vec3 struct {
	X Scalar `json:"x"`
	Y Scalar `json:"y"`
	Z Scalar `json:"z"`
}

type Cursor struct {
	Row    Scalar `json:"row"`
	Column Scalar `json:"column"`
}

type VisionState struct {
	ClassNames ClassNameTable `json:"classnames"`
	Objects    DetectionList  `json:"objects"`
}

type ClassNameTable struct {
	Count int         `json:"count"`
	Items []ClassName `json:"items"`
}

type ClassName struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type DetectionList struct {
	Count int         `json:"count"`
	Items []Detection `json:"items"`
}

// Detection is one raw item from the perception section; kind-specific
// fields (score, angle, tag corners) are only meaningful for their kind.
type Detection struct {
	Type    int    `json:"type"`
	ID      int    `json:"id"`
	OriginX Scalar `json:"originx"`
	OriginY Scalar `json:"originy"`
	Width   Scalar `json:"width"`
	Height  Scalar `json:"height"`
	Score   Scalar `json:"score"`
	Angle   Scalar `json:"angle"`
	X0      Scalar `json:"x0"`
	Y0      Scalar `json:"y0"`
	X1      Scalar `json:"x1"`
	Y1      Scalar `json:"y1"`
	X2      Scalar `json:"x2"`
	Y2      Scalar `json:"y2"`
	X3      Scalar `json:"x3"`
	Y3      Scalar `json:"y3"`
}

// ClassName resolves a model object's class id to its configured name.
func (v VisionState) ClassName(id int) string {
	if id < 0 || id >= len(v.ClassNames.Items) {
		return ""
	}
	return v.ClassNames.Items[id].Name
}

// Empty returns the canonical zeroed snapshot, published when the status
// link is down long enough that stale data would mislead readers. The
// default class-name table matches the firmware's built-in model.
func Empty() *Snapshot {
	return &Snapshot{
		Vision: VisionState{
			ClassNames: ClassNameTable{
				Count: 4,
				Items: []ClassName{
					{Index: 0, Name: "SportsBall"},
					{Index: 1, Name: "BlueBarrel"},
					{Index: 2, Name: "OrangeBarrel"},
					{Index: 3, Name: "Robot"},
				},
			},
		},
	}
}
