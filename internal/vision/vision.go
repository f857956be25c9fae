// Package vision turns the raw perception section of a status snapshot into
// filtered, sorted object lists.
package vision

import "github.com/phoenix-dive/aimlink/internal/status"

// Detection type bits as reported in each raw item's type field.
const (
	MaskColor uint32 = 1 << 0
	MaskCode  uint32 = 1 << 1
	MaskModel uint32 = 1 << 2
	MaskTag   uint32 = 1 << 3
	MaskAll   uint32 = 0x3F
)

// MatchAllID matches any object id within the selected kinds.
const MatchAllID = 0xFFFF

const (
	// MaxObjects is the device-side detection table size.
	MaxObjects = 24
	// DefaultCount is returned when the caller does not cap the result.
	DefaultCount = 8
)

type Kind uint8

const (
	KindColor Kind = iota
	KindCode
	KindModel
	KindTag
)

func (k Kind) Mask() uint32 {
	switch k {
	case KindColor:
		return MaskColor
	case KindCode:
		return MaskCode
	case KindModel:
		return MaskModel
	case KindTag:
		return MaskTag
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindCode:
		return "code"
	case KindModel:
		return "model"
	case KindTag:
		return "tag"
	}
	return "unknown"
}

func kindFromType(t int) (Kind, bool) {
	switch uint32(t) {
	case MaskColor:
		return KindColor, true
	case MaskCode:
		return KindCode, true
	case MaskModel:
		return KindModel, true
	case MaskTag:
		return KindTag, true
	}
	return 0, false
}

// Descriptor selects which detections a query returns.
type Descriptor struct {
	Mask uint32
	ID   int
}

func Color(id int) Descriptor { return Descriptor{Mask: MaskColor, ID: id} }
func Code(id int) Descriptor  { return Descriptor{Mask: MaskCode, ID: id} }
func Model(id int) Descriptor { return Descriptor{Mask: MaskModel, ID: id} }
func Tag(id int) Descriptor   { return Descriptor{Mask: MaskTag, ID: id} }

// AllColors, AllModels etc. match every id of one kind.
func AllOf(mask uint32) Descriptor { return Descriptor{Mask: mask, ID: MatchAllID} }

// Everything matches all kinds and ids.
func Everything() Descriptor { return Descriptor{Mask: MaskAll, ID: MatchAllID} }

type Point struct {
	X float64
	Y float64
}

// Detail carries the kind-specific fields of a detection.
type Detail interface{ detail() }

type ColorDetail struct{ Angle float64 }

type CodeDetail struct{ Angle float64 }

type ModelDetail struct {
	Score     float64
	ClassName string
}

type TagDetail struct{ Corners [4]Point }

func (ColorDetail) detail() {}
func (CodeDetail) detail()  {}
func (ModelDetail) detail() {}
func (TagDetail) detail()   {}

// Object is one fully derived detection.
type Object struct {
	Kind    Kind
	ID      int
	OriginX float64
	OriginY float64
	Width   float64
	Height  float64
	CenterX float64
	CenterY float64
	Area    float64
	Bearing float64
	Detail  Detail
}

// Bearing maps an image-plane center to a horizontal bearing in degrees,
// using the camera's calibration polynomial. Coefficients are fixed by the
// factory calibration; do not reorder the terms.
func Bearing(cx, cy float64) float64 {
	return -34.656 + cx*0.22539 + cy*0.011526 +
		cx*cx*(-0.000042011) + cx*cy*0.000010433 + cy*cy*(-0.00007073)
}

// Detect filters the snapshot's detections by descriptor, derives geometry
// and bearing, and returns up to count objects ordered by area, largest
// first. Equal areas keep their wire order.
func Detect(state status.VisionState, desc Descriptor, count int) []Object {
	objs, _ := Query(state, []Descriptor{desc}, count)
	return objs
}

// Query is Detect over a set of descriptors; an item matches if it matches
// any of them. The second result is the match count, capped at count.
func Query(state status.VisionState, descs []Descriptor, count int) ([]Object, int) {
	if count <= 0 {
		count = DefaultCount
	}
	if count > MaxObjects {
		count = MaxObjects
	}

	n := state.Objects.Count
	if n > len(state.Objects.Items) {
		n = len(state.Objects.Items)
	}

	var out []Object
	for _, raw := range state.Objects.Items[:n] {
		kind, ok := kindFromType(raw.Type)
		if !ok {
			continue
		}
		if !matchesAny(descs, kind, raw.ID) {
			continue
		}
		out = insertByArea(out, build(state, kind, raw))
	}
	matches := len(out)
	if matches > count {
		matches = count
		out = out[:count]
	}
	return out, matches
}

func matchesAny(descs []Descriptor, kind Kind, id int) bool {
	for _, desc := range descs {
		if kind.Mask()&desc.Mask == 0 {
			continue
		}
		if desc.ID == MatchAllID || id == desc.ID {
			return true
		}
	}
	return false
}

func build(state status.VisionState, kind Kind, raw status.Detection) Object {
	w, h := raw.Width.Float(), raw.Height.Float()
	cx := raw.OriginX.Float() + w/2
	cy := raw.OriginY.Float() + h/2
	obj := Object{
		Kind:    kind,
		ID:      raw.ID,
		OriginX: raw.OriginX.Float(),
		OriginY: raw.OriginY.Float(),
		Width:   w,
		Height:  h,
		CenterX: cx,
		CenterY: cy,
		Area:    w * h,
		Bearing: Bearing(cx, cy),
	}
	switch kind {
	case KindColor:
		// The device reports angle in centidegrees.
		obj.Detail = ColorDetail{Angle: raw.Angle.Float() * 0.01}
	case KindCode:
		obj.Detail = CodeDetail{Angle: raw.Angle.Float() * 0.01}
	case KindModel:
		obj.Detail = ModelDetail{Score: raw.Score.Float(), ClassName: state.ClassName(raw.ID)}
	case KindTag:
		obj.Detail = TagDetail{Corners: [4]Point{
			{raw.X0.Float(), raw.Y0.Float()},
			{raw.X1.Float(), raw.Y1.Float()},
			{raw.X2.Float(), raw.Y2.Float()},
			{raw.X3.Float(), raw.Y3.Float()},
		}}
	}
	return obj
}

// insertByArea places obj before the first element with a strictly smaller
// area, keeping ties in arrival order.
func insertByArea(objs []Object, obj Object) []Object {
	i := 0
	for i < len(objs) && objs[i].Area >= obj.Area {
		i++
	}
	objs = append(objs, Object{})
	copy(objs[i+1:], objs[i:])
	objs[i] = obj
	return objs
}

// Largest returns the biggest matching object, or false when none match.
func Largest(objs []Object) (Object, bool) {
	if len(objs) == 0 {
		return Object{}, false
	}
	return objs[0], true
}
