package aim

import (
	"context"
	"sync"
	"time"

	"github.com/phoenix-dive/aimlink/internal/vision"
	"github.com/phoenix-dive/aimlink/internal/wire"
)

// Aliases so callers can name perception types without reaching into
// internal packages.
type (
	Object      = vision.Object
	Descriptor  = vision.Descriptor
	ColorDetail = vision.ColorDetail
	CodeDetail  = vision.CodeDetail
	ModelDetail = vision.ModelDetail
	TagDetail   = vision.TagDetail
)

// Wildcard descriptors, one per detection kind plus the catch-all.
var (
	AllObjects = vision.Everything()
	AllColors  = vision.AllOf(vision.MaskColor)
	AllCodes   = vision.AllOf(vision.MaskCode)
	AllModels  = vision.AllOf(vision.MaskModel)
	AllTags    = vision.AllOf(vision.MaskTag)
)

func ColorObject(id int) Descriptor { return vision.Color(id) }
func CodeObject(id int) Descriptor  { return vision.Code(id) }
func ModelObject(id int) Descriptor { return vision.Model(id) }
func TagObject(id int) Descriptor   { return vision.Tag(id) }

// Class ids of the built-in detection model.
const (
	ClassSportsBall   = 0
	ClassBlueBarrel   = 1
	ClassOrangeBarrel = 2
	ClassRobot        = 3
)

const (
	imageFetchTimeout = 500 * time.Millisecond
	imagePollInterval = 20 * time.Millisecond
)

// Image-plane thresholds for "object is close enough to interact with":
// object origin near the bottom of the frame, center strictly inside the
// approach band.
const (
	barrelMinOriginY = 160.0
	ballMinOriginY   = 170.0
	approachMinX     = 120.0
	approachMaxX     = 200.0
)

// Vision queries the perception section of the status snapshot and fetches
// camera frames.
type Vision struct {
	robot *Robot

	mu      sync.Mutex
	largest *Object
	count   int
}

// GetData returns up to count detections matching any of the descriptors,
// largest first. No descriptors means everything. It also refreshes the
// LargestObject and ObjectCount caches.
func (v *Vision) GetData(count int, descs ...Descriptor) []Object {
	if len(descs) == 0 {
		descs = []Descriptor{AllObjects}
	}
	objs, matches := vision.Query(v.robot.snapshot().Vision, descs, count)

	v.mu.Lock()
	v.count = matches
	if len(objs) > 0 {
		first := objs[0]
		v.largest = &first
	} else {
		v.largest = nil
	}
	v.mu.Unlock()
	return objs
}

// LargestObject returns the biggest match of the most recent GetData call.
func (v *Vision) LargestObject() (Object, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.largest == nil {
		return Object{}, false
	}
	return *v.largest, true
}

// ObjectCount returns the match count of the most recent GetData call,
// capped at its requested count.
func (v *Vision) ObjectCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.count
}

// GetImage returns the newest camera frame, starting the stream on first
// use. It waits briefly for a frame; a stream that stays silent or
// interrupted yields ErrNoImage.
func (v *Vision) GetImage(ctx context.Context) ([]byte, error) {
	if err := v.robot.imageWorker.Start(ctx); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(imageFetchTimeout)
	for {
		if frame := v.robot.imageWorker.Latest(); len(frame) > 1 {
			return frame, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrNoImage
		}
		if !sleepCtx(ctx, imagePollInterval) {
			return nil, ctx.Err()
		}
	}
}

// StopImageStream turns the camera stream back off.
func (v *Vision) StopImageStream(ctx context.Context) error {
	return v.robot.imageWorker.Stop(ctx)
}

func (v *Vision) EnableColorDetection(ctx context.Context, merge bool) error {
	return v.robot.send(ctx, wire.NewColorDetection(true, merge))
}

func (v *Vision) DisableColorDetection(ctx context.Context) error {
	return v.robot.send(ctx, wire.NewColorDetection(false, false))
}

func (v *Vision) EnableTagDetection(ctx context.Context) error {
	return v.robot.send(ctx, wire.NewTagDetection(true))
}

func (v *Vision) DisableTagDetection(ctx context.Context) error {
	return v.robot.send(ctx, wire.NewTagDetection(false))
}

func (v *Vision) EnableModelDetection(ctx context.Context) error {
	return v.robot.send(ctx, wire.NewModelDetection(true))
}

func (v *Vision) DisableModelDetection(ctx context.Context) error {
	return v.robot.send(ctx, wire.NewModelDetection(false))
}

// ConfigureColor teaches the device a color signature to detect.
func (v *Vision) ConfigureColor(ctx context.Context, id int, c Color, hueRange, satRange float64) error {
	return v.robot.send(ctx, wire.NewColorDescription(id, c.R, c.G, c.B, hueRange, satRange))
}

// ConfigureCode defines a color code as an ordered set of configured colors.
func (v *Vision) ConfigureCode(ctx context.Context, id int, colorIDs ...int) error {
	return v.robot.send(ctx, wire.NewCodeDescription(id, colorIDs...))
}

// ShowOverlay and HideOverlay toggle the detection overlay on the LCD.
func (v *Vision) ShowOverlay(ctx context.Context) error {
	return v.robot.send(ctx, wire.NewShowAIVision())
}

func (v *Vision) HideOverlay(ctx context.Context) error {
	return v.robot.send(ctx, wire.NewHideAIVision())
}

// HasSportsBall reports whether a sports ball sits in the approach zone,
// close and centered enough to pick up.
func (v *Vision) HasSportsBall() bool {
	for _, obj := range v.GetData(0, ModelObject(ClassSportsBall)) {
		if obj.OriginY > ballMinOriginY && inApproachZone(obj.CenterX) {
			return true
		}
	}
	return false
}

// HasAnyBarrel reports whether either barrel type sits in the approach zone.
func (v *Vision) HasAnyBarrel() bool {
	objs := v.GetData(0, ModelObject(ClassBlueBarrel), ModelObject(ClassOrangeBarrel))
	for _, obj := range objs {
		if obj.OriginY > barrelMinOriginY && inApproachZone(obj.CenterX) {
			return true
		}
	}
	return false
}

func inApproachZone(cx float64) bool {
	return cx > approachMinX && cx < approachMaxX
}
