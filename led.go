package aim

import (
	"context"

	"github.com/phoenix-dive/aimlink/internal/wire"
)

// Led addresses the six body lights, individually or all at once.
type Led struct {
	robot *Robot
}

const (
	LedAll = "all"
	Led1   = "light1"
	Led2   = "light2"
	Led3   = "light3"
	Led4   = "light4"
	Led5   = "light5"
	Led6   = "light6"
)

func (l *Led) On(ctx context.Context, led string, c Color) error {
	return l.robot.send(ctx, wire.NewLightSet(led, c.R, c.G, c.B))
}

func (l *Led) Off(ctx context.Context, led string) error {
	return l.robot.send(ctx, wire.NewLightSet(led, 0, 0, 0))
}
