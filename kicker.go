package aim

import (
	"context"

	"github.com/phoenix-dive/aimlink/internal/wire"
)

// Kicker fires the ball kicker at one of three fixed strengths.
type Kicker struct {
	robot *Robot
}

type KickStrength string

const (
	KickSoft   KickStrength = "kick_soft"
	KickMedium KickStrength = "kick_medium"
	KickHard   KickStrength = "kick_hard"
)

func (k *Kicker) Kick(ctx context.Context, strength KickStrength) error {
	return k.robot.send(ctx, wire.NewKick(string(strength)))
}

// Place nudges a held ball out without launching it.
func (k *Kicker) Place(ctx context.Context) error {
	return k.Kick(ctx, KickSoft)
}
