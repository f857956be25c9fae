package aim

import (
	"errors"

	"github.com/phoenix-dive/aimlink/internal/audio"
	"github.com/phoenix-dive/aimlink/internal/channel"
)

var (
	// ErrNoImage means no camera frame arrived within the image-fetch window.
	ErrNoImage = errors.New("no image available")

	// ErrNotReady means the robot produced no status snapshot after connecting.
	ErrNotReady = errors.New("robot sent no status after connect")

	// Re-exported so callers match errors without importing internal packages.
	ErrDisconnected     = channel.ErrDisconnected
	ErrInvalidSoundFile = audio.ErrInvalidSoundFile
	ErrSoundTooLarge    = audio.ErrSoundTooLarge
)
