package aim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phoenix-dive/aimlink/internal/audio"
	"github.com/phoenix-dive/aimlink/internal/status"
	"github.com/phoenix-dive/aimlink/internal/wire"
)

// Sound plays built-in sounds, synthesized notes and uploaded files.
type Sound struct {
	robot *Robot
}

// PlayBuiltin plays one of the sounds baked into the firmware.
func (s *Sound) PlayBuiltin(ctx context.Context, name string, volume int) error {
	return s.robot.send(ctx, wire.NewPlaySound(name, volume))
}

// PlayNote plays a note written as letter, optional accidental and octave
// 5-8 ("C5", "F#6", "Ab7"). Duration is capped at 4000 ms, volume at 100.
func (s *Sound) PlayNote(ctx context.Context, note string, durationMs, volume int) error {
	idx, octave, err := parseNote(note)
	if err != nil {
		return err
	}
	if durationMs > 4000 {
		durationMs = 4000
	}
	if volume < 0 {
		volume = 0
	} else if volume > 100 {
		volume = 100
	}
	return s.robot.send(ctx, wire.NewPlayNote(idx, octave, durationMs, volume))
}

// PlayFile uploads a local WAV or MP3 file over the audio channel, waits
// for the device to finish storing it, then starts playback.
func (s *Sound) PlayFile(ctx context.Context, path string, volume int) error {
	format, err := audio.DetectFormat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := s.robot.audioWorker.Upload(ctx, path, format, volume, data); err != nil {
		return err
	}

	// The device raises its download flag while storing the file; assert it
	// locally so the wait below cannot finish before the flag first appears.
	shadow := s.robot.statusWorker.Shadow()
	shadow.RequestSet(status.FlagSoundDownloading)
	if !s.robot.waitWhile(ctx, s.robot.blockWait, s.IsDownloading) {
		shadow.Cancel(status.FlagSoundDownloading)
		return fmt.Errorf("sound upload %s: device did not finish storing", filepath.Base(path))
	}

	return s.robot.send(ctx, wire.NewPlayFile(filepath.Base(path), volume))
}

// Stop cancels any playing sound.
func (s *Sound) Stop(ctx context.Context) error {
	return s.robot.send(ctx, wire.NewStopSound())
}

// IsActive reports whether a sound is playing.
func (s *Sound) IsActive() bool {
	return s.robot.snapshot().Robot.Flags.Has(status.FlagSoundPlaying)
}

// IsDownloading reports whether an uploaded file is still being stored.
func (s *Sound) IsDownloading() bool {
	return s.robot.snapshot().Robot.Flags.Has(status.FlagSoundDownloading)
}

// noteOffsets maps a note letter to its semitone within the octave.
var noteOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// parseNote converts a note string into the device's semitone index (0..11,
// C = 0) and wire octave. Written octaves 5-8 map to 0-3; accidentals
// saturate at the octave boundaries rather than wrapping into the next one.
func parseNote(note string) (int, int, error) {
	if len(note) != 2 && len(note) != 3 {
		return 0, 0, fmt.Errorf("bad note %q: want letter, optional accidental, octave 5-8", note)
	}
	letter := note[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	semitone, ok := noteOffsets[letter]
	if !ok {
		return 0, 0, fmt.Errorf("bad note %q: unknown letter %q", note, note[0])
	}
	oct := note[len(note)-1]
	if oct < '5' || oct > '8' {
		return 0, 0, fmt.Errorf("bad note %q: octave must be 5-8", note)
	}
	if len(note) == 3 {
		switch note[1] {
		case '#':
			if semitone < 11 {
				semitone++
			}
		case 'b':
			if semitone > 0 {
				semitone--
			}
		default:
			return 0, 0, fmt.Errorf("bad note %q: accidental must be # or b", note)
		}
	}
	return semitone, int(oct - '5'), nil
}
