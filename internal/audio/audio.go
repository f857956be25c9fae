// Package audio uploads sound files over the audio channel. The device
// expects one binary frame per file: a fixed 64-byte header followed by the
// raw file bytes, which it fetches in fixed-size chunks.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path"
	"strings"
)

type Format byte

const (
	FormatWAV Format = 0
	FormatMP3 Format = 1
)

const (
	headerSize = 64

	// filenames occupy header bytes 32..63, null padded when shorter.
	filenameOffset = 32
	maxFilename    = 32

	// MaxFileBytes is the device-side buffer limit.
	MaxFileBytes = 255 * 1024
)

var (
	ErrInvalidSoundFile = errors.New("invalid sound file")
	ErrSoundTooLarge    = errors.New("sound file exceeds device buffer")
)

// DetectFormat maps a filename extension to the wire format byte.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".wav":
		return FormatWAV, nil
	case ".mp3":
		return FormatMP3, nil
	default:
		return 0, fmt.Errorf("%w: unsupported extension %q", ErrInvalidSoundFile, path.Ext(name))
	}
}

// EncodePayload validates the file and frames it for upload. Volume is
// clamped to 0..100.
func EncodePayload(name string, format Format, volume int, data []byte) ([]byte, error) {
	if len(data) > MaxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrSoundTooLarge, len(data), MaxFileBytes)
	}
	if err := validate(format, data); err != nil {
		return nil, err
	}
	base := path.Base(name)
	if len(base) > maxFilename {
		base = base[:maxFilename]
	}
	if volume < 0 {
		volume = 0
	} else if volume > 100 {
		volume = 100
	}

	payload := make([]byte, headerSize+len(data))
	payload[0] = byte(format)
	payload[1] = byte(volume)
	binary.LittleEndian.PutUint32(payload[4:8], uint32(len(data)))
	// bytes 8:12 are the file chunk number, always zero for a single upload.
	copy(payload[filenameOffset:headerSize], base)
	copy(payload[headerSize:], data)
	return payload, nil
}

func validate(format Format, data []byte) error {
	switch format {
	case FormatWAV:
		return validateWAV(data)
	case FormatMP3:
		return validateMP3(data)
	default:
		return fmt.Errorf("%w: unknown format %d", ErrInvalidSoundFile, format)
	}
}

// validateWAV requires a RIFF/WAVE container with at most two channels; the
// device cannot mix more.
func validateWAV(data []byte) error {
	if len(data) < 44 {
		return fmt.Errorf("%w: truncated wav", ErrInvalidSoundFile)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return fmt.Errorf("%w: not a RIFF/WAVE container", ErrInvalidSoundFile)
	}
	channels := binary.LittleEndian.Uint16(data[22:24])
	if channels == 0 || channels > 2 {
		return fmt.Errorf("%w: %d channels, device plays at most 2", ErrInvalidSoundFile, channels)
	}
	return nil
}

func validateMP3(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("%w: truncated mp3", ErrInvalidSoundFile)
	}
	if string(data[0:3]) == "ID3" {
		return nil
	}
	if data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return nil
	}
	return fmt.Errorf("%w: no mp3 frame sync or ID3 tag", ErrInvalidSoundFile)
}
