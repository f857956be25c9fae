package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/phoenix-dive/aimlink/internal/channel"
	"github.com/phoenix-dive/aimlink/internal/logging"
)

// wavFixture builds a minimal mono RIFF/WAVE header plus payload.
func wavFixture(channels uint16, extra int) []byte {
	data := make([]byte, 44+extra)
	copy(data[0:4], "RIFF")
	copy(data[8:12], "WAVE")
	binary.LittleEndian.PutUint16(data[22:24], channels)
	return data
}

func TestEncodePayloadHeaderLayout(t *testing.T) {
	data := wavFixture(1, 100)
	payload, err := EncodePayload("beep.wav", FormatWAV, 80, data)
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}

	if len(payload) != 64+len(data) {
		t.Fatalf("payload length = %d, want header + %d", len(payload), len(data))
	}
	if payload[0] != byte(FormatWAV) {
		t.Fatalf("format byte = %d, want %d", payload[0], FormatWAV)
	}
	if payload[1] != 80 {
		t.Fatalf("volume byte = %d, want 80", payload[1])
	}
	if got := binary.LittleEndian.Uint32(payload[4:8]); got != uint32(len(data)) {
		t.Fatalf("length field = %d, want %d", got, len(data))
	}
	if got := binary.LittleEndian.Uint32(payload[8:12]); got != 0 {
		t.Fatalf("chunk number field = %d, want 0", got)
	}
	name := strings.TrimRight(string(payload[32:64]), "\x00")
	if name != "beep.wav" {
		t.Fatalf("filename field = %q, want beep.wav", name)
	}
	if !bytes.Equal(payload[64:], data) {
		t.Fatal("file bytes not appended after header")
	}
}

func TestEncodePayloadStripsDirAndClampsVolume(t *testing.T) {
	payload, err := EncodePayload("sounds/long/beep.wav", FormatWAV, 250, wavFixture(2, 0))
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	if payload[1] != 100 {
		t.Fatalf("volume byte = %d, want clamped to 100", payload[1])
	}
	name := strings.TrimRight(string(payload[32:64]), "\x00")
	if name != "beep.wav" {
		t.Fatalf("filename field = %q, want base name only", name)
	}
}

func TestEncodePayloadFillsFullFilenameField(t *testing.T) {
	// 28 chars + ".wav" fills all 32 bytes with no terminator required.
	name := strings.Repeat("a", 28) + ".wav"
	payload, err := EncodePayload(name, FormatWAV, 50, wavFixture(1, 0))
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	if got := string(payload[32:64]); got != name {
		t.Fatalf("filename field = %q, want %q", got, name)
	}

	payload, err = EncodePayload(strings.Repeat("b", 40)+".wav", FormatWAV, 50, wavFixture(1, 0))
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	if got := string(payload[32:64]); got != strings.Repeat("b", 32) {
		t.Fatalf("filename field = %q, want the first 32 bytes", got)
	}
}

func TestEncodePayloadRejectsOversizedFile(t *testing.T) {
	_, err := EncodePayload("big.mp3", FormatMP3, 50, make([]byte, MaxFileBytes+1))
	if !errors.Is(err, ErrSoundTooLarge) {
		t.Fatalf("error = %v, want ErrSoundTooLarge", err)
	}
}

func TestValidateWAV(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"mono", wavFixture(1, 0), true},
		{"stereo", wavFixture(2, 0), true},
		{"surround", wavFixture(6, 0), false},
		{"zero channels", wavFixture(0, 0), false},
		{"truncated", []byte("RIFF"), false},
		{"wrong magic", make([]byte, 44), false},
	}
	for _, tc := range cases {
		err := validateWAV(tc.data)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidSoundFile) {
			t.Errorf("%s: error = %v, want ErrInvalidSoundFile", tc.name, err)
		}
	}
}

func TestValidateMP3(t *testing.T) {
	if err := validateMP3([]byte("ID3\x04rest")); err != nil {
		t.Fatalf("ID3 tagged file rejected: %v", err)
	}
	if err := validateMP3([]byte{0xFF, 0xFB, 0x90, 0x00}); err != nil {
		t.Fatalf("frame-sync file rejected: %v", err)
	}
	if err := validateMP3([]byte("RIFF....")); !errors.Is(err, ErrInvalidSoundFile) {
		t.Fatalf("error = %v, want ErrInvalidSoundFile", err)
	}
}

func TestDetectFormat(t *testing.T) {
	if f, err := DetectFormat("a/b/Beep.WAV"); err != nil || f != FormatWAV {
		t.Fatalf("DetectFormat(wav) = %v, %v", f, err)
	}
	if f, err := DetectFormat("tune.mp3"); err != nil || f != FormatMP3 {
		t.Fatalf("DetectFormat(mp3) = %v, %v", f, err)
	}
	if _, err := DetectFormat("voice.ogg"); !errors.Is(err, ErrInvalidSoundFile) {
		t.Fatalf("DetectFormat(ogg) error = %v, want ErrInvalidSoundFile", err)
	}
}

func TestUploadSendsOneBinaryFrame(t *testing.T) {
	sock := channel.NewFakeSocket()
	dialer := channel.NewFakeDialer(sock)
	logger := logging.NewLogger(logging.Options{Writer: io.Discard, Channel: "ws_audio"})
	conn := channel.Dial(context.Background(), "robot.test", "ws_audio", dialer, logger)
	w := NewWorker(conn, logger)

	if err := w.Upload(context.Background(), "beep.wav", FormatWAV, 50, wavFixture(1, 8)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	writes := sock.Writes()
	if len(writes) != 1 || !writes[0].Binary {
		t.Fatalf("writes = %+v, want one binary frame", writes)
	}
	if len(writes[0].Payload) != 64+44+8 {
		t.Fatalf("frame length = %d, want 64-byte header plus file", len(writes[0].Payload))
	}
}
