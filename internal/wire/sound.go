package wire

import "encoding/json"

type PlaySound struct {
	base
	Name   string `json:"name"`
	Volume int    `json:"volume"`
}

func NewPlaySound(name string, volume int) PlaySound {
	return PlaySound{base: base{"play_sound"}, Name: name, Volume: volume}
}

type PlayFile struct {
	base
	Name   string `json:"name"`
	Volume int    `json:"volume"`
}

func NewPlayFile(name string, volume int) PlayFile {
	return PlayFile{base: base{"play_file"}, Name: name, Volume: volume}
}

type PlayNote struct {
	base
	Note     int `json:"note"`
	Octave   int `json:"octave"`
	Duration int `json:"duration"`
	Volume   int `json:"volume"`
}

func NewPlayNote(note, octave, duration, volume int) PlayNote {
	return PlayNote{base: base{"play_note"}, Note: note, Octave: octave, Duration: duration, Volume: volume}
}

type StopSound struct{ base }

func NewStopSound() StopSound {
	return StopSound{base{"stop_sound"}}
}

// LightSet nests its RGB payload under a key named after the target light
// ("all", "light1".."light6"), so it marshals by hand.
type LightSet struct {
	Led string
	R   int
	G   int
	B   int
}

func NewLightSet(led string, r, g, b int) LightSet {
	return LightSet{Led: led, R: r, G: g, B: b}
}

func (l LightSet) ID() string { return "light_set" }

func (l LightSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"cmd_id": l.ID(),
		l.Led: map[string]int{
			"r": l.R,
			"g": l.G,
			"b": l.B,
		},
	})
}
