// Package voicesynth defines the request/outcome contract for voice
// synthesis backends. The backend performs playback itself; an outcome is a
// success marker plus logging detail, never an audio artifact.
package voicesynth

// CharacterInfo is the wire shape of a fully-resolved character profile.
// Every field must be populated before dispatch.
type CharacterInfo struct {
	Name        string `json:"name"`
	Faction     string `json:"faction"`
	Personality string `json:"personality"`
}

// Request carries one line to synthesize. Volume is the mod-settings volume
// in [0, 100].
type Request struct {
	Text          string        `json:"text"`
	CharacterInfo CharacterInfo `json:"character_info"`
	Volume        int           `json:"mcm_volume"`
}

// StatusPlaying is the only response status recognized as success.
const StatusPlaying = "playing"

// Outcome is a decoded synthesis response. Raw retains the payload bytes so
// unrecognized shapes can be logged verbatim.
type Outcome struct {
	Status        string
	Text          string
	AppliedVolume *float64
	Raw           []byte
}

// Playing reports whether the backend acknowledged playback. Anything but
// the recognized marker, including a well-formed but unknown payload, is a
// failure.
func (o Outcome) Playing() bool {
	return o.Status == StatusPlaying
}
