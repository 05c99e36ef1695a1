// Package settings models the host's mod-settings surface as an optional
// capability. Values may be absent (key never set, menu not installed, or no
// provider at all); every read resolves to an explicit default instead of
// failing.
package settings

// Provider exposes the host's settings storage. The second return reports
// presence, mirroring map lookups.
type Provider interface {
	GetBool(key string) (value bool, ok bool)
	GetInt(key string) (value int, ok bool)
}

// Canonical keys consumed by the voice path.
const (
	KeyVoiceEnabled = "voice_enabled"
	KeyVoiceVolume  = "voice_volume"
)

// DefaultVolume is used when the volume setting is absent.
const DefaultVolume = 75

// VoiceEnabled resolves the enable flag. Absence of a provider or of the key
// means enabled; only an explicit false disables the voice path.
func VoiceEnabled(provider Provider) bool {
	if provider == nil {
		return true
	}

	enabled, ok := provider.GetBool(KeyVoiceEnabled)
	if !ok {
		return true
	}
	return enabled
}

// VoiceVolume resolves the playback volume, clamped to [0, 100].
func VoiceVolume(provider Provider) int {
	if provider == nil {
		return DefaultVolume
	}

	volume, ok := provider.GetInt(KeyVoiceVolume)
	if !ok {
		return DefaultVolume
	}

	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

// Static is a map-backed provider for tests and embedded hosts. Values must
// be bool or int per key.
type Static map[string]any

func (s Static) GetBool(key string) (bool, bool) {
	value, ok := s[key].(bool)
	return value, ok
}

func (s Static) GetInt(key string) (int, bool) {
	value, ok := s[key].(int)
	return value, ok
}
