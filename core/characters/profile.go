// Package characters resolves speaker ids into the fully-populated profiles
// the voice path requires. Directory data may be partial or entirely
// unavailable; resolution always produces a usable profile.
package characters

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
)

// Profile describes a speaking character. Any field may be empty when it
// comes straight from a Directory; Resolve fills the gaps.
type Profile struct {
	Name        string
	Faction     string
	Personality string
}

// DefaultPersonality is used whenever a directory entry carries none.
const DefaultPersonality = "neutral"

// Directory looks up character data in the host simulation. Lookups are
// fallible; callers must treat an error as "no profile".
type Directory interface {
	Lookup(ctx context.Context, speakerID string) (Profile, error)
}

// Resolve builds the fully-populated profile for a speaker. A nil supplied
// profile yields the synthetic fallback; a partial one is defaulted per
// field, supplied fields always winning.
func Resolve(speakerID string, supplied *Profile) Profile {
	resolved := Fallback(speakerID)
	if supplied == nil {
		return resolved
	}

	// IgnoreEmpty keeps the fallback value wherever the directory left a
	// field blank.
	if err := copier.CopyWithOption(&resolved, supplied, copier.Option{IgnoreEmpty: true}); err != nil {
		return Fallback(speakerID)
	}
	return resolved
}

// Fallback is the synthetic profile used when no directory data is
// available for a speaker.
func Fallback(speakerID string) Profile {
	return Profile{
		Name:        fmt.Sprintf("Unknown (%s)", speakerID),
		Faction:     DeriveFaction(speakerID),
		Personality: DefaultPersonality,
	}
}
