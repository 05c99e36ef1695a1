package characters

import "strings"

// DefaultFaction is the generic classification used when no marker matches.
const DefaultFaction = "stalker"

// factionMarkers maps classification-text markers to factions. Order is the
// contract: when several markers appear in one string, the earliest entry
// wins, so reordering changes behavior.
var factionMarkers = []struct {
	marker  string
	faction string
}{
	{marker: "ecolog", faction: "ecolog"},
	{marker: "duty", faction: "duty"},
	{marker: "freedom", faction: "freedom"},
	{marker: "bandit", faction: "bandit"},
	{marker: "army", faction: "army"},
	{marker: "monolith", faction: "monolith"},
	{marker: "mercenary", faction: "mercenary"},
}

// DeriveFaction inspects a character's in-world classification text (for
// most hosts, the speaker id itself) and returns the first matching faction.
func DeriveFaction(classification string) string {
	classification = strings.ToLower(classification)
	for _, entry := range factionMarkers {
		if strings.Contains(classification, entry.marker) {
			return entry.faction
		}
	}
	return DefaultFaction
}
