package region

import (
	"strings"

	"github.com/cory-johannsen/phoenix/internal/game/dice"
)

var (
	vowels     = []string{"a", "e", "i", "o", "u"}
	consonants = []string{"b", "c", "d", "f", "g", "h", "j", "k", "l", "l", "m", "n", "p", "q", "r", "s", "t", "v", "w", "x", "y", "z", "lh", "ch"}
	endings    = []string{"r", "s", "l", "m", "n"}

	commonNames = []string{
		"Black", "Green", "Fair", "Enchanted", "Gloomy", "Magic", "Serene", "Sacred",
		"Ancient", "High", "Legendary", "Funereal", "Spectacular", "Fabled", "Crystal",
	}
	epithets  = []string{"of Wonders", "of Lost Dreams", "of Surprises", "of Specters", "of Charms", "of Mysteries"}
	locations = []string{"North", "South", "East", "West", "Northwest", "Northeast", "Southeast", "Southwest", "Central"}
)

// InventWord builds a pronounceable made-up word of syllables+1 consonant-vowel
// pairs, sometimes closed with a trailing consonant, in title case.
//
// Precondition: src must be non-nil; syllables >= 0.
// Postcondition: len(result) >= 2 and the first rune is upper case.
func InventWord(src dice.Source, syllables int) string {
	var b strings.Builder
	for i := 0; i <= syllables; i++ {
		b.WriteString(consonants[dice.Pick(src, len(consonants))])
		b.WriteString(vowels[dice.Pick(src, len(vowels))])
		if i == syllables && dice.Chance(src, 0.3) {
			b.WriteString(endings[dice.Pick(src, len(endings))])
		}
	}
	w := b.String()
	return strings.ToUpper(w[:1]) + w[1:]
}

// GenerateName produces a display name for a region of type t, such as
// "Forest Kalo", "Enchanted Swamp of Lost Dreams" or "North Sacred Grassland".
// Cities always carry an invented title.
//
// Precondition: src must be non-nil.
func GenerateName(src dice.Source, t Type) string {
	name := t.Name()
	if t == City || dice.Chance(src, 0.3) {
		name += " " + InventWord(src, dice.IntRange(src, 1, 4))
		if dice.Chance(src, 0.95) {
			return name
		}
	}

	name = commonNames[dice.Pick(src, len(commonNames))] + " " + name
	if dice.Chance(src, 0.5) && dice.Chance(src, 0.7) {
		name += " " + epithets[dice.Pick(src, len(epithets))]
	}
	if dice.Chance(src, 0.3) && dice.Chance(src, 0.3) {
		name = locations[dice.Pick(src, len(locations))] + " " + name
	}
	return name
}
