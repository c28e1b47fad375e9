// Package geography classifies the proximity tier between a demand site and
// a supply bank from their administrative and character area names.
package geography

import (
	"strings"
	"unicode"
)

// Tier values drive pricing lookups. A bank is local when it shares the
// site's administrative or character area, adjacent when it sits in a
// neighbouring one, and far otherwise.
const (
	TierLocal    = "local"
	TierAdjacent = "adjacent"
	TierFar      = "far"
)

// Area is the pair of names that locate a site or a bank.
type Area struct {
	AdminArea     string `json:"admin_area"`
	CharacterArea string `json:"character_area"`
}

// Neighbours lists the areas adjacent to a site, as supplied by the
// boundary-lookup collaborator.
type Neighbours struct {
	AdminAreas     []string `json:"admin_areas"`
	CharacterAreas []string `json:"character_areas"`
}

var namePrefixes = []string{
	"city of ",
	"royal borough of ",
	"metropolitan borough of ",
	"london borough of ",
}

var nameSuffixes = []string{
	" council",
	" district",
	" borough",
	" unitary",
	" city",
	" county",
}

// NormalizeAreaName canonicalizes an administrative name for comparison:
// lowercase, honorific prefixes and generic suffixes stripped, "&" replaced
// with "and", all non-alphanumerics removed. "London Borough of Camden"
// normalizes equal to "Camden".
func NormalizeAreaName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "&", "and")

	for changed := true; changed; {
		changed = false
		for _, p := range namePrefixes {
			if strings.HasPrefix(s, p) {
				s = strings.TrimSpace(strings.TrimPrefix(s, p))
				changed = true
			}
		}
		for _, suf := range nameSuffixes {
			if strings.HasSuffix(s, suf) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suf))
				changed = true
			}
		}
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SameArea compares two area names after normalization. Empty names never
// match.
func SameArea(a, b string) bool {
	na := NormalizeAreaName(a)
	nb := NormalizeAreaName(b)
	return na != "" && na == nb
}

// ClassifyTier computes the proximity tier of a bank relative to a site.
func ClassifyTier(bank, site Area, neighbours Neighbours) string {
	if SameArea(bank.AdminArea, site.AdminArea) || SameArea(bank.CharacterArea, site.CharacterArea) {
		return TierLocal
	}
	for _, n := range neighbours.AdminAreas {
		if SameArea(bank.AdminArea, n) {
			return TierAdjacent
		}
	}
	for _, n := range neighbours.CharacterAreas {
		if SameArea(bank.CharacterArea, n) {
			return TierAdjacent
		}
	}
	return TierFar
}

// ValidTier reports whether s is one of the recognized tier values.
func ValidTier(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TierLocal, TierAdjacent, TierFar:
		return true
	}
	return false
}
