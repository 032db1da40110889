package nav

import "strings"

// Maps for street name abbreviations
var (
	directionAbbrev = map[string]string{
		"north":     "N",
		"south":     "S",
		"east":      "E",
		"west":      "W",
		"northeast": "NE",
		"northwest": "NW",
		"southeast": "SE",
		"southwest": "SW",
	}

	streetTypeAbbrev = map[string]string{
		"avenue":     "Ave",
		"boulevard":  "Blvd",
		"circle":     "Cir",
		"court":      "Ct",
		"drive":      "Dr",
		"expressway": "Expy",
		"highway":    "Hwy",
		"lane":       "Ln",
		"parkway":    "Pkwy",
		"place":      "Pl",
		"road":       "Rd",
		"square":     "Sq",
		"street":     "St",
		"strasse":    "Str",
		"straße":     "Str",
		"terrace":    "Ter",
		"trail":      "Trl",
	}
)

// abbreviateStreet shortens a street name so it fits on a watch face.
// Only whole words are replaced; a trailing "strasse" is shortened as well.
func abbreviateStreet(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		lower := strings.ToLower(word)
		if abbr, ok := directionAbbrev[lower]; ok && len(words) > 1 {
			words[i] = abbr
			continue
		}
		if abbr, ok := streetTypeAbbrev[lower]; ok && i > 0 {
			words[i] = abbr
			continue
		}
		for _, suffix := range []string{"strasse", "straße"} {
			if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix) {
				words[i] = word[:len(word)-len(suffix)] + "str"
				break
			}
		}
	}
	return strings.Join(words, " ")
}
