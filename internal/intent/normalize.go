// Package intent turns a free-text question into a ParsedIntent: a
// deterministic lexical pre-extraction pass runs first, the generative
// model fills in what the regexes could not, and the pre-extracted
// values always win on conflict.
package intent

import "strings"

// ValidTowns is the canonical town list of the dataset. Order matters:
// the first containment match in list order wins during normalization,
// and the same order is embedded in the extraction prompt.
var ValidTowns = []string{
	"ANG MO KIO", "BEDOK", "BISHAN", "BUKIT BATOK", "BUKIT MERAH",
	"BUKIT PANJANG", "BUKIT TIMAH", "CENTRAL AREA", "CHOA CHU KANG",
	"CLEMENTI", "GEYLANG", "HOUGANG", "JURONG EAST", "JURONG WEST",
	"KALLANG/WHAMPOA", "MARINE PARADE", "PASIR RIS", "PUNGGOL",
	"QUEENSTOWN", "SEMBAWANG", "SENGKANG", "SERANGOON", "TAMPINES",
	"TOA PAYOH", "WOODLANDS", "YISHUN",
}

// townAliases maps common abbreviations and partial names to canonical
// town names. Checked after an exact match, before containment.
var townAliases = map[string]string{
	"JURONG":  "JURONG WEST",
	"KALLANG": "KALLANG/WHAMPOA",
	"AMK":     "ANG MO KIO",
	"CCK":     "CHOA CHU KANG",
	"TPY":     "TOA PAYOH",
}

// CanonicalTown normalizes a town name: exact match, then alias table,
// then substring containment in either direction (input contained in
// the town name, or the town's first word contained in the input), else
// the uppercased input passes through unresolved.
func CanonicalTown(input string) string {
	upper := strings.ToUpper(strings.TrimSpace(input))
	if upper == "" {
		return ""
	}

	for _, town := range ValidTowns {
		if town == upper {
			return town
		}
	}

	if mapped, ok := townAliases[upper]; ok {
		return mapped
	}

	for _, town := range ValidTowns {
		if strings.Contains(town, upper) || strings.Contains(upper, strings.SplitN(town, " ", 2)[0]) {
			return town
		}
	}

	return upper
}

// flatTypeMap keys are lowercased input with whitespace and hyphens
// removed; values are the dataset's stored spelling ("4 ROOM", not "4-ROOM").
var flatTypeMap = map[string]string{
	"1room":     "1 ROOM",
	"oneroom":   "1 ROOM",
	"2room":     "2 ROOM",
	"tworoom":   "2 ROOM",
	"3room":     "3 ROOM",
	"threeroom": "3 ROOM",
	"4room":     "4 ROOM",
	"fourroom":  "4 ROOM",
	"5room":     "5 ROOM",
	"fiveroom":  "5 ROOM",
	"executive": "EXECUTIVE",
}

// CanonicalFlatType normalizes a flat-type string to one of the six
// stored values, or returns "" if unrecognized so the caller can keep
// the input as given.
func CanonicalFlatType(input string) string {
	key := strings.ToLower(input)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "\t", "")
	key = strings.ReplaceAll(key, "-", "")
	return flatTypeMap[key]
}
