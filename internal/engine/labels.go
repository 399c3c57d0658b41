package engine

import "strconv"

// subpartLabels is the fixed roman-numeral lookup table. Beyond the table the
// label falls back to the 1-based arabic string; character-code arithmetic is
// deliberately avoided because identifiers and saved grading templates are
// keyed on these labels.
var subpartLabels = [...]string{
	"i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x", "xi", "xii",
}

// SubpartLabel returns the canonical roman-numeral label for a 0-based
// subpart index, or the arabic fallback beyond the table.
func SubpartLabel(index int) string {
	if index < 0 {
		return ""
	}
	if index < len(subpartLabels) {
		return subpartLabels[index]
	}
	return strconv.Itoa(index + 1)
}

// PartLabel returns the alphabetic label for a 0-based part index: a..z, then
// Excel-style multi-letter labels (aa, ab, ...).
func PartLabel(index int) string {
	if index < 0 {
		return ""
	}
	label := make([]byte, 0, 2)
	n := index
	for {
		label = append([]byte{byte('a' + n%26)}, label...)
		n = n/26 - 1
		if n < 0 {
			return string(label)
		}
	}
}
