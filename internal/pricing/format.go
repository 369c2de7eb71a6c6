package pricing

import (
	"strconv"
	"strings"
)

// FormatAmount renders a money value for documents: two decimals, comma as
// the decimal mark, space-grouped thousands ("1 234,56"). ParseAmount reads
// this format back.
func FormatAmount(value float64) string {
	fixed := strconv.FormatFloat(value, 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, " ") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
