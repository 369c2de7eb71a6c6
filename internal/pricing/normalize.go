package pricing

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount parses numeric text as it appears in legacy records: currency
// symbols and spacing are ignored, both "." and "," are accepted as the
// decimal mark, thousands separators are tolerated. "1 234,56" and "1234.56"
// parse to the same value. Parsed amounts are never negative.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			return r
		}
		return -1
	}, raw)

	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", raw)
	}

	// When both marks appear, the rightmost one is the decimal separator
	// and every other occurrence is a thousands separator.
	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')
	sep := lastDot
	if lastComma > sep {
		sep = lastComma
	}

	var b bytes.Buffer
	for i := 0; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '.', ',':
			if i == sep {
				b.WriteByte('.')
			}
		default:
			b.WriteByte(cleaned[i])
		}
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", raw, err)
	}

	return value, nil
}

// AmountOrZero is the lenient unwrap used at the API boundary: unparseable
// input degrades to zero instead of failing. Upstream data is uncontrolled
// (legacy records store numeric fields as strings), so a bad value must not
// sink an entire request.
func AmountOrZero(raw string) float64 {
	value, err := ParseAmount(raw)
	if err != nil {
		return 0
	}
	return value
}
