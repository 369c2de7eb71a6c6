package pricing

import (
	"encoding/json"
	"math"
	"strconv"
)

// Amount is a money value that tolerates the number-or-string encodings found
// in client payloads. Decoding never fails: strings go through ParseAmount,
// null and garbage decode as zero, negatives are floored at zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}
		*a = Amount(AmountOrZero(s))
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*a = 0
		return nil
	}
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	*a = Amount(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

func (a Amount) Float64() float64 {
	return float64(a)
}
