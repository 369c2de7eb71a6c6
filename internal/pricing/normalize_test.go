package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount_SeparatorStyles(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"1234.56", 1234.56},
		{"1234,56", 1234.56},
		{"1 234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"1 234 567,89", 1234567.89},
		{"1500 FCFA", 1500},
		{"  250  ", 250},
		{"0", 0},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.raw)
		assert.NoError(t, err, "input %q", tc.raw)
		assert.Equal(t, tc.want, got, "input %q", tc.raw)
	}
}

func TestParseAmount_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "abc", "--", "   ", "FCFA"} {
		_, err := ParseAmount(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestAmountOrZero_DegradesToZero(t *testing.T) {
	assert.Equal(t, 0.0, AmountOrZero(""))
	assert.Equal(t, 0.0, AmountOrZero("abc"))
	assert.Equal(t, 1234.56, AmountOrZero("1 234,56"))
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Paid Amount `json:"paid"`
	}

	cases := []struct {
		body string
		want float64
	}{
		{`{"paid": 2000}`, 2000},
		{`{"paid": "2 000,50"}`, 2000.50},
		{`{"paid": ""}`, 0},
		{`{"paid": "abc"}`, 0},
		{`{"paid": null}`, 0},
		{`{"paid": -5}`, 0},
		{`{}`, 0},
	}

	for _, tc := range cases {
		payload.Paid = 0
		err := json.Unmarshal([]byte(tc.body), &payload)
		assert.NoError(t, err, "body %s", tc.body)
		assert.Equal(t, tc.want, payload.Paid.Float64(), "body %s", tc.body)
	}
}
