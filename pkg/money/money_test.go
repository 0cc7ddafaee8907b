package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromString_EuropeanFormat(t *testing.T) {
	tests := []struct {
		input string
		minor int64
	}{
		{"2.000,00", 200000},
		{"1,00", 100},
		{"360,00", 36000},
		{"1.234.567,89", 123456789},
		{"2.000,00 лв.", 200000},
	}
	for _, tt := range tests {
		m, err := NewFromString(tt.input, BGN)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.minor, m.Amount(), tt.input)
		assert.Equal(t, BGN, m.Currency())
	}
}

func TestNewFromString_Invalid(t *testing.T) {
	_, err := NewFromString("not a number", BGN)
	assert.Error(t, err)
}

func TestAddSubtract(t *testing.T) {
	a := New(200000, BGN)
	b := New(36000, BGN)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(236000), sum.Amount())

	diff, err := sum.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Equals(a))

	_, err = a.Add(New(100, EUR))
	assert.Error(t, err)
}

func TestVAT(t *testing.T) {
	net := New(200000, BGN) // 2000.00

	vat := net.VAT(StandardVATRate)
	assert.Equal(t, int64(40000), vat.Amount())

	gross := net.WithVAT(StandardVATRate)
	assert.Equal(t, int64(240000), gross.Amount())
}

func TestWithinTolerance(t *testing.T) {
	a := New(236000, BGN)

	assert.True(t, a.WithinTolerance(New(236000, BGN), 0))
	assert.True(t, a.WithinTolerance(New(236001, BGN), 1))
	assert.False(t, a.WithinTolerance(New(236002, BGN), 1))
	assert.False(t, a.WithinTolerance(New(236000, EUR), 100))
}

func TestMultiplyDecimal(t *testing.T) {
	unit := New(200000, BGN) // 2000.00
	total := unit.MultiplyDecimal(decimal.RequireFromString("1.5"))
	assert.Equal(t, int64(300000), total.Amount())
}

func TestJSONRoundTrip(t *testing.T) {
	m := New(123456, BGN)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equals(&back))
}

func TestToDecimal(t *testing.T) {
	m := New(236000, BGN)
	assert.True(t, decimal.RequireFromString("2360.00").Equal(m.ToDecimal()))
}
