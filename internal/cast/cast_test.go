package cast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type celsius float64

func TestToFloat64(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		v    any
		want float64
		ok   bool
	}{
		{"float64", float64(1.5), 1.5, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", 3, 3, true},
		{"int8", int8(-7), -7, true},
		{"uint64", uint64(12), 12, true},
		{"named float", celsius(36.6), 36.6, true},
		{"string", "1.0", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ToFloat64(tt.v)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}

func TestToInt64(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		v    any
		want int64
		ok   bool
	}{
		{"int64", int64(1), 1, true},
		{"int", 2, 2, true},
		{"uint8", uint8(7), 7, true},
		{"uint64 max int64", uint64(math.MaxInt64), math.MaxInt64, true},
		{"uint64 overflow rejected", uint64(math.MaxUint64), 0, false},
		{"float rejected", 3.0, 0, false},
		{"bool rejected", false, 0, false},
		{"string rejected", "3", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ToInt64(tt.v)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntegralFloat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		v    any
		want int64
		ok   bool
	}{
		{"whole", 4.0, 4, true},
		{"negative whole", float32(-2), -2, true},
		{"fraction", 4.5, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"too large", 1e300, 0, false},
		{"int is not a float", 4, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := IntegralFloat(tt.v)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()
	assert.True(t, IsNumeric(1))
	assert.True(t, IsNumeric(1.5))
	assert.True(t, IsNumeric(uint16(3)))
	assert.False(t, IsNumeric(true))
	assert.False(t, IsNumeric("1"))
	assert.False(t, IsNumeric(nil))
	assert.True(t, IsInteger(int32(1)))
	assert.False(t, IsInteger(1.0))
	assert.False(t, IsInteger(nil))
}

func TestToStringSlice(t *testing.T) {
	t.Parallel()
	got, ok := ToStringSlice([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	got, ok = ToStringSlice([]any{"x", "y"})
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, got)

	_, ok = ToStringSlice([]any{"x", 1})
	assert.False(t, ok)
	_, ok = ToStringSlice("x")
	assert.False(t, ok)
}
