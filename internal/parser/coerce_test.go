package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt_FailSoft(t *testing.T) {
	cases := map[string]int{
		"":             0,
		"12":           12,
		"3.9":          3,
		"-3.9":         -3,
		"0x1F":         31,
		"0X1f":         31,
		"not-a-number": 0,
		"  42 ":        42,
		"NaN":          0,
		"-0x1F":        0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ToInt(in), "input %q", in)
	}
}

func TestToInt_Clamps(t *testing.T) {
	assert.Equal(t, math.MaxInt, ToInt("99999999999999999999999"))
	assert.Equal(t, math.MinInt, ToInt("-99999999999999999999999"))
	assert.Equal(t, math.MaxInt, ToInt("1e300"))
	assert.Equal(t, math.MinInt, ToInt("-1e300"))
	assert.Equal(t, math.MaxInt, ToInt("0xFFFFFFFFFFFFFFFFFFFF"))
}

func TestTryInt_ReportsFailure(t *testing.T) {
	_, ok := TryInt("bad")
	assert.False(t, ok)

	_, ok = TryInt("")
	assert.False(t, ok)

	v, ok := TryInt("0x10")
	assert.True(t, ok)
	assert.Equal(t, 16, v)
}

func TestFieldReader_CountsOnlyPresentMalformedValues(t *testing.T) {
	var r fieldReader
	r.int("")
	r.int("7")
	r.int("seven")
	r.intAttr(nil)
	bad := "x"
	r.intAttr(&bad)
	assert.Equal(t, 2, r.malformed)
}
