package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStars_Thresholds(t *testing.T) {
	cases := []struct {
		fame  int
		stars int
	}{
		{0, 0},
		{19, 0},
		{20, 1},
		{499, 1},
		{500, 2},
		{1499, 2},
		{1500, 3},
		{4999, 3},
		{5000, 4},
		{14999, 4},
		{15000, 5},
		{1000000, 5},
		{-5, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.stars, Stars(c.fame), "fame %d", c.fame)
	}
}
