package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareLabels(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"007", "7", -1},
		{"7", "7", 0},
		{"99999999999999999999", "100000000000000000000", -1},
		{"9", "A", -1},
		{"B", "3", 1},
		{"A", "B", -1},
		{"a", "B", 1},
		{"", "1", 1},
	}
	for _, tc := range cases {
		t.Run(tc.a+"_vs_"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, CompareLabels(tc.a, tc.b))
		})
	}
}

func TestSortLocationsMixed(t *testing.T) {
	locs := []Location{
		{Enclosure: "10", Pen: "1"},
		{Enclosure: "North", Pen: "b"},
		{Enclosure: "2", Pen: "10"},
		{Enclosure: "2", Pen: "9"},
		{Enclosure: "North", Pen: "a"},
		{Enclosure: "2", Pen: "x"},
	}
	SortLocations(locs)

	assert.Equal(t, []Location{
		{Enclosure: "2", Pen: "9"},
		{Enclosure: "2", Pen: "10"},
		{Enclosure: "2", Pen: "x"},
		{Enclosure: "10", Pen: "1"},
		{Enclosure: "North", Pen: "a"},
		{Enclosure: "North", Pen: "b"},
	}, locs)
}
