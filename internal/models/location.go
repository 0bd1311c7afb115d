package models

import (
	"sort"
	"strings"
)

// Location identifies an (enclosure, pen) pair. Both labels are free text and
// compared case-sensitively; no foreign key ties dependent records to stock.
type Location struct {
	Enclosure string `db:"enclosure" json:"enclosure"`
	Pen       string `db:"pen" json:"pen"`
}

// String renders the location as "enclosure/pen".
func (l Location) String() string {
	return l.Enclosure + "/" + l.Pen
}

// CompareLabels orders two enclosure or pen labels. All-digit labels compare
// by numeric value and sort before any non-numeric label; the rest compare
// lexicographically. Equal numeric values fall back to the raw string so
// "02" and "2" keep a stable order.
func CompareLabels(a, b string) int {
	an, bn := isNumeric(a), isNumeric(b)
	switch {
	case an && bn:
		if c := compareDigits(trimZeros(a), trimZeros(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case an:
		return -1
	case bn:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// CompareLocations orders by enclosure first, then pen.
func CompareLocations(a, b Location) int {
	if c := CompareLabels(a.Enclosure, b.Enclosure); c != 0 {
		return c
	}
	return CompareLabels(a.Pen, b.Pen)
}

// SortLocations sorts in place using CompareLocations.
func SortLocations(locs []Location) {
	sort.SliceStable(locs, func(i, j int) bool {
		return CompareLocations(locs[i], locs[j]) < 0
	})
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return "0"
	}
	return t
}

// compareDigits compares two zero-trimmed digit strings of arbitrary length.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
