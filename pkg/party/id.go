// Package party defines the identifiers programs and the router use to
// address other parties in the computation.
package party

import "sort"

// ID names a party. IDs are opaque strings chosen by deployment
// configuration (spec.md §6); the runtime never interprets their content.
type ID string

// IDSlice is a sortable, searchable list of party IDs.
type IDSlice []ID

func (s IDSlice) Len() int           { return len(s) }
func (s IDSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s IDSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Sorted returns a sorted copy of s.
func (s IDSlice) Sorted() IDSlice {
	out := append(IDSlice(nil), s...)
	sort.Sort(out)
	return out
}

// Contains reports whether id appears in s.
func (s IDSlice) Contains(id ID) bool {
	for _, x := range s {
		if x == id {
			return true
		}
	}
	return false
}

// IndexOf returns the position of id within s, or -1 if absent. Parties are
// consistently ordered by this index when derived evaluation points are
// assigned (spec.md §3).
func (s IDSlice) IndexOf(id ID) int {
	for i, x := range s {
		if x == id {
			return i
		}
	}
	return -1
}
