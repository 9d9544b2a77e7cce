// Package zorder sorts objects by paint order using the loaded document model.
package zorder

import (
	"iter"
	"slices"
)

// Oracle reports the document-order position of an object.
// host.Document satisfies it.
type Oracle interface {
	Position(id string) (int, bool)
}

// Sort returns a sequence of ids from top-most to bottom-most.
//
// The sort runs once, when the sequence is first iterated, and the result is
// reused by later iterations. Ids sharing a position keep their input order.
// Ids unknown to the oracle are placed at the bottom, in input order.
func Sort(oracle Oracle, ids []string) iter.Seq[string] {
	var sorted []string
	return func(yield func(string) bool) {
		if sorted == nil {
			sorted = sortTopFirst(oracle, ids)
		}
		for _, id := range sorted {
			if !yield(id) {
				return
			}
		}
	}
}

func sortTopFirst(oracle Oracle, ids []string) []string {
	type entry struct {
		id    string
		pos   int
		known bool
	}

	entries := make([]entry, len(ids))
	for i, id := range ids {
		pos, ok := oracle.Position(id)
		entries[i] = entry{id: id, pos: pos, known: ok}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.known && !b.known:
			return -1
		case !a.known && b.known:
			return 1
		case !a.known && !b.known:
			return 0
		}
		return b.pos - a.pos
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// Top returns the first id of the sequence.
func Top(seq iter.Seq[string]) (string, bool) {
	for id := range seq {
		return id, true
	}
	return "", false
}
