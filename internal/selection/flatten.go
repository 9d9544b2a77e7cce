// Package selection turns the host selection into the list of objects that
// path operations can be applied to.
package selection

import (
	"github.com/pathops/pathops/internal/host"
)

// Unlimited is the depth value that expands nested groups at any level.
const Unlimited = 0

// Depth returns the group expansion depth for the recursive option.
func Depth(recursive bool) int {
	if recursive {
		return Unlimited
	}
	return 1
}

type frame struct {
	id    string
	level int
}

// Flatten returns the ids of all supported objects reachable from the selection.
//
// Selected groups are expanded into their children. With depth 1 only the
// directly selected groups are expanded; nested groups are then dropped along
// with every other unsupported object. Duplicates are removed, keeping the
// first occurrence, so the result follows document order when the selection does.
func Flatten(doc host.Document, depth int) []string {
	var out []string
	seen := make(map[string]bool)

	for _, root := range doc.Selection() {
		stack := []frame{{id: root, level: 1}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			kind, ok := doc.Kind(f.id)
			if !ok {
				continue
			}

			if kind == host.KindGroup {
				if depth != Unlimited && f.level > depth {
					continue
				}
				children := doc.Children(f.id)
				for i := len(children) - 1; i >= 0; i-- {
					stack = append(stack, frame{id: children[i], level: f.level + 1})
				}
				continue
			}

			if kind.SupportsPathOps() && !seen[f.id] {
				seen[f.id] = true
				out = append(out, f.id)
			}
		}
	}

	return out
}
