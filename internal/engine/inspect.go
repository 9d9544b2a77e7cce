package engine

import (
	"context"

	"github.com/pathops/pathops/internal/planner"
)

// Inspect lists the supported objects of the selection in Z-order without
// modifying anything or invoking Inkscape.
func (e *Engine) Inspect(ctx context.Context, req *Request) (*InspectResult, error) {
	doc, err := loadSelection(req)
	if err != nil {
		return nil, err
	}

	maxOps := req.Options.EffectiveMaxOps()
	ordered := orderedObjects(doc, req.Options.Recursive)

	result := &InspectResult{
		Objects:       make([]Object, 0, len(ordered)),
		Chunks:        planner.ChunkCount(len(ordered), maxOps),
		MaxOps:        maxOps,
		SelectionSets: doc.HasSelectionSets(),
	}
	if len(ordered) < minObjects {
		result.Chunks = 0
	}

	for _, id := range ordered {
		kind, _ := doc.Kind(id)
		pos, _ := doc.Position(id)
		result.Objects = append(result.Objects, Object{
			ID:       id,
			Kind:     kind,
			KindName: kind.String(),
			Position: pos,
		})
	}
	return result, nil
}
