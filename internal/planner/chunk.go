package planner

import "fmt"

// Build splits ids, ordered top-most first, into chunks of at most maxOps operands.
//
// Chunk 1 holds ids[0:maxOps]. Each later chunk starts with a carry operand
// for the running result, followed by up to maxOps-1 new ids. A selection of n
// ids therefore needs 1 chunk when n <= maxOps and ceil((n-1)/(maxOps-1)) otherwise.
func Build(ids []string, maxOps int) (*Plan, error) {
	if maxOps < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxOps, maxOps)
	}

	plan := &Plan{MaxOps: maxOps, Total: len(ids)}
	if len(ids) == 0 {
		return plan, nil
	}
	plan.Top = ids[0]

	first := min(maxOps, len(ids))
	plan.Chunks = append(plan.Chunks, newChunk(1, nil, ids[:first]))

	for start := first; start < len(ids); {
		end := min(start+maxOps-1, len(ids))
		carry := &Operand{ID: plan.Top, Carry: true}
		plan.Chunks = append(plan.Chunks, newChunk(len(plan.Chunks)+1, carry, ids[start:end]))
		start = end
	}

	return plan, nil
}

// ChunkCount returns the number of chunks Build produces for n ids.
func ChunkCount(n, maxOps int) int {
	switch {
	case n <= 0 || maxOps < 2:
		return 0
	case n <= maxOps:
		return 1
	}
	return (n - 1 + maxOps - 2) / (maxOps - 1)
}

func newChunk(index int, carry *Operand, ids []string) Chunk {
	c := Chunk{Index: index}
	if carry != nil {
		c.Operands = make([]Operand, 0, len(ids)+1)
		c.Operands = append(c.Operands, *carry)
	} else {
		c.Operands = make([]Operand, 0, len(ids))
	}
	for _, id := range ids {
		c.Operands = append(c.Operands, Operand{ID: id})
	}
	return c
}
