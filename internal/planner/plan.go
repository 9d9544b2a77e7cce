package planner

import (
	"errors"
	"fmt"
)

// DefaultMaxOps is the default number of operands per host invocation.
const DefaultMaxOps = 500

// ErrInvalidMaxOps indicates an operand bound that cannot hold a carry and a new object.
var ErrInvalidMaxOps = errors.New("max operations per run must be at least 2")

// Plan represents the chunked invocation plan for one selection.
type Plan struct {
	// Top is the id of the top-most object, the first operand of the first chunk
	Top string

	// MaxOps is the operand bound each chunk respects
	MaxOps int

	// Total is the number of original objects, including Top
	Total int

	// Chunks is the ordered list of invocations to run
	Chunks []Chunk
}

// Chunk represents the operands of a single host invocation.
type Chunk struct {
	// Index is the 1-based position of the chunk in the plan
	Index int

	// Operands are ordered top-most first
	Operands []Operand
}

// Operand is one object named in a chunk.
type Operand struct {
	// ID is the document id the host selects for this operand
	ID string

	// Carry marks the running result of earlier chunks rather than a new object
	Carry bool
}

// String renders the operand for reports.
func (o Operand) String() string {
	if o.Carry {
		return fmt.Sprintf("<result:%s>", o.ID)
	}
	return o.ID
}

// Head returns the chunk's leading operand, the object that every other operand is combined with.
func (c Chunk) Head() Operand {
	if len(c.Operands) == 0 {
		return Operand{}
	}
	return c.Operands[0]
}

// Tail returns the operands combined with the head.
func (c Chunk) Tail() []Operand {
	if len(c.Operands) < 2 {
		return nil
	}
	return c.Operands[1:]
}

// Originals returns the number of operands that are not carries.
func (c Chunk) Originals() int {
	n := 0
	for _, op := range c.Operands {
		if !op.Carry {
			n++
		}
	}
	return n
}

// Len returns the number of operands in the chunk.
func (c Chunk) Len() int {
	return len(c.Operands)
}

// IsEmpty returns true if the plan has nothing to invoke.
func (p *Plan) IsEmpty() bool {
	return len(p.Chunks) == 0
}

// Operations returns the number of pairwise operations the plan performs.
func (p *Plan) Operations() int {
	n := 0
	for _, c := range p.Chunks {
		n += len(c.Tail())
	}
	return n
}
