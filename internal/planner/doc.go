// Package planner splits a Z-ordered object list into host invocations.
//
// A single host command line cannot name an unbounded number of objects, so the
// objects are processed in chunks of at most MaxOps operands. The top-most object
// is combined with every object below it; after the first chunk the combined
// result is carried into the next chunk as its leading operand.
//
// Key responsibilities:
//   - Validate the operand bound
//   - Produce ordered chunks with carry operands at chunk boundaries
//   - Keep every original object in exactly one chunk, in Z-order
package planner
