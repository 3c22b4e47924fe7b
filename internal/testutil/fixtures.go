package testutil

// Cursor is a minimal text-scanning context: the shape nearly every
// fex axiom in this module's tests and examples is written against,
// since the library's canonical use case is recursive-descent parsing
// over a string.
type Cursor struct {
	Src string
	Pos int
}

// NewCursor creates a Cursor positioned at the start of src.
func NewCursor(src string) *Cursor {
	return &Cursor{Src: src}
}

// Peek returns the byte at the current position and whether one exists.
func (c *Cursor) Peek() (byte, bool) {
	if c.Pos >= len(c.Src) {
		return 0, false
	}
	return c.Src[c.Pos], true
}

// Advance consumes the current byte, if any.
func (c *Cursor) Advance() {
	if c.Pos < len(c.Src) {
		c.Pos++
	}
}

// AtEnd reports whether the cursor has consumed the whole source.
func (c *Cursor) AtEnd() bool {
	return c.Pos >= len(c.Src)
}

// Remaining returns the unconsumed suffix of Src.
func (c *Cursor) Remaining() string {
	return c.Src[c.Pos:]
}

// ByteCursor is a predicate factory for a Cursor: it reports true and
// consumes one byte when the next byte equals b.
func ByteCursor(b byte) func(ctx *Cursor) bool {
	return func(ctx *Cursor) bool {
		next, ok := ctx.Peek()
		if !ok || next != b {
			return false
		}
		ctx.Advance()
		return true
	}
}

// DigitCursor reports true and consumes one byte when the next byte is
// an ASCII digit.
func DigitCursor(ctx *Cursor) bool {
	next, ok := ctx.Peek()
	if !ok || next < '0' || next > '9' {
		return false
	}
	ctx.Advance()
	return true
}

// RecordingCtx wraps any context value alongside a slice of labels,
// letting an action record that it ran without needing its own bespoke
// struct — useful for tests asserting ordering of side effects.
type RecordingCtx[T any] struct {
	Inner T
	Calls []string
}

// NewRecordingCtx wraps inner for call recording.
func NewRecordingCtx[T any](inner T) *RecordingCtx[T] {
	return &RecordingCtx[T]{Inner: inner}
}

// Record appends label to the call log.
func (r *RecordingCtx[T]) Record(label string) {
	r.Calls = append(r.Calls, label)
}
