package rawpb

import (
	"math"

	"github.com/pkg/errors"
)

// NoBound is the end of a cursor that is not scoped to a nested message.
const NoBound int64 = math.MaxInt64

type WireType uint8

const (
	WireVarint     WireType = 0
	WireFixed64    WireType = 1
	WireBytes      WireType = 2
	WireStartGroup WireType = 3
	WireEndGroup   WireType = 4
	WireFixed32    WireType = 5
)

// FieldHeader is a decoded field tag.
type FieldHeader uint32

func (h FieldHeader) Number() int {
	return int(h >> 3)
}

func (h FieldHeader) WireType() WireType {
	return WireType(h & 0x7)
}

// Scope is returned by EnterMessage and restores the enclosing message bound.
type Scope int64

// Cursor tracks the absolute read position over a buffer of known length,
// the end of the message currently being read and the last accepted field
// header. Readers embed it and advance it as they consume bytes.
type Cursor struct {
	length   int64
	position int64
	end      int64
	header   FieldHeader
}

func NewCursor(length int) Cursor {
	return Cursor{
		length: int64(length),
		end:    NoBound,
	}
}

func (c *Cursor) Position() int64 {
	return c.position
}

func (c *Cursor) End() int64 {
	return c.end
}

func (c *Cursor) Bounded() bool {
	return c.end != NoBound
}

// Limit is the absolute offset reads must stop at: the scope end when
// bounded, otherwise the buffer length.
func (c *Cursor) Limit() int64 {
	if c.end != NoBound && c.end < c.length {
		return c.end
	}
	return c.length
}

func (c *Cursor) FieldHeader() FieldHeader {
	return c.header
}

func (c *Cursor) SetFieldHeader(tag uint32) {
	c.header = FieldHeader(tag)
}

// Advance moves the position forward. Callers slice their window by the same
// count in the same step.
func (c *Cursor) Advance(n int) {
	c.position += int64(n)
}

func (c *Cursor) enter(length int) (Scope, error) {
	if length < 0 {
		return 0, errors.Wrapf(ErrorInvalidMessage, "negative message length %d", length)
	}
	end := c.position + int64(length)
	if end > c.Limit() {
		return 0, errors.Wrapf(ErrorOutOfBounds, "message of %d bytes at %d exceeds limit %d", length, c.position, c.Limit())
	}
	prev := Scope(c.end)
	c.end = end
	return prev, nil
}

func (c *Cursor) leave(s Scope) error {
	if c.end == NoBound {
		return errors.Wrap(ErrorInvalidMessage, "leave without enter")
	}
	if c.position != c.end {
		return errors.Wrapf(ErrorInvalidMessage, "message left at %d, ends at %d", c.position, c.end)
	}
	c.end = int64(s)
	return nil
}
