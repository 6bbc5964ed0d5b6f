package rawpb

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Buffer is a read-only byte region a BufferReader windows over.
// Slice must not copy.
type Buffer interface {
	Len() int
	Slice(offset, length int) Buffer
	// Span is the region as a byte slice, valid as long as the buffer is.
	Span() []byte
	// Memory reports how the region is addressable. The zero Memory means
	// the buffer exposes no representation.
	Memory() Memory
}

type MemoryKind uint8

const (
	MemoryUnavailable MemoryKind = iota
	MemoryContiguous
	MemoryRaw
)

func (k MemoryKind) String() string {
	switch k {
	case MemoryContiguous:
		return "contiguous"
	case MemoryRaw:
		return "raw"
	default:
		return "unavailable"
	}
}

// Memory is the representation behind a buffer: a Go byte slice, a raw span
// of memory outside the Go heap, or nothing.
type Memory struct {
	kind  MemoryKind
	bytes []byte
	raw   RawSpan
}

func ContiguousMemory(b []byte) Memory {
	return Memory{kind: MemoryContiguous, bytes: b}
}

func RawMemory(s RawSpan) Memory {
	return Memory{kind: MemoryRaw, raw: s}
}

func (m Memory) Kind() MemoryKind {
	return m.kind
}

// Bytes is the backing slice of contiguous memory.
func (m Memory) Bytes() []byte {
	return m.bytes
}

// Raw is the span of raw memory.
func (m Memory) Raw() RawSpan {
	return m.raw
}

// RawSpan is a bounds-checked view of memory the Go runtime does not manage,
// such as a file mapping. The owner of the memory keeps it alive.
type RawSpan struct {
	ptr unsafe.Pointer
	n   int
}

// NewRawSpan covers the memory of b. b must stay mapped while the span is used.
func NewRawSpan(b []byte) RawSpan {
	if len(b) == 0 {
		return RawSpan{}
	}
	return RawSpan{ptr: unsafe.Pointer(unsafe.SliceData(b)), n: len(b)}
}

func (s RawSpan) Len() int {
	return s.n
}

func (s RawSpan) Slice(offset, length int) (RawSpan, error) {
	if offset < 0 || length < 0 || offset > s.n || length > s.n-offset {
		return RawSpan{}, errors.Wrapf(ErrorOutOfBounds, "span [%d:+%d] of %d bytes", offset, length, s.n)
	}
	if length == 0 {
		return RawSpan{}, nil
	}
	return RawSpan{ptr: unsafe.Add(s.ptr, offset), n: length}, nil
}

func (s RawSpan) bytes() []byte {
	if s.n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(s.ptr), s.n)
}

// Text decodes the first n bytes of the span as UTF-8 into a new string.
func (s RawSpan) Text(n int) (string, error) {
	head, err := s.Slice(0, n)
	if err != nil {
		return "", err
	}
	return decodeText(head.bytes()), nil
}

// Bytes is a Buffer over a Go byte slice.
type Bytes []byte

func (b Bytes) Len() int {
	return len(b)
}

func (b Bytes) Slice(offset, length int) Buffer {
	return b[offset : offset+length : offset+length]
}

func (b Bytes) Span() []byte {
	return b
}

func (b Bytes) Memory() Memory {
	return ContiguousMemory(b)
}

// rawBuffer is a Buffer over a RawSpan.
type rawBuffer struct {
	span RawSpan
}

// RawBuffer wraps a raw span as a Buffer.
func RawBuffer(s RawSpan) Buffer {
	return rawBuffer{span: s}
}

func (b rawBuffer) Len() int {
	return b.span.Len()
}

func (b rawBuffer) Slice(offset, length int) Buffer {
	s, err := b.span.Slice(offset, length)
	if err != nil {
		panic(err)
	}
	return rawBuffer{span: s}
}

func (b rawBuffer) Span() []byte {
	return b.span.bytes()
}

func (b rawBuffer) Memory() Memory {
	return RawMemory(b.span)
}
