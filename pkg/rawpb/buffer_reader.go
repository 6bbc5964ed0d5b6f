package rawpb

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// BufferReader reads protobuf fields from a buffer that is entirely in memory.
// It is not safe for concurrent use and must not outlive the buffer.
type BufferReader struct {
	Cursor

	active   Buffer
	original Buffer

	fastText bool
	text     *textDecoder
}

func NewBufferReader(buf Buffer, fastText bool) *BufferReader {
	r := &BufferReader{
		Cursor:   NewCursor(buf.Len()),
		active:   buf,
		original: buf,
		fastText: fastText,
	}
	if fastText {
		r.text = newTextDecoder()
	}
	return r
}

// Remaining is the number of bytes left in the current window.
func (r *BufferReader) Remaining() int {
	return r.active.Len()
}

func (r *BufferReader) check(n int) error {
	if n < 0 || n > r.active.Len() {
		return errors.Wrapf(ErrorOutOfBounds, "read of %d bytes at %d, %d available", n, r.Position(), r.active.Len())
	}
	return nil
}

// consume drops n bytes from the front of the window and advances the cursor.
func (r *BufferReader) consume(n int) {
	r.active = r.active.Slice(n, r.active.Len()-n)
	r.Advance(n)
}

func (r *BufferReader) Skip(n int) error {
	if err := r.check(n); err != nil {
		return err
	}
	r.consume(n)
	return nil
}

func (r *BufferReader) ReadFixed32() (uint32, error) {
	if err := r.check(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.active.Span())
	r.consume(4)
	return v, nil
}

func (r *BufferReader) ReadFixed64() (uint64, error) {
	if err := r.check(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.active.Span())
	r.consume(8)
	return v, nil
}

// ReadBytes returns a copy of the next n bytes.
func (r *BufferReader) ReadBytes(n int) ([]byte, error) {
	if err := r.check(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.active.Span())
	r.consume(n)
	return b, nil
}

// ReadText decodes the next n bytes as UTF-8.
func (r *BufferReader) ReadText(n int) (string, error) {
	if err := r.check(n); err != nil {
		return "", err
	}

	var text string
	if r.fastText {
		var consumed int
		var err error
		text, consumed, err = r.text.decode(r.active.Span()[:n])
		if err != nil {
			return "", errors.Wrapf(ErrorTextDecode, "%s", err)
		}
		if consumed != n {
			return "", errors.Wrapf(ErrorTextDecode, "decoder consumed %d of %d bytes", consumed, n)
		}
	} else {
		switch mem := r.active.Memory(); mem.Kind() {
		case MemoryContiguous:
			text = decodeText(mem.Bytes()[:n])
		case MemoryRaw:
			var err error
			if text, err = mem.Raw().Text(n); err != nil {
				return "", err
			}
		case MemoryUnavailable:
			return "", errors.WithStack(ErrorUnsupportedBuffer)
		default:
			return "", errors.Wrapf(ErrorUnsupportedBuffer, "memory kind %d", mem.Kind())
		}
	}

	r.consume(n)
	return text, nil
}

// AssertNextField consumes the next tag only when it carries fieldNumber.
// Otherwise nothing changes, so callers can probe several numbers in turn.
func (r *BufferReader) AssertNextField(fieldNumber int) bool {
	tag, n, err := peekVarint(r.active.Span())
	// tags are 32 bits wide, as in ReadFieldHeader
	if err != nil || n == 0 || FieldHeader(uint32(tag)).Number() != fieldNumber {
		return false
	}
	r.SetFieldHeader(uint32(tag))
	r.consume(n)
	return true
}

func (r *BufferReader) ReadFieldHeader() (FieldHeader, bool, error) {
	tag, ok, err := r.TryReadVarint(true)
	if err != nil || !ok {
		return 0, ok, err
	}
	r.SetFieldHeader(tag)
	return FieldHeader(tag), true, nil
}

// TryReadVarint decodes the varint at the front of the window. ok is false
// when the window ends first. Wider values keep their low 32 bits.
func (r *BufferReader) TryReadVarint(consume bool) (uint32, bool, error) {
	v, ok, err := r.TryReadVarint64(consume)
	return uint32(v), ok, err
}

func (r *BufferReader) TryReadVarint64(consume bool) (uint64, bool, error) {
	v, n, err := peekVarint(r.active.Span())
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	if consume {
		r.consume(n)
	}
	return v, true, nil
}

// ApplyConstraint narrows the window to the current message scope.
func (r *BufferReader) ApplyConstraint() {
	if r.End() == NoBound {
		return
	}
	pos := int(r.Position())
	r.active = r.original.Slice(pos, int(r.Limit())-pos)
}

// RemoveConstraint widens the window to the rest of the buffer.
func (r *BufferReader) RemoveConstraint() {
	pos := int(r.Position())
	r.active = r.original.Slice(pos, r.original.Len()-pos)
}

// EnterMessage limits reads to the next length bytes.
func (r *BufferReader) EnterMessage(length int) (Scope, error) {
	s, err := r.enter(length)
	if err != nil {
		return 0, err
	}
	r.ApplyConstraint()
	return s, nil
}

// LeaveMessage skips whatever is left of the message and restores the
// enclosing scope.
func (r *BufferReader) LeaveMessage(s Scope) error {
	if !r.Bounded() {
		return errors.Wrap(ErrorInvalidMessage, "leave without enter")
	}
	if err := r.Skip(r.active.Len()); err != nil {
		return err
	}
	if err := r.leave(s); err != nil {
		return err
	}
	r.RemoveConstraint()
	r.ApplyConstraint()
	return nil
}
