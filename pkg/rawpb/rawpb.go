package rawpb

import (
	"github.com/pkg/errors"
)

var ErrorTruncated = errors.New("Message truncated")
var ErrorUnknownWireType = errors.New("Unknown wire type")
var ErrorInvalidMessage = errors.New("Invalid message")
var ErrorWrongWireType = errors.New("Wrong wire type")
var ErrorOutOfBounds = errors.New("Read out of bounds")
var ErrorUnsupportedBuffer = errors.New("No text decoding for buffer")
var ErrorTextDecode = errors.New("Text decoder consumed wrong byte count")
var ErrorVarintOverflow = errors.New("Varint overflows 64 bits")

type field struct {
	varint  func(v uint64) error
	fixed64 func(v uint64) error
	fixed32 func(v uint32) error
	bytes   func(src Source, n int) error
}

type RawPB struct {
	beginFunc func() error
	schema    map[int]*field
	endFunc   func() error
}

func New(opts ...Option) *RawPB {
	r := &RawPB{
		schema: make(map[int]*field),
	}

	for _, o := range opts {
		o(r)
	}

	return r
}

func (pb *RawPB) setField(num int, f field) {
	pb.schema[num] = &f
}

// Parse decodes a whole message held in body.
func (pb *RawPB) Parse(body []byte) error {
	return pb.Decode(NewBufferReader(Bytes(body), false))
}

// Decode reads fields from src until its window is exhausted.
func (pb *RawPB) Decode(src Source) error {
	if pb.beginFunc != nil {
		if err := pb.beginFunc(); err != nil {
			return err
		}
	}

	var f *field
	num := 0
	for {
		// repeated fields usually come in a row; nested messages overwrite
		// the header, so the number is kept here
		if f == nil || !src.AssertNextField(num) {
			h, ok, err := src.ReadFieldHeader()
			if err != nil {
				return err
			}
			if !ok {
				if src.Remaining() > 0 {
					return errors.WithStack(ErrorTruncated)
				}
				break
			}
			num = h.Number()
			f = pb.schema[num]
		}

		if err := pb.value(src, src.FieldHeader().WireType(), f); err != nil {
			return err
		}
	}

	if pb.endFunc != nil {
		return pb.endFunc()
	}
	return nil
}

func (pb *RawPB) value(src Source, wt WireType, f *field) error {
	switch wt {
	case WireVarint:
		v, ok, err := src.TryReadVarint64(true)
		if err != nil {
			return err
		}
		if !ok {
			return errors.WithStack(ErrorTruncated)
		}
		if f == nil {
			return nil
		}
		if f.varint == nil {
			return errors.WithStack(ErrorWrongWireType)
		}
		return f.varint(v)
	case WireFixed64:
		if f == nil {
			return truncated(src.Skip(8))
		}
		if f.fixed64 == nil {
			return errors.WithStack(ErrorWrongWireType)
		}
		v, err := src.ReadFixed64()
		if err != nil {
			return truncated(err)
		}
		return f.fixed64(v)
	case WireBytes:
		l, ok, err := src.TryReadVarint64(true)
		if err != nil {
			return err
		}
		if !ok {
			return errors.WithStack(ErrorTruncated)
		}
		if l > uint64(src.Remaining()) {
			return errors.WithStack(ErrorTruncated)
		}
		n := int(l)
		switch {
		case f == nil:
			return src.Skip(n)
		case f.bytes != nil:
			return f.bytes(src, n)
		case f.varint != nil || f.fixed64 != nil || f.fixed32 != nil:
			return pb.packed(src, n, f)
		default:
			return src.Skip(n)
		}
	case WireFixed32:
		if f == nil {
			return truncated(src.Skip(4))
		}
		if f.fixed32 == nil {
			return errors.WithStack(ErrorWrongWireType)
		}
		v, err := src.ReadFixed32()
		if err != nil {
			return truncated(err)
		}
		return f.fixed32(v)
	default:
		return errors.WithStack(ErrorUnknownWireType)
	}
}

// packed decodes a packed repeated scalar field of n bytes.
func (pb *RawPB) packed(src Source, n int, f *field) error {
	s, err := src.EnterMessage(n)
	if err != nil {
		return err
	}
	for src.Remaining() > 0 {
		switch {
		case f.varint != nil:
			v, ok, err := src.TryReadVarint64(true)
			if err != nil {
				return err
			}
			if !ok {
				return errors.WithStack(ErrorTruncated)
			}
			err = f.varint(v)
			if err != nil {
				return err
			}
		case f.fixed64 != nil:
			v, err := src.ReadFixed64()
			if err != nil {
				return truncated(err)
			}
			if err = f.fixed64(v); err != nil {
				return err
			}
		default:
			v, err := src.ReadFixed32()
			if err != nil {
				return truncated(err)
			}
			if err = f.fixed32(v); err != nil {
				return err
			}
		}
	}
	return src.LeaveMessage(s)
}

func truncated(err error) error {
	if errors.Is(err, ErrorOutOfBounds) {
		return errors.WithStack(ErrorTruncated)
	}
	return err
}
