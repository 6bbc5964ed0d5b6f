package rawpb

import (
	"math"
)

type Option func(*RawPB)

// Begin is called before the fields of each message instance.
func Begin(f func() error) Option {
	return func(p *RawPB) {
		p.beginFunc = f
	}
}

// End is called once a message instance has been read completely.
func End(f func() error) Option {
	return func(p *RawPB) {
		p.endFunc = f
	}
}

// FieldBytes passes a copy of the field payload to f.
func FieldBytes(num int, f func([]byte) error) Option {
	return func(p *RawPB) {
		p.setField(num, field{
			bytes: func(src Source, n int) error {
				v, err := src.ReadBytes(n)
				if err != nil {
					return err
				}
				return f(v)
			},
		})
	}
}

// FieldNested decodes the field as a message of schema n, in place.
func FieldNested(num int, n *RawPB) Option {
	return func(p *RawPB) {
		p.setField(num, field{
			bytes: func(src Source, l int) error {
				s, err := src.EnterMessage(l)
				if err != nil {
					return err
				}
				if err = n.Decode(src); err != nil {
					return err
				}
				return src.LeaveMessage(s)
			},
		})
	}
}

func FieldString(num int, f func(string) error) Option {
	return func(p *RawPB) {
		p.setField(num, field{
			bytes: func(src Source, n int) error {
				v, err := src.ReadText(n)
				if err != nil {
					return err
				}
				return f(v)
			},
		})
	}
}

func FieldInt64(num int, f func(int64) error) Option {
	return FieldUint64(num, func(v uint64) error {
		return f(int64(v))
	})
}

func FieldInt32(num int, f func(int32) error) Option {
	return FieldUint64(num, func(v uint64) error {
		return f(int32(v))
	})
}

func FieldUint32(num int, f func(uint32) error) Option {
	return FieldUint64(num, func(v uint64) error {
		return f(uint32(v))
	})
}

func FieldSint64(num int, f func(int64) error) Option {
	return FieldUint64(num, func(v uint64) error {
		return f(decodeZigZag64(v))
	})
}

func FieldBool(num int, f func(bool) error) Option {
	return FieldUint64(num, func(v uint64) error {
		return f(v != 0)
	})
}

func FieldUint64(num int, f func(uint64) error) Option {
	return func(p *RawPB) {
		p.setField(num, field{
			varint: f,
		})
	}
}

func FieldFixed64(num int, f func(uint64) error) Option {
	return func(p *RawPB) {
		p.setField(num, field{
			fixed64: f,
		})
	}
}

func FieldFloat64(num int, f func(float64) error) Option {
	return FieldFixed64(num, func(v uint64) error {
		return f(math.Float64frombits(v))
	})
}

func FieldFixed32(num int, f func(uint32) error) Option {
	return func(p *RawPB) {
		p.setField(num, field{
			fixed32: f,
		})
	}
}

func FieldFloat32(num int, f func(float32) error) Option {
	return FieldFixed32(num, func(v uint32) error {
		return f(math.Float32frombits(v))
	})
}
