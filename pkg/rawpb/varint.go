package rawpb

import (
	"github.com/dennwc/varint"
	"github.com/pkg/errors"
)

// maxVarintLen is the longest encoding of a 64-bit varint.
const maxVarintLen = 10

// peekVarint decodes the varint at the front of b without consuming it.
// n is the encoded size, zero when b ends before the varint does.
func peekVarint(b []byte) (v uint64, n int, err error) {
	if len(b) > maxVarintLen {
		b = b[:maxVarintLen]
	}
	v, n = varint.Uvarint(b)
	switch {
	case n > 0:
		return v, n, nil
	case n == 0 && len(b) < maxVarintLen:
		return 0, 0, nil
	default:
		return 0, 0, errors.WithStack(ErrorVarintOverflow)
	}
}

// decodeZigZag64 decodes a sint64 value.
func decodeZigZag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
