package rawpb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// opaque hides the representation of a buffer.
type opaque struct {
	Buffer
}

func (o opaque) Slice(offset, length int) Buffer {
	return opaque{Buffer: o.Buffer.Slice(offset, length)}
}

func (o opaque) Memory() Memory {
	return Memory{}
}

type bufferCase struct {
	name     string
	fastText bool
	buf      Buffer
}

// allBuffers returns data behind every buffer representation, in both text
// modes. Mapped files are closed when the test ends.
func allBuffers(t testing.TB, data []byte) []bufferCase {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(filename, data, 0600))
	mf, err := OpenMapped(filename)
	require.NoError(t, err)
	t.Cleanup(func() { mf.Close() })

	own := append([]byte(nil), data...)

	var ret []bufferCase
	for _, fast := range []bool{false, true} {
		ret = append(ret,
			bufferCase{name: "contiguous", fastText: fast, buf: Bytes(data)},
			bufferCase{name: "raw", fastText: fast, buf: RawBuffer(NewRawSpan(own))},
			bufferCase{name: "mapped", fastText: fast, buf: mf.Buffer()},
		)
	}
	ret = append(ret, bufferCase{name: "opaque", fastText: true, buf: opaque{Bytes(data)}})
	return ret
}

func (c bufferCase) label() string {
	if c.fastText {
		return c.name + "/fast"
	}
	return c.name
}

// state is everything a failed probe must leave untouched.
type state struct {
	position  int64
	end       int64
	remaining int
	header    FieldHeader
}

func stateOf(r *BufferReader) state {
	return state{
		position:  r.Position(),
		end:       r.End(),
		remaining: r.Remaining(),
		header:    r.FieldHeader(),
	}
}
