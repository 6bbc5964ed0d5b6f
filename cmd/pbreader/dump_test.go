package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	proto "github.com/gogo/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/pluto-metrics/pbreader/pkg/rawpb"
	"github.com/prometheus/prometheus/prompb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T) []byte {
	raw, err := proto.Marshal(&prompb.WriteRequest{
		Timeseries: []prompb.TimeSeries{
			{
				Labels: []prompb.Label{
					{Name: "job", Value: "node"},
					{Name: "__name__", Value: "up"},
				},
				Samples: []prompb.Sample{{Value: 1, Timestamp: 1000}, {Value: 0.5, Timestamp: 2000}},
			},
			{
				Labels:  []prompb.Label{{Name: "__name__", Value: "temp \"c\""}},
				Samples: []prompb.Sample{{Value: -3, Timestamp: 3000}},
			},
		},
	})
	require.NoError(t, err)
	return raw
}

const dumpWant = `noop {job="node", __name__="up"} 1@1000 0.5@2000
noop {__name__="temp \"c\""} -3@3000
`

func TestDump(t *testing.T) {
	dir := t.TempDir()
	raw := payload(t)

	plain := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(plain, raw, 0600))
	compressed := filepath.Join(dir, "payload.snappy")
	require.NoError(t, os.WriteFile(compressed, snappy.Encode(nil, raw), 0600))

	tests := []struct {
		name string
		opts dumpOpts
	}{
		{"mapped", dumpOpts{filename: plain, idFunc: "noop"}},
		{"mapped fast text", dumpOpts{filename: plain, idFunc: "noop", fastText: true}},
		{"snappy", dumpOpts{filename: compressed, snappy: true, idFunc: "noop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.NoError(t, dump(&out, tt.opts))
			assert.Equal(t, dumpWant, out.String())
		})
	}
}

func TestDumpErrors(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := dump(&out, dumpOpts{filename: filepath.Join(dir, "missing"), idFunc: "noop"})
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.bin")
	require.NoError(t, os.WriteFile(bad, []byte{0x0a, 0x10, 0x0a}, 0600))
	err = dump(&out, dumpOpts{filename: bad, idFunc: "noop"})
	assert.ErrorIs(t, err, rawpb.ErrorTruncated)

	err = dump(&out, dumpOpts{filename: bad, snappy: true, idFunc: "noop"})
	assert.Error(t, err)

	err = dump(&out, dumpOpts{filename: bad, idFunc: "md5"})
	assert.Error(t, err)
}
