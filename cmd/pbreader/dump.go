package main

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/pluto-metrics/pbreader/pkg/insert"
	"github.com/pluto-metrics/pbreader/pkg/insert/id"
	"github.com/pluto-metrics/pbreader/pkg/rawpb"
)

type dumpOpts struct {
	filename string
	snappy   bool
	fastText bool
	idFunc   string
}

// dump writes one line per series: id, labels and value@timestamp pairs.
// Uncompressed files are memory mapped and decoded in place.
func dump(w io.Writer, opts dumpOpts) error {
	var buf rawpb.Buffer
	if opts.snappy {
		compressed, err := os.ReadFile(opts.filename)
		if err != nil {
			return errors.WithStack(err)
		}
		raw, err := snappy.Decode(nil, compressed)
		if err != nil {
			return errors.Wrap(err, "can't decode snappy payload")
		}
		buf = rawpb.Bytes(raw)
	} else {
		mf, err := rawpb.OpenMapped(opts.filename)
		if err != nil {
			return err
		}
		defer mf.Close()
		buf = mf.Buffer()
	}

	h, err := id.New(opts.idFunc)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var line []byte

	err = insert.DecodeWriteRequest(rawpb.NewBufferReader(buf, opts.fastText), func(ts *insert.Timeseries) error {
		h.Update(ts.Labels)

		line = append(line[:0], h.ID()...)
		line = append(line, " {"...)
		for i := 0; i < len(ts.Labels); i++ {
			if i > 0 {
				line = append(line, ", "...)
			}
			line = append(line, ts.Labels[i].Name...)
			line = append(line, '=')
			line = strconv.AppendQuote(line, ts.Labels[i].Value)
		}
		line = append(line, '}')
		for i := 0; i < len(ts.Samples); i++ {
			line = append(line, ' ')
			line = strconv.AppendFloat(line, ts.Samples[i].Value, 'g', -1, 64)
			line = append(line, '@')
			line = strconv.AppendInt(line, ts.Samples[i].Timestamp, 10)
		}
		line = append(line, '\n')

		_, err := bw.Write(line)
		return err
	})
	if err != nil {
		return err
	}

	return bw.Flush()
}
