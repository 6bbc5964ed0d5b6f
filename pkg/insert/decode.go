package insert

import (
	"sync"

	"github.com/pluto-metrics/pbreader/pkg/rawpb"
	"github.com/prometheus/prometheus/prompb"
)

var timeseriesPool = sync.Pool{
	New: func() interface{} { return &Timeseries{} },
}

// Timeseries is one decoded series of a remote write request. It is reused
// between series, so visitors must copy whatever they keep.
type Timeseries struct {
	Labels  []prompb.Label
	Samples []prompb.Sample
}

// Name returns the value of the __name__ label.
func (p *Timeseries) Name() string {
	for i := 0; i < len(p.Labels); i++ {
		if p.Labels[i].Name == "__name__" {
			return p.Labels[i].Value
		}
	}
	return ""
}

func (p *Timeseries) begin() error {
	p.Labels = p.Labels[:0]
	p.Samples = p.Samples[:0]
	return nil
}

func (p *Timeseries) labelBegin() error {
	p.Labels = append(p.Labels, prompb.Label{})
	return nil
}

func (p *Timeseries) labelName(v string) error {
	p.Labels[len(p.Labels)-1].Name = v
	return nil
}

func (p *Timeseries) labelValue(v string) error {
	p.Labels[len(p.Labels)-1].Value = v
	return nil
}

func (p *Timeseries) sampleBegin() error {
	p.Samples = append(p.Samples, prompb.Sample{})
	return nil
}

func (p *Timeseries) sampleValue(v float64) error {
	p.Samples[len(p.Samples)-1].Value = v
	return nil
}

func (p *Timeseries) sampleTimestamp(v int64) error {
	p.Samples[len(p.Samples)-1].Timestamp = v
	return nil
}

// DecodeWriteRequest reads a prometheus remote write request from src and
// calls visit after every series. Exemplars, histograms and metadata are
// skipped.
func DecodeWriteRequest(src rawpb.Source, visit func(*Timeseries) error) error {
	ts := timeseriesPool.Get().(*Timeseries)
	defer timeseriesPool.Put(ts)

	parser := rawpb.New(
		rawpb.FieldNested(1, rawpb.New(
			rawpb.Begin(ts.begin),
			rawpb.FieldNested(1, rawpb.New(
				rawpb.Begin(ts.labelBegin),
				rawpb.FieldString(1, ts.labelName),
				rawpb.FieldString(2, ts.labelValue),
			)),
			rawpb.FieldNested(2, rawpb.New(
				rawpb.Begin(ts.sampleBegin),
				rawpb.FieldFloat64(1, ts.sampleValue),
				rawpb.FieldInt64(2, ts.sampleTimestamp),
			)),
			rawpb.End(func() error {
				return visit(ts)
			}),
		)),
	)

	return parser.Decode(src)
}
