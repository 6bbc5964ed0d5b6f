package id

import (
	"github.com/prometheus/prometheus/prompb"
)

// Noop gives every series the same id and skips hashing, so decoding cost
// can be measured alone. Name is still reported.
type Noop struct {
	name string
}

func NewNoop() *Noop {
	return &Noop{}
}

func (h *Noop) Update(labels []prompb.Label) {
	h.name = ""
	for i := 0; i < len(labels); i++ {
		if labels[i].Name == "__name__" {
			h.name = labels[i].Value
			return
		}
	}
}

func (h *Noop) ID() string {
	return "noop"
}

func (h *Noop) Name() string {
	return h.name
}
