package id

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/OneOfOne/xxhash"
	"github.com/prometheus/prometheus/prompb"
)

// NameWithXXHash identifies a series as "<escaped name>?<xxhash64 of sorted labels>".
type NameWithXXHash struct {
	h    *xxhash.XXHash64
	buf  []byte
	name string
	id   string
}

func NewNameWithXXHash() *NameWithXXHash {
	return &NameWithXXHash{
		h: xxhash.New64(),
	}
}

func (p *NameWithXXHash) Update(labels []prompb.Label) {
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].Name < labels[j].Name
	})

	p.h.Reset()
	p.name = ""

	for i := 0; i < len(labels); i++ {
		p.buf = p.buf[:0]
		if i > 0 {
			p.buf = append(p.buf, '&')
		}
		p.buf = append(p.buf, url.QueryEscape(labels[i].Name)...)
		p.buf = append(p.buf, '=')
		p.buf = append(p.buf, url.QueryEscape(labels[i].Value)...)
		p.h.Write(p.buf)

		if labels[i].Name == "__name__" {
			p.name = labels[i].Value
		}
	}

	p.id = fmt.Sprintf("%s?%016x", url.QueryEscape(p.name), p.h.Sum64())
}

func (p *NameWithXXHash) ID() string {
	return p.id
}

func (p *NameWithXXHash) Name() string {
	return p.name
}
