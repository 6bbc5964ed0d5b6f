package rawpb

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// MappedFile is a read-only memory mapping of a file. Its buffer reports raw
// memory, so text is decoded straight from the mapping.
type MappedFile struct {
	f    *os.File
	m    mmap.MMap
	span RawSpan
}

func OpenMapped(filename string) (*MappedFile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.WithStack(err)
	}

	mf := &MappedFile{f: f}

	// zero-length files can't be mapped
	if st.Size() == 0 {
		return mf, nil
	}

	mf.m, err = mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mmap %s", filename)
	}
	mf.span = NewRawSpan(mf.m)

	return mf, nil
}

func (mf *MappedFile) Len() int {
	return mf.span.Len()
}

// Buffer is valid until Close.
func (mf *MappedFile) Buffer() Buffer {
	return RawBuffer(mf.span)
}

func (mf *MappedFile) Close() error {
	mf.span = RawSpan{}
	if mf.m != nil {
		if err := mf.m.Unmap(); err != nil {
			mf.f.Close()
			return errors.WithStack(err)
		}
		mf.m = nil
	}
	return errors.WithStack(mf.f.Close())
}
