package macho

import (
	"fmt"
	"io"
)

// A Source is a read-only, random access view of a file's bytes.
// *io.SectionReader, *bytes.Reader and *strings.Reader satisfy it.
type Source interface {
	io.ReaderAt
	Size() int64
}

// bounded limits a Source to the bytes before end while keeping
// absolute offsets, so a fat member is decoded with file offsets but
// cannot read past its declared size.
type bounded struct {
	Source
	end int64
}

func (b *bounded) Size() int64 {
	if n := b.Source.Size(); n < b.end {
		return n
	}
	return b.end
}

func readAt(src Source, off int64, n int) ([]byte, error) {
	size := src.Size()
	if off < 0 || off > size || int64(n) > size-off {
		avail := size - off
		if avail < 0 {
			avail = 0
		}
		return nil, &FormatError{
			Kind: InputUnavailable,
			Off:  off,
			Msg:  fmt.Sprintf("need %d bytes, %d available", n, avail),
		}
	}
	dat := make([]byte, n)
	if got, err := src.ReadAt(dat, off); got < n {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, &FormatError{Kind: InputUnavailable, Off: off, Msg: "short read", Err: err}
	}
	return dat, nil
}
