package macho

// High level access to the layout of a Mach-O file.

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/appsworld/machodump/types"
)

// An Image is one thin Mach-O image: the whole file when it is thin,
// or one member of a fat file.
type Image struct {
	// Arch is the fat arch entry the image came from, nil for thin files.
	Arch *FatArch `json:"arch,omitempty"`
	Ident
	Header *Header       `json:"header,omitempty"`
	Loads  []LoadCommand `json:"loads"`
	Err    error         `json:"-"`
}

// Segments returns the image's segment commands in file order.
func (img *Image) Segments() []*Segment {
	var segs []*Segment
	for _, l := range img.Loads {
		if l.Segment != nil {
			segs = append(segs, l.Segment)
		}
	}
	return segs
}

// LoadSize returns the sum of the decoded commands' declared sizes.
func (img *Image) LoadSize() uint32 {
	var sz uint32
	for _, l := range img.Loads {
		sz += l.Len
	}
	return sz
}

// A Report is the decoded layout of a whole file.
type Report struct {
	Path string `json:"path,omitempty"`
	Size int64  `json:"size"`
	Ident
	// Arches is the fat architecture table, including malformed entries.
	Arches []FatArch `json:"arches,omitempty"`
	// Images holds one entry per thin image that was decoded or attempted.
	// Fat entries rejected as malformed have no image.
	Images []*Image `json:"images"`
	// Errors collects every error attached to an arch entry or image.
	Errors []error `json:"-"`
}

// Err joins every error found while walking the file, or nil.
func (r *Report) Err() error {
	return errors.Join(r.Errors...)
}

func (r *Report) addImage(img *Image) {
	r.Images = append(r.Images, img)
	if img.Err != nil {
		r.Errors = append(r.Errors, img.Err)
	}
}

// Open opens the named file using os.Open and inspects it.
// The file is closed before Open returns.
func Open(name string) (*Report, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &FormatError{Kind: InputUnavailable, Msg: "failed to open " + name, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, &FormatError{Kind: InputUnavailable, Msg: "failed to stat " + name, Err: err}
	}

	r, err := Inspect(io.NewSectionReader(f, 0, fi.Size()))
	if err != nil {
		return nil, err
	}
	r.Path = name
	return r, nil
}

// Inspect decodes the layout of the Mach-O file in src.
//
// A returned error means nothing could be decoded: the magic number is
// missing or unknown. Problems inside the file are attached to the
// affected arch entry or image and collected on the report.
func Inspect(src Source) (*Report, error) {
	id, err := Sniff(src, 0)
	if err != nil {
		return nil, err
	}

	r := &Report{Size: src.Size(), Ident: *id}
	if !id.Fat {
		r.addImage(inspectImage(src, *id))
		return r, nil
	}

	arches, err := ReadFatArches(src, id.Order)
	r.Arches = arches
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
	for i := range r.Arches {
		fa := &r.Arches[i]
		if fa.Err != nil {
			r.Errors = append(r.Errors, fa.Err)
			continue
		}
		r.addImage(inspectMember(src, fa))
	}

	return r, nil
}

// inspectMember decodes one fat member. The member carries its own magic,
// sniffed without regard to the outer fat header's byte order.
func inspectMember(src Source, fa *FatArch) *Image {
	off := int64(fa.Offset)
	member := &bounded{Source: src, end: off + int64(fa.Size)}

	mid, err := Sniff(member, off)
	if err == nil && mid.Fat {
		err = &FormatError{Kind: UnrecognizedFormat, Off: off, Msg: "fat member is not a thin image", Val: mid.Magic}
	}
	if err != nil {
		return &Image{Arch: fa, Ident: Ident{Offset: off}, Err: fmt.Errorf("arch %d: %w", fa.Index, err)}
	}

	img := inspectImage(member, *mid)
	img.Arch = fa
	if img.Err != nil {
		img.Err = fmt.Errorf("arch %d (%s): %w", fa.Index, fa.CPU.Name(), img.Err)
	}
	return img
}

func inspectImage(src Source, id Ident) *Image {
	img := &Image{Ident: id}

	hdr, err := DecodeHeader(src, id.Offset, id.Class, id.Order)
	if err != nil {
		img.Err = fmt.Errorf("failed to read mach header: %w", err)
		return img
	}
	img.Header = hdr

	start := id.Offset + int64(hdr.Size)
	img.Loads, err = WalkLoadCommands(src, start, id.Order, hdr.NCommands)
	if err != nil {
		img.Err = fmt.Errorf("failed to walk load commands: %w", err)
		return img
	}

	if sz := img.LoadSize(); sz != hdr.SizeCommands {
		img.Err = &FormatError{
			Kind: MalformedLoadCommand,
			Off:  id.Offset + types.HeaderSizeCommandsOffset,
			Msg:  fmt.Sprintf("recorded command size %d does not equal computed command size", hdr.SizeCommands),
			Val:  sz,
		}
	}

	return img
}
