// Package machotest builds small Mach-O images in memory for tests.
//
// Images are synthesised instead of checked in so every byte order and
// word size can be produced from the same description.
package machotest

import (
	"bytes"
	"encoding/binary"

	"github.com/appsworld/machodump/types"
)

// A Command describes one load command.
type Command struct {
	Cmd types.LoadCmd
	// Size is the declared cmdsize. Zero picks the natural size: the
	// segment record for segment commands, the bare header otherwise.
	// Use Raw to declare a cmdsize of zero.
	Size uint32
	// Raw writes Size verbatim, even when it is zero.
	Raw bool

	// segment fields, used when Cmd is LC_SEGMENT or LC_SEGMENT_64
	SegName string
	Addr    uint64
	Memsz   uint64
	Offset  uint64
	Filesz  uint64
	Maxprot types.VmProtection
	Prot    types.VmProtection
	Nsect   uint32
	Flag    types.SegFlag
}

// Segment64 returns an LC_SEGMENT_64 command named name.
func Segment64(name string, addr, size uint64) Command {
	return Command{Cmd: types.LC_SEGMENT_64, SegName: name, Addr: addr, Memsz: size, Filesz: size, Maxprot: 7, Prot: 5}
}

// Segment32 returns an LC_SEGMENT command named name.
func Segment32(name string, addr, size uint64) Command {
	return Command{Cmd: types.LC_SEGMENT, SegName: name, Addr: addr, Memsz: size, Filesz: size, Maxprot: 7, Prot: 5}
}

// Other returns a command that is only a tag and size, padded with zeros.
func Other(cmd types.LoadCmd, size uint32) Command {
	return Command{Cmd: cmd, Size: size, Raw: true}
}

func (c Command) declared() uint32 {
	if c.Raw || c.Size != 0 {
		return c.Size
	}
	switch c.Cmd {
	case types.LC_SEGMENT_64:
		return types.Segment64Size
	case types.LC_SEGMENT:
		return types.Segment32Size
	}
	return types.LoadCmdHeaderSize
}

func (c Command) bytes(o binary.ByteOrder) []byte {
	siz := c.declared()
	n := int(siz)
	if n < types.LoadCmdHeaderSize {
		n = types.LoadCmdHeaderSize
	}
	b := make([]byte, n)
	switch {
	case c.Cmd == types.LC_SEGMENT_64 && n >= types.Segment64Size:
		seg := types.Segment64{
			LoadCmd: c.Cmd, Len: siz,
			Addr: c.Addr, Memsz: c.Memsz, Offset: c.Offset, Filesz: c.Filesz,
			Maxprot: c.Maxprot, Prot: c.Prot, Nsect: c.Nsect, Flag: c.Flag,
		}
		types.PutAtMost16Bytes(seg.Name[:], c.SegName)
		seg.Put(b, o)
	case c.Cmd == types.LC_SEGMENT && n >= types.Segment32Size:
		seg := types.Segment32{
			LoadCmd: c.Cmd, Len: siz,
			Addr: uint32(c.Addr), Memsz: uint32(c.Memsz), Offset: uint32(c.Offset), Filesz: uint32(c.Filesz),
			Maxprot: c.Maxprot, Prot: c.Prot, Nsect: c.Nsect, Flag: c.Flag,
		}
		types.PutAtMost16Bytes(seg.Name[:], c.SegName)
		seg.Put(b, o)
	default:
		types.PutLoadCmdHeader(b, o, c.Cmd, siz)
	}
	return b
}

// An Image describes a thin Mach-O image.
type Image struct {
	Wide   bool             // 64-bit header and magic
	Order  binary.ByteOrder // on-disk byte order
	CPU    types.CPU
	SubCPU types.CPUSubtype
	Type   types.HeaderFileType
	Flags  types.HeaderFlag

	Commands []Command

	// NCommands and SizeCommands override the computed header
	// fields when non-nil.
	NCommands    *uint32
	SizeCommands *uint32

	// Trailer is appended after the load commands.
	Trailer []byte
}

// Header returns the header the image will be written with.
func (img *Image) Header() types.FileHeader {
	h := types.FileHeader{
		Magic:  types.Magic32,
		CPU:    img.CPU,
		SubCPU: img.SubCPU,
		Type:   img.Type,
		Flags:  img.Flags,
	}
	if img.Wide {
		h.Magic = types.Magic64
	}
	h.NCommands = uint32(len(img.Commands))
	for _, c := range img.Commands {
		h.SizeCommands += c.declared()
	}
	if img.NCommands != nil {
		h.NCommands = *img.NCommands
	}
	if img.SizeCommands != nil {
		h.SizeCommands = *img.SizeCommands
	}
	return h
}

// Bytes encodes the image.
func (img *Image) Bytes() []byte {
	o := img.order()
	h := img.Header()

	hdr := make([]byte, types.FileHeaderSize64)
	n := h.Put(hdr, o, img.Wide)

	var buf bytes.Buffer
	buf.Write(hdr[:n])
	for _, c := range img.Commands {
		buf.Write(c.bytes(o))
	}
	buf.Write(img.Trailer)
	return buf.Bytes()
}

func (img *Image) order() binary.ByteOrder {
	if img.Order == nil {
		return binary.LittleEndian
	}
	return img.Order
}

// An Arch is one member of a fat file.
type Arch struct {
	CPU    types.CPU
	SubCPU types.CPUSubtype
	Align  uint32 // log2; zero means 12
	// Image is encoded as the member unless Raw is set.
	Image *Image
	Raw   []byte
	// Offset and Size override the arch table entry when non-zero.
	Offset uint32
	Size   uint32
}

// A Fat describes a universal file.
type Fat struct {
	Order  binary.ByteOrder // zero means big-endian, as lipo writes it
	Arches []Arch
	// NArch overrides the arch count when non-nil.
	NArch *uint32
}

func align(offset, v uint64) uint64 {
	return (offset + v - 1) / v * v
}

// Bytes encodes the fat header, arch table and members.
func (f *Fat) Bytes() []byte {
	o := f.Order
	if o == nil {
		o = binary.BigEndian
	}

	members := make([][]byte, len(f.Arches))
	for i, a := range f.Arches {
		if a.Raw != nil {
			members[i] = a.Raw
		} else if a.Image != nil {
			members[i] = a.Image.Bytes()
		}
	}

	hdr := types.FatHeader{Magic: types.MagicFat, NArch: uint32(len(f.Arches))}
	if f.NArch != nil {
		hdr.NArch = *f.NArch
	}
	tableEnd := uint64(types.FatHeaderSize + types.FatArchHeaderSize*len(f.Arches))

	entries := make([]types.FatArchHeader, len(f.Arches))
	next := tableEnd
	for i, a := range f.Arches {
		al := a.Align
		if al == 0 {
			al = 12
		}
		off := align(next, 1<<al)
		entries[i] = types.FatArchHeader{
			CPU:    a.CPU,
			SubCPU: a.SubCPU,
			Offset: uint32(off),
			Size:   uint32(len(members[i])),
			Align:  al,
		}
		next = off + uint64(len(members[i]))
	}

	out := make([]byte, next)
	hdr.Put(out, o)
	for i, a := range f.Arches {
		copy(out[entries[i].Offset:], members[i])
		if a.Offset != 0 {
			entries[i].Offset = a.Offset
		}
		if a.Size != 0 {
			entries[i].Size = a.Size
		}
		entries[i].Put(out[types.FatHeaderSize+types.FatArchHeaderSize*i:], o)
	}
	return out
}

// Uint32 returns a pointer to v, for the override fields.
func Uint32(v uint32) *uint32 { return &v }
