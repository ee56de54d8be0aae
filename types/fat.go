package types

import "encoding/binary"

// A FatHeader is the header of a universal (fat) file.
// The fat header and arch table are big-endian on disk.
type FatHeader struct {
	Magic Magic
	NArch uint32
}

const (
	FatHeaderSize        = 2 * 4
	FatArchHeaderSize    = 5 * 4
	FatHeaderNArchOffset = 4
)

// A FatArchHeader is one entry of the fat arch table.
type FatArchHeader struct {
	CPU    CPU
	SubCPU CPUSubtype
	Offset uint32
	Size   uint32
	Align  uint32
}

// fat_arch field offsets.
const (
	FatArchCPUOffset    = 0
	FatArchSubCPUOffset = 4
	FatArchOffsetOffset = 8
	FatArchSizeOffset   = 12
	FatArchAlignOffset  = 16
)

func (h *FatHeader) Put(b []byte, o binary.ByteOrder) int {
	o.PutUint32(b[0:], uint32(h.Magic))
	o.PutUint32(b[FatHeaderNArchOffset:], h.NArch)
	return FatHeaderSize
}

func (a *FatArchHeader) Put(b []byte, o binary.ByteOrder) int {
	o.PutUint32(b[FatArchCPUOffset:], uint32(a.CPU))
	o.PutUint32(b[FatArchSubCPUOffset:], uint32(a.SubCPU))
	o.PutUint32(b[FatArchOffsetOffset:], a.Offset)
	o.PutUint32(b[FatArchSizeOffset:], a.Size)
	o.PutUint32(b[FatArchAlignOffset:], a.Align)
	return FatArchHeaderSize
}
