package macho

import (
	"fmt"
	"math"

	"github.com/appsworld/machodump/types"
)

// A FatArch is one entry of a fat file's architecture table.
type FatArch struct {
	Index  int              `json:"index"`
	CPU    types.CPU        `json:"cputype"`
	SubCPU types.CPUSubtype `json:"cpusubtype"`
	Offset uint32           `json:"offset"`
	Size   uint32           `json:"size"`
	Align  uint32           `json:"align"`
	// Err is set when the entry does not describe bytes inside the file.
	Err error `json:"-"`
}

func (fa *FatArch) String() string {
	return fmt.Sprintf("arch[%d] %s (%s) offset=%#x size=%#x align=2^%d",
		fa.Index, fa.CPU.Name(), fa.SubCPU.String(fa.CPU), fa.Offset, fa.Size, fa.Align)
}

// ReadFatArches reads the fat header at offset 0 and its architecture table.
//
// Entries are returned in table order. An entry whose offset+size runs past
// the end of src is returned with Err set to a MalformedFatEntry error.
// If the table itself is cut short the entries read so far are returned
// together with the InputUnavailable error. The walk also stops at the
// first entry that would overlap a member already listed, and at an entry
// whose member lies inside the table.
func ReadFatArches(src Source, order ByteOrder) ([]FatArch, error) {
	bo := order.Binary()
	fileSize := src.Size()

	dat, err := readAt(src, 0, types.FatHeaderSize)
	if err != nil {
		return nil, err
	}
	narch := bo.Uint32(dat[types.FatHeaderNArchOffset:])
	if narch < 1 {
		return nil, &FormatError{Kind: MalformedFatEntry, Off: types.FatHeaderNArchOffset, Msg: "file contains no images"}
	}

	hint := int64(narch)
	if fit := (fileSize - types.FatHeaderSize) / types.FatArchHeaderSize; fit < hint {
		hint = max(fit, 0)
	}
	arches := make([]FatArch, 0, hint)

	offset := int64(types.FatHeaderSize)
	lowest := int64(math.MaxInt64) // lowest member offset read so far
	for i := uint32(0); i < narch; i++ {
		if offset+types.FatArchHeaderSize > lowest {
			return arches, &FormatError{
				Kind: MalformedFatEntry,
				Off:  offset,
				Msg:  fmt.Sprintf("fat arch %d runs into member data at %#x", i, lowest),
			}
		}
		dat, err := readAt(src, offset, types.FatArchHeaderSize)
		if err != nil {
			return arches, fmt.Errorf("failed to read fat arch %d: %w", i, err)
		}
		fa := FatArch{
			Index:  int(i),
			CPU:    types.CPU(bo.Uint32(dat[types.FatArchCPUOffset:])),
			SubCPU: types.CPUSubtype(bo.Uint32(dat[types.FatArchSubCPUOffset:])),
			Offset: bo.Uint32(dat[types.FatArchOffsetOffset:]),
			Size:   bo.Uint32(dat[types.FatArchSizeOffset:]),
			Align:  bo.Uint32(dat[types.FatArchAlignOffset:]),
		}
		offset += types.FatArchHeaderSize
		// a member inside the header or arch table ends the table
		if int64(fa.Offset) < offset {
			fa.Err = &FormatError{
				Kind: MalformedFatEntry,
				Off:  offset - types.FatArchHeaderSize,
				Msg:  fmt.Sprintf("arch %d overlaps the fat arch table", i),
				Val:  fmt.Sprintf("%#x", fa.Offset),
			}
			return append(arches, fa), nil
		}
		if int64(fa.Offset)+int64(fa.Size) > fileSize {
			fa.Err = &FormatError{
				Kind: MalformedFatEntry,
				Off:  offset - types.FatArchHeaderSize,
				Msg:  fmt.Sprintf("arch %d offset+size exceeds file size %#x", i, fileSize),
				Val:  fmt.Sprintf("%#x+%#x", fa.Offset, fa.Size),
			}
		} else {
			lowest = min(lowest, int64(fa.Offset))
		}
		arches = append(arches, fa)
	}

	return arches, nil
}
