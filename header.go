package macho

import (
	"github.com/appsworld/machodump/types"
)

// A Header is a decoded mach header.
type Header struct {
	types.FileHeader
	CPUName string `json:"cpu_name"`
	// Size is the on-disk size of the header; load commands start
	// right after it.
	Size uint32 `json:"header_size"`
}

// DecodeHeader reads the mach header of the image at base.
func DecodeHeader(src Source, base int64, class ImageClass, order ByteOrder) (*Header, error) {
	size := class.HeaderSize()
	dat, err := readAt(src, base, int(size))
	if err != nil {
		return nil, err
	}
	bo := order.Binary()

	h := &Header{Size: size}
	h.Magic = types.Magic(bo.Uint32(dat[types.HeaderMagicOffset:]))
	h.CPU = types.CPU(bo.Uint32(dat[types.HeaderCPUOffset:]))
	h.SubCPU = types.CPUSubtype(bo.Uint32(dat[types.HeaderSubCPUOffset:]))
	h.Type = types.HeaderFileType(bo.Uint32(dat[types.HeaderTypeOffset:]))
	h.NCommands = bo.Uint32(dat[types.HeaderNCommandsOffset:])
	h.SizeCommands = bo.Uint32(dat[types.HeaderSizeCommandsOffset:])
	h.Flags = types.HeaderFlag(bo.Uint32(dat[types.HeaderFlagsOffset:]))
	if class == ThinModern {
		h.Reserved = bo.Uint32(dat[types.HeaderReservedOffset:])
	}
	h.CPUName = h.CPU.Name()

	return h, nil
}
