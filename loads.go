package macho

import (
	"bytes"
	"encoding/binary"

	"github.com/appsworld/machodump/types"
)

// WalkLoadCommands decodes ncmds load commands starting at start.
//
// The cursor advances by each command's declared cmdsize. A command whose
// size is undersized, misaligned or runs past the end of src stops the walk
// with a MalformedLoadCommand error; the commands decoded before it are
// returned along with the error.
func WalkLoadCommands(src Source, start int64, order ByteOrder, ncmds uint32) ([]LoadCommand, error) {
	bo := order.Binary()
	end := src.Size()

	// every command is at least a header long, so a hostile ncmds
	// cannot ask for more entries than the remaining bytes can hold
	hint := int64(ncmds)
	if avail := (end - start) / types.LoadCmdHeaderSize; avail < hint {
		hint = max(avail, 0)
	}
	loads := make([]LoadCommand, 0, hint)

	offset := start
	for i := uint32(0); i < ncmds; i++ {
		dat, err := readAt(src, offset, types.LoadCmdHeaderSize)
		if err != nil {
			return loads, err
		}
		cmd, siz := types.LoadCmd(bo.Uint32(dat[0:4])), bo.Uint32(dat[4:8])
		if siz < types.LoadCmdHeaderSize {
			return loads, &FormatError{Kind: MalformedLoadCommand, Off: offset, Msg: "command block too small", Val: siz}
		}
		if siz%4 != 0 {
			return loads, &FormatError{Kind: MalformedLoadCommand, Off: offset, Msg: "misaligned command block size", Val: siz}
		}
		if int64(siz) > end-offset {
			return loads, &FormatError{Kind: MalformedLoadCommand, Off: offset, Msg: "command block extends past end of image", Val: siz}
		}

		l := LoadCommand{Index: int(i), Offset: offset, Cmd: cmd, Name: cmd.String(), Len: siz}
		switch cmd {
		case types.LC_SEGMENT_64:
			if siz < types.Segment64Size {
				return loads, &FormatError{Kind: MalformedLoadCommand, Off: offset, Msg: "LC_SEGMENT_64 smaller than segment_command_64", Val: siz}
			}
			cmddat, err := readAt(src, offset, types.Segment64Size)
			if err != nil {
				return loads, err
			}
			l.Segment = decodeSegment64(cmddat, bo)
		case types.LC_SEGMENT:
			if siz < types.Segment32Size {
				return loads, &FormatError{Kind: MalformedLoadCommand, Off: offset, Msg: "LC_SEGMENT smaller than segment_command", Val: siz}
			}
			cmddat, err := readAt(src, offset, types.Segment32Size)
			if err != nil {
				return loads, err
			}
			l.Segment = decodeSegment32(cmddat, bo)
		}
		loads = append(loads, l)
		offset += int64(siz)
	}

	return loads, nil
}

func decodeSegment64(b []byte, bo binary.ByteOrder) *Segment {
	return &Segment{
		LoadCmd: types.LoadCmd(bo.Uint32(b[0:])),
		Len:     bo.Uint32(b[4:]),
		Name:    cstring(b[types.Segment64NameOffset : types.Segment64NameOffset+16]),
		Addr:    bo.Uint64(b[types.Segment64AddrOffset:]),
		Memsz:   bo.Uint64(b[types.Segment64MemszOffset:]),
		Offset:  bo.Uint64(b[types.Segment64OffsetOffset:]),
		Filesz:  bo.Uint64(b[types.Segment64FileszOffset:]),
		Maxprot: types.VmProtection(bo.Uint32(b[types.Segment64MaxprotOffset:])),
		Prot:    types.VmProtection(bo.Uint32(b[types.Segment64ProtOffset:])),
		Nsect:   bo.Uint32(b[types.Segment64NsectOffset:]),
		Flag:    types.SegFlag(bo.Uint32(b[types.Segment64FlagOffset:])),
	}
}

func decodeSegment32(b []byte, bo binary.ByteOrder) *Segment {
	return &Segment{
		LoadCmd: types.LoadCmd(bo.Uint32(b[0:])),
		Len:     bo.Uint32(b[4:]),
		Name:    cstring(b[types.Segment32NameOffset : types.Segment32NameOffset+16]),
		Addr:    uint64(bo.Uint32(b[types.Segment32AddrOffset:])),
		Memsz:   uint64(bo.Uint32(b[types.Segment32MemszOffset:])),
		Offset:  uint64(bo.Uint32(b[types.Segment32OffsetOffset:])),
		Filesz:  uint64(bo.Uint32(b[types.Segment32FileszOffset:])),
		Maxprot: types.VmProtection(bo.Uint32(b[types.Segment32MaxprotOffset:])),
		Prot:    types.VmProtection(bo.Uint32(b[types.Segment32ProtOffset:])),
		Nsect:   bo.Uint32(b[types.Segment32NsectOffset:]),
		Flag:    types.SegFlag(bo.Uint32(b[types.Segment32FlagOffset:])),
	}
}

// cstring returns b up to the first NUL, or all of b.
func cstring(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		i = len(b)
	}
	return string(b[0:i])
}
