package macho

import (
	"fmt"
	"strings"

	"github.com/appsworld/machodump/types"
)

// A LoadCommand is the summary of one load command of an image.
type LoadCommand struct {
	Index  int           `json:"index"`
	Offset int64         `json:"offset"`
	Cmd    types.LoadCmd `json:"cmd"`
	Name   string        `json:"name"`
	Len    uint32        `json:"cmdsize"`
	// Segment is set for LC_SEGMENT and LC_SEGMENT_64.
	Segment *Segment `json:"segment,omitempty"`
}

func (l LoadCommand) String() string {
	if l.Segment != nil {
		return fmt.Sprintf("%03d: %s", l.Index, l.Segment)
	}
	return fmt.Sprintf("%03d: %s%scmdsize=%#x off=%#08x", l.Index, l.Name, pad(28-len(l.Name)), l.Len, l.Offset)
}

// A Segment is a decoded 32-bit or 64-bit segment load command.
// 32-bit fields are widened.
type Segment struct {
	types.LoadCmd `json:"-"`

	Len     uint32             `json:"-"`
	Name    string             `json:"segname"`
	Addr    uint64             `json:"vmaddr"`
	Memsz   uint64             `json:"vmsize"`
	Offset  uint64             `json:"fileoff"`
	Filesz  uint64             `json:"filesize"`
	Maxprot types.VmProtection `json:"maxprot"`
	Prot    types.VmProtection `json:"initprot"`
	Nsect   uint32             `json:"nsects"`
	Flag    types.SegFlag      `json:"flags"`
}

func (s *Segment) String() string {
	return fmt.Sprintf("%s sz=0x%08x off=0x%08x-0x%08x addr=0x%09x-0x%09x %s/%s   %s%s%s",
		s.LoadCmd, s.Filesz, s.Offset, s.Offset+s.Filesz, s.Addr, s.Addr+s.Memsz, s.Prot, s.Maxprot, s.Name, pad(20-len(s.Name)), s.Flag)
}

func pad(length int) string {
	if length > 0 {
		return strings.Repeat(" ", length)
	}
	return " "
}
