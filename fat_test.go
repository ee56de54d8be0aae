package macho

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/appsworld/machodump/internal/machotest"
	"github.com/appsworld/machodump/types"
)

func TestReadFatArches(t *testing.T) {
	fat := &machotest.Fat{
		Order: binary.LittleEndian,
		Arches: []machotest.Arch{
			{CPU: types.CPU386, SubCPU: types.CPUSubtypeX86All, Image: textImage32(binary.LittleEndian), Align: 2},
			{CPU: types.CPUAmd64, SubCPU: types.CPUSubtypeX86All, Image: textImage64(binary.LittleEndian), Align: 3},
		},
	}
	arches, err := ReadFatArches(bytes.NewReader(fat.Bytes()), orderFor(binary.LittleEndian))
	if err != nil {
		t.Fatal(err)
	}
	// 8 byte header, two 20 byte entries, then the 108 byte 32-bit member
	want := []FatArch{
		{Index: 0, CPU: types.CPU386, SubCPU: types.CPUSubtypeX86All, Offset: 0x30, Size: 0x6c, Align: 2},
		{Index: 1, CPU: types.CPUAmd64, SubCPU: types.CPUSubtypeX86All, Offset: 0xa0, Size: 0x80, Align: 3},
	}
	if len(arches) != len(want) {
		t.Fatalf("got %d arches, want %d", len(arches), len(want))
	}
	for i := range want {
		if arches[i] != want[i] {
			t.Errorf("arch %d:\n\thave %#v\n\twant %#v", i, arches[i], want[i])
		}
	}
}

func TestReadFatArchesEmpty(t *testing.T) {
	fat := &machotest.Fat{NArch: machotest.Uint32(0)}
	arches, err := ReadFatArches(bytes.NewReader(fat.Bytes()), orderFor(binary.BigEndian))
	if arches != nil {
		t.Errorf("got %d arches, want none", len(arches))
	}
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Kind != MalformedFatEntry || fe.Off != types.FatHeaderNArchOffset {
		t.Errorf("ReadFatArches() = %v, want %s at %#x", err, MalformedFatEntry, types.FatHeaderNArchOffset)
	}
}

func TestReadFatArchesTruncatedTable(t *testing.T) {
	fat := &machotest.Fat{
		Arches: []machotest.Arch{{CPU: types.CPUAmd64, Image: textImage64(binary.LittleEndian)}},
		NArch:  machotest.Uint32(2),
	}
	dat := fat.Bytes()[:types.FatHeaderSize+types.FatArchHeaderSize]

	arches, err := ReadFatArches(bytes.NewReader(dat), orderFor(binary.BigEndian))
	if !errors.Is(err, ErrInputUnavailable) {
		t.Errorf("ReadFatArches() = %v, want %v", err, ErrInputUnavailable)
	}
	if len(arches) != 1 {
		t.Fatalf("got %d arches, want the 1 entry that was read", len(arches))
	}
	// the member itself was cut off with the rest of the file
	if KindOf(arches[0].Err) != MalformedFatEntry {
		t.Errorf("arch 0: error %v, want %s", arches[0].Err, MalformedFatEntry)
	}
}

func TestReadFatArchesHugeCount(t *testing.T) {
	fat := &machotest.Fat{
		Arches: []machotest.Arch{{CPU: types.CPUAmd64, Image: textImage64(binary.LittleEndian)}},
		NArch:  machotest.Uint32(0xffffffff),
	}

	// the zero padding after the table reads as an entry at offset 0
	arches, err := ReadFatArches(bytes.NewReader(fat.Bytes()), orderFor(binary.BigEndian))
	if err != nil {
		t.Fatal(err)
	}
	if len(arches) != 2 {
		t.Fatalf("got %d arches, want 2", len(arches))
	}
	if arches[0].Err != nil {
		t.Errorf("arch 0: unexpected error %v", arches[0].Err)
	}
	var fe *FormatError
	if !errors.As(arches[1].Err, &fe) || fe.Kind != MalformedFatEntry || fe.Off != types.FatHeaderSize+types.FatArchHeaderSize {
		t.Errorf("arch 1: error %v, want %s at %#x", arches[1].Err, MalformedFatEntry, types.FatHeaderSize+types.FatArchHeaderSize)
	}
}

func TestReadFatArchesRunsIntoMember(t *testing.T) {
	// the member is packed right after a one entry table
	fat := &machotest.Fat{
		Arches: []machotest.Arch{{CPU: types.CPUAmd64, Image: textImage64(binary.LittleEndian), Align: 2}},
		NArch:  machotest.Uint32(3),
	}

	arches, err := ReadFatArches(bytes.NewReader(fat.Bytes()), orderFor(binary.BigEndian))
	if len(arches) != 1 || arches[0].Err != nil || arches[0].Offset != types.FatHeaderSize+types.FatArchHeaderSize {
		t.Fatalf("got %+v, want only the first entry", arches)
	}
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Kind != MalformedFatEntry || fe.Off != types.FatHeaderSize+types.FatArchHeaderSize {
		t.Errorf("ReadFatArches() = %v, want %s at %#x", err, MalformedFatEntry, types.FatHeaderSize+types.FatArchHeaderSize)
	}
}
