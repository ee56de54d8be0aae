package macho

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/appsworld/machodump/types"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeHeader(t *testing.T) {
	img := arm64Image(binary.BigEndian)
	img.SubCPU = types.CPUSubtypeArm64E | types.CpuSubtypePtrauthAbi
	dat := append(make([]byte, 0x40), img.Bytes()...)

	h, err := DecodeHeader(bytes.NewReader(dat), 0x40, ThinModern, orderFor(binary.BigEndian))
	if err != nil {
		t.Fatal(err)
	}
	want := &Header{
		FileHeader: types.FileHeader{
			Magic:        types.Magic64,
			CPU:          types.CPUArm64,
			SubCPU:       types.CPUSubtypeArm64E | types.CpuSubtypePtrauthAbi,
			Type:         types.MH_EXECUTE,
			NCommands:    3,
			SizeCommands: 2*types.Segment64Size + 24,
			Flags:        types.NoUndefs | types.PIE,
		},
		CPUName: "arm64",
		Size:    types.FileHeaderSize64,
	}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("DecodeHeader() mismatch (-want +got):\n%s", diff)
	}
	if got := h.SubCPU.String(h.CPU); got != "ARM64e (ARMv8.3) caps: PAC00" {
		t.Errorf("SubCPU = %q", got)
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	dat := textImage32(binary.LittleEndian).Bytes()

	// a 32-bit header fits where a 64-bit one does not
	if _, err := DecodeHeader(bytes.NewReader(dat[:28]), 0, ThinLegacy, orderFor(binary.LittleEndian)); err != nil {
		t.Errorf("DecodeHeader(28 bytes, 32-bit) = %v", err)
	}
	_, err := DecodeHeader(bytes.NewReader(dat[:28]), 0, ThinModern, orderFor(binary.LittleEndian))
	if !errors.Is(err, ErrInputUnavailable) {
		t.Errorf("DecodeHeader(28 bytes, 64-bit) = %v, want %v", err, ErrInputUnavailable)
	}
}
