package types

import (
	"reflect"
	"testing"
)

func TestCPUName(t *testing.T) {
	tests := []struct {
		cpu  CPU
		want string
	}{
		{CPU386, "i386"},
		{CPUAmd64, "x86_64"},
		{CPUArm, "arm"},
		{CPUArm64, "arm64"},
		{CPUArm6432, "unknown"},
		{CPUPpc, "unknown"},
		{CPU(0xdead), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cpu.Name(); got != tt.want {
			t.Errorf("CPU(%#x).Name() = %q, want %q", uint32(tt.cpu), got, tt.want)
		}
	}
	if !CPUArm64.Is64() || CPUArm.Is64() || CPUArm6432.Is64() {
		t.Errorf("Is64 does not follow the 64 bit ABI bit")
	}
}

func TestCPUSubtypeString(t *testing.T) {
	tests := []struct {
		cpu  CPU
		sub  CPUSubtype
		want string
	}{
		{CPUAmd64, CPUSubtypeX86All | CpuSubtypeLib64, "x86_64"},
		{CPUAmd64, CPUSubtypeX86_64H, "x86_64 (Haswell)"},
		{CPUArm, CPUSubtypeArmV7S, "ARMv7s"},
		{CPUArm64, CPUSubtypeArm64E | CpuSubtypePtrauthAbi | 0x01000000, "ARM64e (ARMv8.3) caps: PAC01"},
		{CPUPpc, 0, "0x0"},
	}
	for _, tt := range tests {
		if got := tt.sub.String(tt.cpu); got != tt.want {
			t.Errorf("CPUSubtype(%#x).String(%s) = %q, want %q", uint32(tt.sub), tt.cpu, got, tt.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	if MH_EXECUTE.String() != "EXECUTE" {
		t.Errorf("got %v, want %v", MH_EXECUTE.String(), "EXECUTE")
	}
	if MH_EXECUTE.GoString() != "types.EXECUTE" {
		t.Errorf("got %v, want %v", MH_EXECUTE.GoString(), "types.EXECUTE")
	}
	if got := HeaderFileType(0x99).String(); got != "0x99" {
		t.Errorf("got %v, want %v", got, "0x99")
	}
}

func TestLoadCmdString(t *testing.T) {
	tests := []struct {
		cmd  LoadCmd
		want string
	}{
		{LC_SEGMENT, "LC_SEGMENT"},
		{LC_SEGMENT_64, "LC_SEGMENT_64"},
		{LC_UUID, "LC_UUID"},
		{LC_MAIN, "LC_MAIN"},
		{LoadCmd(0x7777), "0x7777"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("LoadCmd(%#x).String() = %q, want %q", uint32(tt.cmd), got, tt.want)
		}
	}
	if !LC_SEGMENT.IsSegment() || !LC_SEGMENT_64.IsSegment() || LC_UUID.IsSegment() {
		t.Errorf("IsSegment only holds for LC_SEGMENT and LC_SEGMENT_64")
	}
}

func TestHeaderFlagList(t *testing.T) {
	if got := HeaderFlag(0).List(); !reflect.DeepEqual(got, []string{"None"}) {
		t.Errorf("HeaderFlag(0).List() = %v", got)
	}
	f := NoUndefs | DyldLink | TwoLevel | PIE | HeaderFlag(0x40000000)
	want := []string{"NoUndefs", "DyldLink", "TwoLevel", "PIE", "0x40000000"}
	if got := f.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got := (NoUndefs | PIE).Flags(); got != "NoUndefs, PIE" {
		t.Errorf("Flags() = %q", got)
	}
}

func TestSegFlagString(t *testing.T) {
	if got := SegFlag(0).String(); got != "" {
		t.Errorf("SegFlag(0).String() = %q, want empty", got)
	}
	if got := (HighVM | ReadOnly).String(); got != "HighVM|ReadOnly" {
		t.Errorf("String() = %q", got)
	}
}

func TestVmProtectionString(t *testing.T) {
	for prot, want := range map[VmProtection]string{0: "---", 1: "r--", 3: "rw-", 5: "r-x", 7: "rwx"} {
		if got := prot.String(); got != want {
			t.Errorf("VmProtection(%d).String() = %q, want %q", prot, got, want)
		}
	}
}

func TestPutAtMost16Bytes(t *testing.T) {
	b := []byte("XXXXXXXXXXXXXXXXXX")
	PutAtMost16Bytes(b, "__TEXT")
	if got := string(b); got != "__TEXT\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00XX" {
		t.Errorf("got %q", got)
	}
	PutAtMost16Bytes(b, "__A_VERY_LONG_SEGMENT_NAME")
	if got := string(b[:16]); got != "__A_VERY_LONG_SE" {
		t.Errorf("got %q", got)
	}
}
