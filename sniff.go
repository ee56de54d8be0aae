package macho

import (
	"encoding/binary"

	"github.com/appsworld/machodump/types"
)

// ByteOrder says whether an image's multi-byte fields match the host's
// byte order or must be swapped before use.
type ByteOrder uint8

const (
	Native ByteOrder = iota
	Swapped
)

var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Binary returns the byte order to decode fields with.
func (o ByteOrder) Binary() binary.ByteOrder {
	if hostLittleEndian == (o == Native) {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Endian names the on-disk endianness, "little" or "big".
func (o ByteOrder) Endian() string {
	if o.Binary() == binary.LittleEndian {
		return "little"
	}
	return "big"
}

func (o ByteOrder) String() string {
	if o == Swapped {
		return "swapped"
	}
	return "native"
}

func (o ByteOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// ImageClass is the word size of a thin image.
type ImageClass uint8

const (
	ThinLegacy ImageClass = iota + 1 // 32-bit
	ThinModern                       // 64-bit
)

func (c ImageClass) String() string {
	switch c {
	case ThinLegacy:
		return "32-bit"
	case ThinModern:
		return "64-bit"
	}
	return "none"
}

func (c ImageClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// HeaderSize is the size of the mach header for the class.
func (c ImageClass) HeaderSize() uint32 {
	if c == ThinModern {
		return types.FileHeaderSize64
	}
	return types.FileHeaderSize32
}

// Ident is what the leading magic number says about the bytes at Offset.
type Ident struct {
	Offset int64       `json:"offset"`
	Magic  types.Magic `json:"magic"` // as read in host order, before any swap
	Class  ImageClass  `json:"class,omitempty"`
	Fat    bool        `json:"fat"`
	Order  ByteOrder   `json:"byte_order"`
}

// Sniff reads the magic number at off and classifies it.
func Sniff(src Source, off int64) (*Ident, error) {
	dat, err := readAt(src, off, 4)
	if err != nil {
		return nil, err
	}
	id := &Ident{Offset: off, Magic: types.Magic(binary.NativeEndian.Uint32(dat))}
	switch id.Magic {
	case types.Magic64:
		id.Class = ThinModern
	case types.Cigam64:
		id.Class, id.Order = ThinModern, Swapped
	case types.Magic32:
		id.Class = ThinLegacy
	case types.Cigam32:
		id.Class, id.Order = ThinLegacy, Swapped
	case types.MagicFat:
		id.Fat = true
	case types.CigamFat:
		id.Fat, id.Order = true, Swapped
	default:
		return nil, &FormatError{Kind: UnrecognizedFormat, Off: off, Msg: "invalid magic number", Val: id.Magic}
	}
	return id, nil
}
