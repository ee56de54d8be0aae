package macho

import (
	"encoding/json"
	"fmt"
	"strings"
)

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (fa *FatArch) MarshalJSON() ([]byte, error) {
	type fatArch FatArch
	return json.Marshal(&struct {
		*fatArch
		CPUName string `json:"cpu_name"`
		Err     string `json:"error,omitempty"`
	}{(*fatArch)(fa), fa.CPU.Name(), errString(fa.Err)})
}

func (img *Image) MarshalJSON() ([]byte, error) {
	type image Image
	return json.Marshal(&struct {
		*image
		Err string `json:"error,omitempty"`
	}{(*image)(img), errString(img.Err)})
}

func (r *Report) MarshalJSON() ([]byte, error) {
	type report Report
	var errs []string
	for _, err := range r.Errors {
		errs = append(errs, err.Error())
	}
	return json.Marshal(&struct {
		*report
		Errors []string `json:"errors,omitempty"`
	}{(*report)(r), errs})
}

// String summarizes what the magic number says.
func (id Ident) String() string {
	kind := id.Class.String()
	if id.Fat {
		kind = "fat"
	}
	return fmt.Sprintf("%s magic=%#08x byte_order=%s (%s-endian)", kind, uint32(id.Magic), id.Order, id.Order.Endian())
}

// LoadsString returns a string representation of the image's load commands.
func (img *Image) LoadsString() string {
	var loadsStr string
	for _, l := range img.Loads {
		loadsStr += l.String() + "\n"
	}
	return loadsStr
}

func (img *Image) String() string {
	var b strings.Builder
	if img.Arch != nil {
		b.WriteString(img.Arch.String() + "\n")
	}
	if img.Header == nil {
		fmt.Fprintf(&b, "ERROR: %v\n", img.Err)
		return b.String()
	}
	b.WriteString(img.Ident.String() + "\n")
	b.WriteString(img.Header.String())
	fmt.Fprintf(&b, "Header Size   = %d\n", img.Header.Size)
	b.WriteString(img.LoadsString())
	if img.Err != nil {
		fmt.Fprintf(&b, "ERROR: %v\n", img.Err)
	}
	return b.String()
}

func (r *Report) String() string {
	var b strings.Builder
	if r.Path != "" {
		b.WriteString(r.Path + ":\n")
	}
	if r.Fat {
		fmt.Fprintf(&b, "%s, %d architectures\n", r.Ident, len(r.Arches))
		for i := range r.Arches {
			if fa := &r.Arches[i]; fa.Err != nil {
				fmt.Fprintf(&b, "%s\nERROR: %v\n", fa, fa.Err)
			}
		}
	}
	for _, img := range r.Images {
		b.WriteString(img.String())
	}
	return b.String()
}
