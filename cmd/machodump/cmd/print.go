package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/appsworld/machodump"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	colorPath    = color.New(color.Bold, color.FgHiWhite).SprintFunc()
	colorArch    = color.New(color.Bold, color.FgHiMagenta).SprintfFunc()
	colorField   = color.New(color.Faint).SprintFunc()
	colorLoad    = color.New(color.FgHiBlue).SprintFunc()
	colorSegment = color.New(color.Bold, color.FgHiCyan).SprintFunc()
	colorError   = color.New(color.FgHiRed).SprintfFunc()
)

type printOptions struct {
	Loads bool
}

func printReport(w io.Writer, r *macho.Report, opts printOptions) {
	fmt.Fprintf(w, "%s %s\n", colorPath(r.Path), colorField(humanize.Bytes(uint64(r.Size))))
	if r.Fat {
		fmt.Fprintf(w, "%s, %d architectures\n", r.Ident, len(r.Arches))
		for i := range r.Arches {
			if fa := &r.Arches[i]; fa.Err != nil {
				fmt.Fprintln(w, colorArch("%s", fa))
				fmt.Fprintln(w, colorError("ERROR: %v", fa.Err))
			}
		}
	}
	for _, img := range r.Images {
		printImage(w, img, opts)
	}
}

func printImage(w io.Writer, img *macho.Image, opts printOptions) {
	if img.Arch != nil {
		fmt.Fprintln(w, colorArch("%s", img.Arch))
	}
	if img.Header == nil {
		fmt.Fprintln(w, colorError("ERROR: %v", img.Err))
		return
	}

	h := img.Header
	fmt.Fprintln(w, img.Ident)
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", colorField("Magic"), h.Magic)
	fmt.Fprintf(tw, "%s\t%s\n", colorField("Type"), h.Type)
	fmt.Fprintf(tw, "%s\t%s (%s)\n", colorField("CPU"), h.CPUName, h.SubCPU.String(h.CPU))
	fmt.Fprintf(tw, "%s\t%d (Size: %d)\n", colorField("Commands"), h.NCommands, h.SizeCommands)
	fmt.Fprintf(tw, "%s\t%s\n", colorField("Flags"), h.Flags.Flags())
	fmt.Fprintf(tw, "%s\t%d\n", colorField("Header Size"), h.Size)
	tw.Flush()

	if opts.Loads && len(img.Loads) > 0 {
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, l := range img.Loads {
			if s := l.Segment; s != nil {
				fmt.Fprintf(tw, "%03d:\t%s\t%s\taddr=%#x\tvmsize=%s\tfilesize=%s\t%s/%s\n",
					l.Index, colorLoad(l.Name), colorSegment(s.Name), s.Addr,
					humanize.Bytes(s.Memsz), humanize.Bytes(s.Filesz), s.Prot, s.Maxprot)
				continue
			}
			fmt.Fprintf(tw, "%03d:\t%s\tcmdsize=%#x\toff=%#x\n", l.Index, colorLoad(l.Name), l.Len, l.Offset)
		}
		tw.Flush()
	}

	if img.Err != nil {
		fmt.Fprintln(w, colorError("ERROR: %v", img.Err))
	}
}
