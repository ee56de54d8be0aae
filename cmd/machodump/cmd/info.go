package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/apex/log"
	"github.com/appsworld/machodump"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("json", "j", false, "Print the reports as JSON")
	infoCmd.Flags().StringP("arch", "a", "", "Which architecture to show for fat files (i.e. arm64, x86_64)")
	infoCmd.Flags().BoolP("loads", "l", true, "Print the load commands")
	infoCmd.Flags().Int("jobs", runtime.NumCPU(), "Number of files to inspect at once")
	bindFlags(infoCmd.Flags(), "info")
}

// bindFlags binds every flag in fs to the viper key prefix.<name>.
func bindFlags(fs *pflag.FlagSet, prefix string) {
	fs.VisitAll(func(f *pflag.Flag) {
		viper.BindPFlag(prefix+"."+f.Name, f)
	})
}

type result struct {
	path   string
	report *macho.Report
	err    error
}

// inspectAll inspects every path, at most jobs at a time.
// Results are returned in the order of paths.
func inspectAll(paths []string, jobs int) []result {
	results := make([]result, len(paths))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		i, path := i, path // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			r, err := macho.Open(path)
			if err == nil {
				err = r.Err()
			}
			results[i] = result{path: path, report: r, err: err}
			return nil
		})
	}
	g.Wait()

	return results
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:           "info <macho>...",
	Aliases:       []string{"i"},
	Short:         "Print the header, fat table and load commands of Mach-O files",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON := viper.GetBool("info.json")
		arch := viper.GetString("info.arch")
		opts := printOptions{
			Loads: viper.GetBool("info.loads"),
		}

		results := inspectAll(args, viper.GetInt("info.jobs"))

		var errs []error
		var reports []*macho.Report
		failed := 0
		for _, res := range results {
			if res.err != nil {
				log.WithField("path", res.path).WithError(res.err).Error("inspect")
				errs = append(errs, res.err)
				failed++
			}
			if res.report == nil {
				continue
			}
			r := res.report
			log.WithFields(log.Fields{
				"path":   r.Path,
				"fat":    r.Fat,
				"images": len(r.Images),
			}).Debug("Inspected")

			if arch != "" {
				filtered, err := filterArch(r, arch)
				if err != nil {
					log.WithField("path", r.Path).WithError(err).Error("arch")
					errs = append(errs, err)
					if res.err == nil {
						failed++
					}
					continue
				}
				r = filtered
			}
			reports = append(reports, r)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			var v any = reports
			if len(reports) == 1 {
				v = reports[0]
			}
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("failed to encode JSON: %v", err)
			}
		} else {
			for i, r := range reports {
				if i > 0 {
					fmt.Println()
				}
				printReport(os.Stdout, r, opts)
			}
		}

		if len(errs) > 0 {
			return &exitError{
				code: maxExitCode(errs),
				msg:  fmt.Sprintf("%d of %d files had errors", failed, len(args)),
			}
		}
		return nil
	},
}

// filterArch returns a copy of r holding only the images built for arch.
// Thin files match on their header's CPU.
func filterArch(r *macho.Report, arch string) (*macho.Report, error) {
	out := *r
	out.Images = nil
	for _, img := range r.Images {
		name := ""
		switch {
		case img.Arch != nil:
			name = img.Arch.CPU.Name()
		case img.Header != nil:
			name = img.Header.CPUName
		}
		if name == arch {
			out.Images = append(out.Images, img)
		}
	}
	if len(out.Images) == 0 {
		return nil, fmt.Errorf("architecture %s not found in %s", arch, r.Path)
	}
	return &out, nil
}
