// Package stat implements the "repofs stat" command.
package stat

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/schmitthub/repofs/internal/cmdutil"
	"github.com/schmitthub/repofs/internal/iostreams"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// Options holds the resolved dependencies and arguments for stat.
type Options struct {
	IO         *iostreams.IOStreams
	Repository func() (*repofs.Repository, error)

	Rev  string
	Path string
}

// NewCmdStat creates the "stat" subcommand.
func NewCmdStat(f *cmdutil.Factory) *cobra.Command {
	opts := &Options{
		IO:         f.IOStreams,
		Repository: f.Repository,
	}

	return &cobra.Command{
		Use:   "stat <rev> <path>",
		Short: "Print the size of a file at a version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Rev = args[0]
			opts.Path = args[1]

			repo, err := opts.Repository()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			v, err := repo.ResolveVersion(ctx, opts.Rev)
			if err != nil {
				return err
			}
			size, err := repo.FileSize(ctx, v, opts.Path)
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.IO.Out, "%s\t%d bytes (%s)\n", opts.Path, size, units.HumanSize(float64(size)))
			return nil
		},
	}
}
