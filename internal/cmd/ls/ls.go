// Package ls implements the "repofs ls" command.
package ls

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/schmitthub/repofs/internal/cmdutil"
	"github.com/schmitthub/repofs/internal/iostreams"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// Options holds the resolved dependencies and arguments for ls.
type Options struct {
	IO         *iostreams.IOStreams
	Repository func() (*repofs.Repository, error)

	Rev  string
	Path string
	Long bool
}

// NewCmdLs creates the "ls" subcommand.
func NewCmdLs(f *cmdutil.Factory) *cobra.Command {
	opts := &Options{
		IO:         f.IOStreams,
		Repository: f.Repository,
	}

	cmd := &cobra.Command{
		Use:   "ls <rev> [path]",
		Short: "List a directory at a version",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Rev = args[0]
			if len(args) > 1 {
				opts.Path = args[1]
			}
			return runLs(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Include file sizes")

	return cmd
}

func runLs(cmd *cobra.Command, opts *Options) error {
	repo, err := opts.Repository()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	v, err := repo.ResolveVersion(ctx, opts.Rev)
	if err != nil {
		return err
	}
	l, err := repo.ListDir(ctx, v, opts.Path)
	if err != nil {
		return err
	}

	cs := opts.IO.ColorScheme()
	for _, d := range l.Dirs {
		fmt.Fprintf(opts.IO.Out, "%s/\n", cs.Blue(d))
	}
	for _, name := range l.Files {
		if !opts.Long {
			fmt.Fprintln(opts.IO.Out, name)
			continue
		}
		path := name
		if opts.Path != "" {
			path = opts.Path + "/" + name
		}
		size, err := repo.FileSize(ctx, v, path)
		if err != nil {
			return err
		}
		human := fmt.Sprintf("%-10s", units.HumanSize(float64(size)))
		fmt.Fprintf(opts.IO.Out, "%s %s\n", cs.Muted(human), name)
	}
	return nil
}
