// Package log implements the "repofs log" command.
package log

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/repofs/internal/cmdutil"
	"github.com/schmitthub/repofs/internal/iostreams"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// Options holds the resolved dependencies and arguments for log.
type Options struct {
	IO         *iostreams.IOStreams
	Repository func() (*repofs.Repository, error)

	Rev   string
	Path  string
	Limit int
}

// NewCmdLog creates the "log" subcommand.
func NewCmdLog(f *cmdutil.Factory) *cobra.Command {
	opts := &Options{
		IO:         f.IOStreams,
		Repository: f.Repository,
	}

	cmd := &cobra.Command{
		Use:   "log <rev> [path]",
		Short: "Show commit history for a path",
		Long: `Show the commits that touched a path, newest first. History is only
defined for committed versions; "live" is rejected.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Rev = args[0]
			if len(args) > 1 {
				opts.Path = args[1]
			}
			return runLog(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of commits (0 = all)")

	return cmd
}

func runLog(cmd *cobra.Command, opts *Options) error {
	repo, err := opts.Repository()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	v, err := repo.ResolveVersion(ctx, opts.Rev)
	if err != nil {
		return err
	}

	var logOpts []repofs.LogOption
	if opts.Limit > 0 {
		logOpts = append(logOpts, repofs.WithLimit(opts.Limit))
	}
	commits, err := repo.Log(ctx, v, opts.Path, logOpts...)
	if err != nil {
		return err
	}

	for i, c := range commits {
		if i > 0 {
			fmt.Fprintln(opts.IO.Out)
		}
		fmt.Fprintf(opts.IO.Out, "commit %s\n", c.Hash)
		if author := c.Author(); author != "" {
			fmt.Fprintf(opts.IO.Out, "author %s\n", author)
		}
		if date := c.Date(); date != "" {
			fmt.Fprintf(opts.IO.Out, "date   %s\n", date)
		}
		fmt.Fprintf(opts.IO.Out, "\n    %s\n", c.Subject())
	}
	return nil
}
