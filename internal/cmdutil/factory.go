// Package cmdutil provides shared dependencies for CLI commands.
package cmdutil

import (
	"github.com/schmitthub/repofs/internal/config"
	"github.com/schmitthub/repofs/internal/iostreams"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// Factory is the dependency injection container for commands: the
// struct defines the contract, the root command wires the real
// implementations. Closure fields use lazy initialization internally;
// commands extract only the fields they need.
type Factory struct {
	// RepoPath is the repository path from the --repo flag.
	RepoPath string

	// Debug is set by the --debug flag.
	Debug bool

	// Version info (set at build time via ldflags).
	Version string

	// IOStreams for input/output (for testability).
	IOStreams *iostreams.IOStreams

	// Config loads the CLI configuration (lazily, cached).
	Config func() (*config.Config, error)

	// Repository opens the repository handle (lazily, cached).
	Repository func() (*repofs.Repository, error)
}
