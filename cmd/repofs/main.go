// Command repofs reads files, directory listings and commit history
// from a git repository, at committed versions or from the live
// working tree.
package main

import (
	"fmt"
	"os"

	"github.com/schmitthub/repofs/internal/cmd/root"
	"github.com/schmitthub/repofs/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	f := root.NewFactory(version)
	cmd := root.NewCmdRoot(f)
	defer logger.Close() //nolint:errcheck

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "repofs: %v\n", err)
		return 1
	}
	return 0
}
