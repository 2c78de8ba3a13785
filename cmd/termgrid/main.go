// Command termgrid drives a [termgrid.Grid] from a real PTY (run) or
// streams one over a WebSocket (serve), exercising the library's public
// facade the way a terminal emulator's renderer would.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "termgrid",
		Short:         "Drive and inspect a termgrid.Grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newServeCmd())

	return root
}
