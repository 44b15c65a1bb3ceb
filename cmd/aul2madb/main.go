// Command aul2madb converts Apple Unified Logs into a SQLite database or a
// TSV file.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/aul2madb/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand(nil)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
