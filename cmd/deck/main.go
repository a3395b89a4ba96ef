// Command deck maintains an ordered slide deck in a SQLite database.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/deck/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "deck: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
