// Command ninja queries renewables.ninja profiles and runs the plant
// sizing and cost helpers from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/Sternrassler/renewables-client/cmd/ninja/commands"
)

var version = "dev"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
