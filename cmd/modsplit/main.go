// Command modsplit splits a flat source tree into a module layout grouped
// by call-graph community rather than by the original file boundaries.
package main

import (
	"fmt"
	"os"

	"github.com/l3aro/modsplit/cmd/modsplit/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
