// Command typecomment-gen generates PEP 484 type comments from the
// docstrings of Python source files.
package main

import (
	"os"

	"github.com/example/typecomment-gen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
