package main

import (
	"fmt"
	"os"

	"github.com/idilsaglam/grimoire/internal/cli"
)

func main() {
	code := cli.Run(os.Args[1:])
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
