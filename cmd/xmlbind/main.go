package main

import (
	"os"

	"github.com/jacoelho/xmlbind/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
