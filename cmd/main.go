package main

import (
	"os"

	"github.com/D2D99/talent-by-design-sub001/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
