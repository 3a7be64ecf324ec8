package main

import (
	"fmt"
	"os"

	"github.com/iw2rmb/richbridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "richbridge:", err)
		os.Exit(1)
	}
}
