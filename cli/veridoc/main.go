package main

import (
	"os"

	veridoccmder "github.com/veridocai/veridoc/cmd/veridoc"
)

func main() {
	cmd := veridoccmder.NewVeridocCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
