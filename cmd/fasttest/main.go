package main

import (
	"os"

	"qms/qcsync/cmd/fasttest/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
