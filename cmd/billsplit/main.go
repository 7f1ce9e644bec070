package main

import (
	"os"

	"github.com/mmynk/billsplit/cmd/billsplit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
