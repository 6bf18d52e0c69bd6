package main

import (
	"os"

	"github.com/ASHU191/Pixify-Convert/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
