package main

import (
	"fmt"
	"os"
)

// Exit codes for the two termination modes
const (
	ExitSuccess = 0 // report written, viewer launch attempted
	ExitStartup = 1 // startup fault: config, results root, or inputs absent
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitStartup)
	}
}
