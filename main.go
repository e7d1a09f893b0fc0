package main

import (
	"fmt"
	"os"

	"chessgui/ui"
)

func main() {
	if err := ui.RunChessGUI(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
