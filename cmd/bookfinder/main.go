package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

var version = "dev"

func main() {
	root := newRootCommand()
	// Interrupts cancel the command context, which cancels in-flight searches.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
