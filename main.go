package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/archterm/gemini/cmd"
)

var version = "dev"

func main() {
	if err := cmd.GetRootCommand(version).ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, cmd.ErrUsage) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
