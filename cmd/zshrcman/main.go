package main

import (
	"fmt"
	"os"

	"github.com/azpdev/zshrcman/internal/cli"
	"github.com/azpdev/zshrcman/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.RenderError(err))
		os.Exit(cli.ExitCode(err))
	}
}
