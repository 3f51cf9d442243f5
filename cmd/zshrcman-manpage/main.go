// Command zshrcman-manpage writes the zshrcman(1) man page to stdout.
// Packaging scripts run it at build time so the page always matches
// the command tree it ships with.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/azpdev/zshrcman/internal/cli"
	"github.com/azpdev/zshrcman/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ZSHRCMAN",
		Section: "1",
		Source:  "zshrcman " + version.Version,
		Manual:  "zshrcman manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
