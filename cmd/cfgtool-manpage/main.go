package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/cfgtool/cmd/cfgtool"
	"github.com/arthur-debert/cfgtool/internal/version"
)

func main() {
	rootCmd := cfgtool.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "CFGTOOL",
		Section: "1",
		Source:  "cfgtool " + version.Version,
		Manual:  "cfgtool manual",
	}

	if len(os.Args) > 1 {
		// One page per command, written into the given directory
		if err := doc.GenManTree(rootCmd, header, os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
