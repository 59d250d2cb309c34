// Command sheetlint checks stat sheet files without wiring them into a game.
//
// It loads every file named on the command line as one combined sheet and
// prints each problem the load reports, one per line. A sheet that folds
// cleanly produces no output; pass -render to print its canonical form
// instead, which is handy for diffing hand-edited sheets.
//
//	sheetlint character.hcl gear.hcl
//	sheetlint -render character.hcl > character.golden
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/krew-solutions/stat-query-go/statquery/statsheet"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sheetlint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	render := fs.Bool("render", false, "print the canonical form of the loaded sheet")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: sheetlint [-render] <sheet.hcl> [<sheet.hcl> ...]")
		return 2
	}

	sheet, err := statsheet.Load(fs.Args()...)
	if err != nil {
		report(stderr, err)
		return 1
	}

	if *render {
		fmt.Fprint(stdout, sheet.Render())
	}
	return 0
}

// report prints one line per problem so editors and CI logs stay greppable.
// Load collects everything wrong with a sheet into a single multierror;
// anything else is printed as-is.
func report(w io.Writer, err error) {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, problem := range merr.Errors {
			fmt.Fprintf(w, "sheetlint: %v\n", problem)
		}
		return
	}
	fmt.Fprintf(w, "sheetlint: %v\n", err)
}
