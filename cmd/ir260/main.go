package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nikandfor/errors"
	"nikand.dev/go/cli"
	"github.com/nikandfor/tlog"

	"github.com/hardekbc/ir260/ir"
	"github.com/hardekbc/ir260/parse"
	"github.com/hardekbc/ir260/printer"
	_ "github.com/hardekbc/ir260/verify"
)

func main() {
	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	verifyCmd := &cli.Command{
		Name:   "verify",
		Action: verifyAct,
		Args:   cli.Args{},
	}

	printCmd := &cli.Command{
		Name:   "print",
		Action: printAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "ir260",
		Description: "ir260 reads, verifies, and pretty-prints IR text files",
		Commands: []*cli.Command{
			parseCmd,
			verifyCmd,
			printCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

// parseAct parses each file and reports success or the first parse error;
// it does not print anything on success, matching "parse" being a syntax
// and type check, not a rendering step (that's "print").
func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		if _, err := parseFile(ctx, a); err != nil {
			return errors.Wrap(err, "parse %v", a)
		}
	}

	return nil
}

// verifyAct parses and verifies each file, printing "ok" or the
// accumulated verifier text per file.
func verifyAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		if _, err := parseFile(ctx, a); err != nil {
			fmt.Printf("%s: %v\n", a, err)
			continue
		}
		fmt.Printf("%s: ok\n", a)
	}

	return nil
}

// printAct parses each file and writes it back out through the
// pretty-printer, for diffing against a hand-written fixture.
func printAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := parseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "print %v", a)
		}

		fmt.Print(printer.Print(p))
	}

	return nil
}

func parseFile(ctx context.Context, name string) (*ir.Program, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return parse.ProgramFromString(ctx, string(text))
}
