// Command charmcc compiles a single charmcc program (spec §6) to 32-bit ARM
// assembly. Argument handling keeps the teacher's util.Options shape, but the
// urfave/cli.App owns all flag parsing and usage/help text and fills in
// util.Options in its Action, over this spec's far smaller flag surface.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"charmcc/internal/arena"
	"charmcc/internal/ast"
	"charmcc/internal/codegen"
	"charmcc/internal/codegen/lir"
	"charmcc/internal/diag"
	"charmcc/internal/lexer"
	"charmcc/internal/parser"
	"charmcc/internal/util"
)

func main() {
	app := &cli.App{
		Name:      "charmcc",
		Usage:     "compile a charmcc program to ARM assembly",
		ArgsUsage: "<source>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "dump the AST and linear IR instead of emitting assembly"},
			&cli.StringFlag{Name: "o", Usage: "write output to `FILE` instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			opt := util.Options{
				Debug: c.Bool("debug"),
				Out:   c.String("o"),
			}
			if c.NArg() != 1 {
				return diag.NewUsageError(fmt.Sprintf("expected exactly one source argument, got %d", c.NArg()))
			}
			opt.Src = c.Args().Get(0)
			return run(opt)
		},
	}

	if err := app.Run(os.Args); err != nil {
		report(err)
		os.Exit(1)
	}
}

// run drives one parse→elaborate→codegen pipeline over opt.Src, mirroring
// the teacher's run(opt util.Options) error shape in main.go.
func run(opt util.Options) error {
	a := arena.New()
	defer a.Release()

	toks, err := lexer.Lex(opt.Src)
	if err != nil {
		return err
	}

	decls, err := parser.Parse(toks, opt.Src, a)
	if err != nil {
		return err
	}

	if opt.Debug {
		dumpDebug(decls)
		return nil
	}

	asm, err := codegen.Generate(decls, opt.Src)
	if err != nil {
		return err
	}
	return writeOutput(opt, asm)
}

// dumpDebug writes the AST and, per function, its lir.Program to stdout
// (spec §6: "write a human-readable AST/IR dump to stdout instead of
// assembly").
func dumpDebug(decls []*ast.Obj) {
	for _, d := range decls {
		if !d.IsFunction {
			fmt.Printf("global %s %s\n", d.Type.String(), d.Name)
			continue
		}
		fmt.Printf("func %s\n", d.Name)
		d.Body.Print(1)
		fmt.Println("-- lir --")
		prog := lir.Lower(d)
		for _, in := range prog.Instr {
			fmt.Println("  " + in.String())
		}
		fmt.Println("-- lir (spew) --")
		spew.Dump(prog)
	}
}

// writeOutput writes asm to opt.Out, or stdout if unset.
func writeOutput(opt util.Options, asm string) error {
	if opt.Out == "" {
		_, err := fmt.Print(asm)
		return err
	}
	return os.WriteFile(opt.Out, []byte(asm), 0644)
}

// report prints a diagnostic to stderr, using diag's colorized rendering
// for a *diag.Error and a plain line for anything else (spec §7: "all
// errors are fatal ... emitting a single-line diagnostic on stderr").
func report(err error) {
	if de, ok := err.(*diag.Error); ok {
		de.Print(os.Stderr)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
