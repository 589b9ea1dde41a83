package util

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the flag values charmcc's CLI accepts (spec §6): the
// program text to compile, an optional output path, and the --debug dump
// switch. Modeled on the teacher's util.Options, trimmed to this spec's
// much smaller flag surface (no -arch/-os/-vendor/-t: charmcc targets
// exactly one ABI variant, per spec §1). Populated by cmd/charmcc's
// urfave/cli.App, which owns argument syntax and --help text.
type Options struct {
	Src   string // The program source text itself (spec §6: "not a filename").
	Out   string // Output path; empty means stdout.
	Debug bool   // --debug: dump AST/IR instead of emitting assembly.
}
