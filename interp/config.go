package interp

import (
	"bufio"
	"io"
	"os"

	"github.com/corvidae/patl/internal/ast"
)

// Config carries everything a run needs beyond the parsed program
// itself, modeled directly on goawk's interp.Config.
type Config struct {
	// Stdin is read when no input file paths are given in Args.
	Stdin io.Reader
	// Output receives every print line.
	Output io.Writer
	// Error receives nothing from this package directly; it exists so
	// callers (the CLI) have a single place to wire up diagnostics.
	Error io.Writer

	// Args holds input file paths, in processing order.
	Args []string
	// Vars holds "NAME=VALUE" strings injected as global string
	// variables before any record is processed, in -v order.
	Vars []string
	// FieldSeparator is the initial FS, from -F. Empty means the
	// language default of " " (whitespace-split).
	FieldSeparator string
}

func (c *Config) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

func (c *Config) output() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stdout
}

// ExecProgram is the single entry point a driver (the CLI, or a test)
// calls: it runs BEGIN items, then every input file (or stdin if none
// is given) through the per-line items, then END items. It mirrors
// goawk's ExecProgram(program, config) shape.
func ExecProgram(program *ast.Program, config *Config) error {
	if config.Output == nil {
		config.Output = config.output()
	}
	ip, err := newInterp(program, config)
	if err != nil {
		return err
	}

	if err := ip.runBeginItems(); err != nil {
		return err
	}

	if len(config.Args) == 0 {
		if err := ip.processFile(config.stdin()); err != nil {
			return err
		}
	} else {
		for _, path := range config.Args {
			if err := ip.processFileAt(path); err != nil {
				return err
			}
		}
	}

	return ip.runEndItems()
}

func (ip *Interp) processFileAt(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return newError("can't open %s: %s", path, err)
	}
	defer f.Close()
	return ip.processFile(f)
}

// processFile implements §4.7's process_file: FNR resets to 0 on
// entry, each line increments NR and FNR, a single trailing newline is
// stripped, and every item is evaluated against the resulting record.
func (ip *Interp) processFile(r io.Reader) error {
	ip.vars.Set("FNR", ast.Number(ast.Int(0)))

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		nr := ip.vars.Get("NR").ToNumber().Int + 1
		fnr := ip.vars.Get("FNR").ToNumber().Int + 1
		ip.vars.Set("NR", ast.Number(ast.Int(nr)))
		ip.vars.Set("FNR", ast.Number(ast.Int(fnr)))

		ip.setRecord(line)
		if err := ip.runItemsForLine(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return newError("input error: %s", err)
	}
	return nil
}
