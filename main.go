// Command patl runs a patl script over a stream of newline-delimited
// records, in the spirit of the classic Unix record-scanning tool.
//
// Usage:
//
//	patl [-F sep] [-v NAME=VALUE ...] 'script' [file ...]
//	patl [-F sep] [-v NAME=VALUE ...] -f scriptfile [file ...]
package main

import (
	"fmt"
	"os"

	"github.com/corvidae/patl/interp"
	"github.com/corvidae/patl/parser"
)

// cliArgs is the result of the §6 argument state machine: a manual
// os.Args walk (not the flag package) because "-v NAME=VALUE" repeats
// and the inline script positional may itself start with "-", both of
// which the flag package handles awkwardly. This mirrors goawk's own
// main.go argument handling style.
type cliArgs struct {
	fieldSep   string
	scriptFile string
	vars       []string
	script     string
	haveScript bool
	files      []string
}

func parseArgs(args []string) (*cliArgs, error) {
	c := &cliArgs{}
	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "-F":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-F requires a separator argument")
			}
			c.fieldSep = args[i+1]
			i += 2
		case arg == "-f":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-f requires a file argument")
			}
			c.scriptFile = args[i+1]
			i += 2
		case arg == "-v":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-v requires a NAME=VALUE argument")
			}
			c.vars = append(c.vars, args[i+1])
			i += 2
		default:
			if !c.haveScript && c.scriptFile == "" {
				c.script = arg
				c.haveScript = true
			} else {
				c.files = append(c.files, arg)
			}
			i++
		}
	}
	return c, nil
}

func (c *cliArgs) readScript() (string, error) {
	if c.scriptFile != "" {
		b, err := os.ReadFile(c.scriptFile)
		if err != nil {
			return "", fmt.Errorf("can't read script file %s: %s", c.scriptFile, err)
		}
		return string(b), nil
	}
	if !c.haveScript {
		return "", fmt.Errorf("no script given")
	}
	return c.script, nil
}

func run(args []string) error {
	c, err := parseArgs(args)
	if err != nil {
		return err
	}
	src, err := c.readScript()
	if err != nil {
		return err
	}

	prog, err := parser.Parse(src)
	if err != nil {
		return err
	}

	config := &interp.Config{
		Stdin:          os.Stdin,
		Output:         os.Stdout,
		Error:          os.Stderr,
		Args:           c.files,
		Vars:           c.vars,
		FieldSeparator: c.fieldSep,
	}
	return interp.ExecProgram(prog, config)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "patl: %s\n", err)
		os.Exit(1)
	}
}
