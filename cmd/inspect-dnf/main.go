// Command inspect-dnf prints the disjunctive normal form and the emptiness
// verdict of JSON or YAML schema files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/speakeasy-api/schemalogic"
	"github.com/speakeasy-api/schemalogic/logic"
)

func main() {
	logLevel := flag.String("log", "", "log level: error, warn, info, debug")
	noSAT := flag.Bool("no-sat", false, "skip the propositional pre-check")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect-dnf [-log level] [-no-sat] schema.json...")
		os.Exit(2)
	}

	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	color.NoColor = !tty

	opts := schemalogic.DefaultOptions()
	opts.LogLevel = *logLevel
	opts.DisableSATPrecheck = *noSAT

	failed := false
	for _, path := range flag.Args() {
		if err := inspect(os.Stdout, path, opts, tty); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(w io.Writer, path string, opts schemalogic.Options, indent bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	schema, err := schemalogic.ParseSchema(data)
	if err != nil {
		return err
	}

	dnf, err := schemalogic.ToDNF(schema, opts)
	if err != nil {
		return err
	}
	empty, err := schemalogic.SchemaDescribesEmptySet(schema, opts)
	if err != nil {
		return err
	}

	var out []byte
	if indent {
		out, err = json.MarshalIndent(dnf, "", "  ")
	} else {
		out, err = json.Marshal(dnf)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal DNF: %w", err)
	}

	color.New(color.Bold).Fprintf(w, "=== %s ===\n", path)
	fmt.Fprintf(w, "%s\n", out)
	fmt.Fprintf(w, "empty: %s\n", verdict(empty))
	return nil
}

func verdict(t logic.Tri) string {
	switch t {
	case logic.True:
		return color.RedString("true")
	case logic.False:
		return color.GreenString("false")
	default:
		return color.YellowString("null")
	}
}
