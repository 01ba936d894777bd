// Command oas-compat reports how the component schemas of an OpenAPI
// document changed between two versions. It exits with status 1 when a
// change is breaking.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/speakeasy-api/schemalogic/pkg/oascompat"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: oas-compat old.yaml new.yaml")
		os.Exit(2)
	}

	oldDoc, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	newDoc, err := os.ReadFile(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	report, err := oascompat.Compare(context.Background(), oldDoc, newDoc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	fmt.Print(oascompat.FormatReport(report))
	if report.Breaking() {
		os.Exit(1)
	}
}
