//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/speakeasy-api/schemalogic"
	"github.com/speakeasy-api/schemalogic/logic"
	"github.com/speakeasy-api/schemalogic/pkg/oascompat"
)

// ToDNF parses a JSON or YAML schema and returns its DNF as JSON.
func ToDNF(schemaInput string) (string, error) {
	schema, err := schemalogic.ParseSchema([]byte(schemaInput))
	if err != nil {
		return "", err
	}
	out, err := schemalogic.ToDNF(schema)
	if err != nil {
		return "", err
	}

	outBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(outBytes), nil
}

// Query runs one of the three-valued queries and returns "true", "false" or
// "null".
func Query(name string, inputs ...string) (string, error) {
	schemas := make([]any, len(inputs))
	for i, in := range inputs {
		s, err := schemalogic.ParseSchema([]byte(in))
		if err != nil {
			return "", fmt.Errorf("schema %d: %w", i+1, err)
		}
		schemas[i] = s
	}

	var (
		verdict logic.Tri
		err     error
	)
	switch name {
	case "empty":
		verdict, err = schemalogic.SchemaDescribesEmptySet(schemas[0])
	case "universe":
		verdict, err = schemalogic.SchemaDescribesUniverse(schemas[0])
	case "subset":
		verdict, err = schemalogic.SchemaDescribesSubset(schemas[0], schemas[1])
	case "equivalent":
		verdict, err = schemalogic.SchemasAreEquivalent(schemas[0], schemas[1])
	default:
		return "", fmt.Errorf("unknown query %q", name)
	}
	if err != nil {
		return "", err
	}
	return verdict.String(), nil
}

// CompareOpenAPI compares two OpenAPI documents and returns the text report.
func CompareOpenAPI(oldYAML, newYAML string) (string, error) {
	report, err := oascompat.Compare(context.Background(), []byte(oldYAML), []byte(newYAML))
	if err != nil {
		return "", err
	}
	return oascompat.FormatReport(report), nil
}

// promisify wraps a Go function to return a JavaScript Promise
func promisify(fn func(args []js.Value) (string, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) interface{} {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			go func() {
				result, err := fn(args)
				if err != nil {
					errorConstructor := js.Global().Get("Error")
					errorObject := errorConstructor.New(err.Error())
					reject.Invoke(errorObject)
					return
				}

				resolve.Invoke(result)
			}()

			// The handler of a Promise doesn't return any value
			return nil
		})

		promiseConstructor := js.Global().Get("Promise")
		return promiseConstructor.New(handler)
	})
}

func registerQuery(jsName, query string, arity int) {
	js.Global().Set(jsName, promisify(func(args []js.Value) (string, error) {
		if len(args) != arity {
			return "", fmt.Errorf("%s: expected %d args, got %v", jsName, arity, len(args))
		}
		inputs := make([]string, arity)
		for i, a := range args {
			inputs[i] = a.String()
		}
		return Query(query, inputs...)
	}))
}

func main() {
	js.Global().Set("ToDNF", promisify(func(args []js.Value) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("ToDNF: expected 1 arg (schema), got %v", len(args))
		}
		return ToDNF(args[0].String())
	}))

	registerQuery("SchemaDescribesEmptySet", "empty", 1)
	registerQuery("SchemaDescribesUniverse", "universe", 1)
	registerQuery("SchemaDescribesSubset", "subset", 2)
	registerQuery("SchemasAreEquivalent", "equivalent", 2)

	js.Global().Set("CompareOpenAPI", promisify(func(args []js.Value) (string, error) {
		if len(args) != 2 {
			return "", fmt.Errorf("CompareOpenAPI: expected 2 args (oldYAML, newYAML), got %v", len(args))
		}
		return CompareOpenAPI(args[0].String(), args[1].String())
	}))

	// Keep the program running
	<-make(chan bool)
}
