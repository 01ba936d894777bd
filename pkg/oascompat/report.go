package oascompat

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

// FormatReport renders the report as an aligned table followed by a line
// diff of every breaking or undecided schema.
func FormatReport(r *Report) string {
	if len(r.Entries) == 0 {
		return "No component schemas to compare.\n"
	}

	width := runewidth.StringWidth("SCHEMA")
	for _, e := range r.Entries {
		width = max(width, runewidth.StringWidth(e.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-9s  %-6s  %s\n", runewidth.FillRight("SCHEMA", width), "CHANGE", "SUBSET", "SUPERSET")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "%s  %-9s  %-6s  %s\n",
			runewidth.FillRight(e.Name, width), e.Change, tri(e), superset(e))
	}

	for _, e := range r.Entries {
		if e.Change != Breaking && e.Change != Undecided {
			continue
		}
		fmt.Fprintf(&b, "\n--- %s (%s)\n", e.Name, e.Change)
		b.WriteString(LineDiff(e.Old, e.New))
	}
	return b.String()
}

func tri(e Entry) string {
	if e.Change == Added || e.Change == Removed {
		return "-"
	}
	return e.Subset.String()
}

func superset(e Entry) string {
	if e.Change == Added || e.Change == Removed || e.Change == Breaking {
		return "-"
	}
	return e.Superset.String()
}

// LineDiff renders a line-oriented diff with "-" for removed lines, "+" for
// added lines and two spaces for context.
func LineDiff(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}

// render prints a schema as YAML with sorted keys.
func render(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v\n", v)
	}
	return string(data)
}
