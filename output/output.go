// Package output renders a storage query result as Table, JSON or CSV
// (spec §6: "out of scope... tabular/JSON output formatting"; made
// concrete here since the CLI must produce something runnable).
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tapline/tapline/storage"
)

// Type selects a renderer.
type Type string

const (
	Table Type = "Table"
	JSON  Type = "Json"
	CSV   Type = "Csv"
)

// Render writes result to w using the formatter named by t. The name is
// matched case-insensitively, so "CSV", "Csv" and "csv" all select CSV.
func Render(w io.Writer, t Type, result *storage.SelectResult) error {
	for _, known := range []Type{Table, JSON, CSV} {
		if strings.EqualFold(string(t), string(known)) {
			t = known
		}
	}
	switch t {
	case Table, "":
		return renderTable(w, result)
	case JSON:
		return renderJSON(w, result)
	case CSV:
		return renderCSV(w, result)
	default:
		return fmt.Errorf("output: unknown output type %q", t)
	}
}

func renderTable(w io.Writer, result *storage.SelectResult) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for i, label := range result.Labels {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, label)
	}
	fmt.Fprintln(tw)
	for _, row := range result.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell.String())
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, result *storage.SelectResult) error {
	objects := make([]map[string]string, len(result.Rows))
	for i, row := range result.Rows {
		obj := make(map[string]string, len(result.Labels))
		for j, label := range result.Labels {
			if j < len(row) {
				obj[label] = row[j].String()
			}
		}
		objects[i] = obj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

func renderCSV(w io.Writer, result *storage.SelectResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Labels); err != nil {
		return err
	}
	for _, row := range result.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cell.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
