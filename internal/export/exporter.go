package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rebeliceyang/lazycms/internal/jsonb"
	"github.com/rebeliceyang/lazycms/internal/models"
)

// WriteCSV writes the page items as CSV, columns in select order
func WriteCSV(w io.Writer, page models.Page) error {
	writer := csv.NewWriter(w)

	columns := pageColumns(page)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, item := range page.Items {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = FormatCell(item[col])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Project narrows a page to columns. A dotted column such as author.name
// reads into the JSON document of an included association.
func Project(page models.Page, columns []string) (models.Page, error) {
	if len(columns) == 0 {
		return page, nil
	}

	out := page
	out.Columns = columns
	out.Items = make([]map[string]interface{}, len(page.Items))
	for i, item := range page.Items {
		row := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			head, rest, nested := strings.Cut(col, ".")
			val, ok := item[head]
			if !ok {
				return models.Page{}, fmt.Errorf("unknown column %q", head)
			}
			if nested {
				var err error
				val, err = jsonb.Lookup(val, jsonb.ParsePath(rest))
				if err != nil {
					return models.Page{}, fmt.Errorf("column %q, row %d: %w", col, i+1, err)
				}
			}
			row[col] = val
		}
		out.Items[i] = row
	}
	return out, nil
}

// WriteJSON writes the page envelope as indented JSON
func WriteJSON(w io.Writer, page models.Page) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(page); err != nil {
		return fmt.Errorf("failed to marshal page to JSON: %w", err)
	}
	return nil
}

// ExportToCSV exports a page to a CSV file
func ExportToCSV(page models.Page, path string) error {
	return toFile(path, func(w io.Writer) error { return WriteCSV(w, page) })
}

// ExportToJSON exports a page to a JSON file
func ExportToJSON(page models.Page, path string) error {
	return toFile(path, func(w io.Writer) error { return WriteJSON(w, page) })
}

func toFile(path string, write func(io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// pageColumns falls back to the sorted keys of the first item
func pageColumns(page models.Page) []string {
	if len(page.Columns) > 0 {
		return page.Columns
	}
	if len(page.Items) == 0 {
		return []string{}
	}
	cols := make([]string, 0, len(page.Items[0]))
	for k := range page.Items[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// FormatCell renders a database value, JSON-encoding nested documents
func FormatCell(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case map[string]interface{}, []interface{}:
		out, err := jsonb.Compact(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return out
	default:
		return fmt.Sprintf("%v", val)
	}
}
