package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat accepts json or text; empty means json.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json|text)", s)
	}
}

// Write renders v. Text output expects the decoded JSON shape of a report:
// objects become key/value blocks and arrays of objects become tables.
func Write(w io.Writer, format Format, v any) error {
	if format == FormatText {
		return writeText(w, normalize(v))
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// normalize round-trips v through JSON so text rendering only sees maps,
// slices and scalars.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func writeText(w io.Writer, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		_, err := fmt.Fprintln(w, scalar(v))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var sections []string
	for _, k := range sortedKeys(obj) {
		switch obj[k].(type) {
		case map[string]any, []any:
			sections = append(sections, k)
		default:
			fmt.Fprintf(tw, "%s\t%s\n", k, scalar(obj[k]))
		}
	}
	for _, k := range sections {
		fmt.Fprintf(tw, "\n[%s]\n", k)
		switch val := obj[k].(type) {
		case map[string]any:
			for _, kk := range sortedKeys(val) {
				fmt.Fprintf(tw, "%s\t%s\n", kk, scalar(val[kk]))
			}
		case []any:
			writeRows(tw, val)
		}
	}
	return tw.Flush()
}

func writeRows(w io.Writer, rows []any) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	first, ok := rows[0].(map[string]any)
	if !ok {
		for _, r := range rows {
			fmt.Fprintln(w, scalar(r))
		}
		return
	}
	cols := sortedKeys(first)
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	for _, r := range rows {
		m, _ := r.(map[string]any)
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = scalar(m[c])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	case map[string]any, []any:
		b, _ := json.Marshal(val)
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
