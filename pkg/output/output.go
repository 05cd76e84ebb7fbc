// Package output prints status lines, tables and structured documents for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/ryanuber/columnize"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.Bold)
)

var toneColors = map[string]*color.Color{
	"success":   color.New(color.FgGreen),
	"danger":    color.New(color.FgRed),
	"warning":   color.New(color.FgYellow),
	"secondary": color.New(color.FgHiBlack),
	"info":      color.New(color.FgCyan),
}

func Success(format string, a ...interface{}) {
	successColor.Fprintf(os.Stdout, "✓ "+format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	errorColor.Fprintf(os.Stderr, "✗ "+format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	infoColor.Fprintf(os.Stdout, format+"\n", a...)
}

func Warn(format string, a ...interface{}) {
	warnColor.Fprintf(os.Stdout, "⚠ "+format+"\n", a...)
}

// Paint colors s by tone name. Unknown tones are returned unchanged.
func Paint(tone, s string) string {
	c, ok := toneColors[tone]
	if !ok {
		return s
	}
	return c.Sprint(s)
}

func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func YAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Structured writes v as JSON or YAML. It returns false for the table format
// so the caller can render its own view.
func Structured(format string, v interface{}) (bool, error) {
	switch format {
	case FormatJSON:
		return true, JSON(v)
	case FormatYAML:
		return true, YAML(v)
	default:
		return false, nil
	}
}

type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the table to stdout.
func (t *Table) Render() {
	t.RenderTo(os.Stdout)
}

// RenderTo writes the aligned table to w with a bold header and a dashed separator.
func (t *Table) RenderTo(w io.Writer) {
	const delim = "\x1f"

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}

	lines := make([]string, 0, len(t.rows)+2)
	lines = append(lines, strings.Join(t.headers, delim), strings.Join(sep, delim))
	for _, row := range t.rows {
		lines = append(lines, strings.Join(row, delim))
	}

	cfg := columnize.DefaultConfig()
	cfg.Delim = delim
	cfg.Glue = "  "
	formatted := strings.Split(columnize.Format(lines, cfg), "\n")

	headerColor.Fprintln(w, formatted[0])
	for _, line := range formatted[1:] {
		fmt.Fprintln(w, line)
	}
}
