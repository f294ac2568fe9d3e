// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/staranto/wtyctlgo/internal/attrs"
	"github.com/staranto/wtyctlgo/internal/config"
	"github.com/staranto/wtyctlgo/internal/render"
)

// Options control how a Writer emits frames.
type Options struct {
	// Format is text, json or yaml.
	Format string
	// Sort is a --sort spec applied to the drawn rows.
	Sort    string
	Titles  bool
	Color   bool
	Local   bool
	Summary bool
}

// Writer is a render.Surface that prints frames to an io.Writer.
type Writer struct {
	w     io.Writer
	attrs attrs.AttrList
	opts  Options
}

var _ render.Surface = (*Writer)(nil)

// NewWriter returns a Writer emitting the attrs columns of each card to w,
// or to stdout when w is nil.
func NewWriter(w io.Writer, al attrs.AttrList, opts Options) *Writer {
	if w == nil {
		w = os.Stdout
	}
	al = slices.Clone(al)
	if opts.Local {
		// Only the timestamp fields are worth converting.
		for i := range al {
			if strings.HasSuffix(al[i].Key, "At") {
				al[i].TransformSpec += "t"
			}
		}
	}
	return &Writer{w: w, attrs: al, opts: opts}
}

// Empty implements render.Surface.
func (w *Writer) Empty(s render.Summary) error {
	switch w.opts.Format {
	case "json", "yaml":
		_, err := fmt.Fprintln(w.w, "[]")
		return err
	default:
		if _, err := fmt.Fprintln(w.w, "No products found."); err != nil {
			return err
		}
		if w.opts.Summary {
			_, err := fmt.Fprintln(w.w, s.String())
			return err
		}
		return nil
	}
}

// Draw implements render.Surface.
func (w *Writer) Draw(f render.Frame) error {
	rows := Rows(f.Cards, w.attrs)
	SortDataset(rows, w.opts.Sort)

	switch w.opts.Format {
	case "json":
		out, err := json.MarshalIndent(visibleOnly(rows, w.attrs), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w.w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(visibleOnly(rows, w.attrs))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.w.Write(out)
		return err
	default:
		if err := TableWriter(rows, w.attrs, w.opts, w.w); err != nil {
			return err
		}
		if w.opts.Summary {
			_, err := fmt.Fprintln(w.w, f.Summary.String())
			return err
		}
		return nil
	}
}

// Rows extracts the attrs columns of each card, keyed by output key and
// transformed. Hidden attrs are kept so they can drive sorting.
func Rows(cards []render.Card, al attrs.AttrList) []map[string]any {
	rows := make([]map[string]any, 0, len(cards))
	for _, card := range cards {
		row := make(map[string]any, len(al))
		for i := range al {
			attr := al[i]
			if attr.Key == "*" {
				continue
			}
			value, ok := card.Get(attr.Key)
			if !ok {
				log.Debugf("card has no field %s", attr.Key)
			}
			if attr.TransformSpec != "" {
				value = attr.Transform(value)
			}
			row[attr.OutputKey] = value
		}
		rows = append(rows, row)
	}
	return rows
}

func visibleOnly(rows []map[string]any, al attrs.AttrList) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		trimmed := make(map[string]any, len(row))
		for _, attr := range al.Included() {
			if attr.Key == "*" {
				continue
			}
			trimmed[attr.OutputKey] = row[attr.OutputKey]
		}
		out = append(out, trimmed)
	}
	return out
}

// TableWriter renders the result set in a tabular form honoring color and
// titles options.
func TableWriter(resultSet []map[string]any, al attrs.AttrList, opts Options, w io.Writer) error {
	if len(resultSet) == 0 {
		return nil
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	included := al.Included()
	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(included))
		for _, attr := range included {
			if attr.Key == "*" {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	pad, _ := config.GetInt("padding", 2)

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		var headers []string
		for _, attr := range included {
			if attr.Key != "*" {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	_, err := fmt.Fprintln(w, t)
	return err
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided for nil and empty strings.
func InterfaceToString(value any, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	switch value := value.(type) {
	case nil:
		return emptyValue[0]
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
