// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/hellocdk/internal/attrs"
	"github.com/tfctl/hellocdk/internal/config"
	"github.com/tfctl/hellocdk/internal/filters"
)

// Options are the rendering knobs shared by every list command.
type Options struct {
	Format  string
	Filter  string
	Sort    string
	Local   bool
	Color   bool
	Titles  bool
	Padding int
	Header  string
	Footer  string
}

// OptionsFromCommand reads the global output flags off cmd. Header and footer
// come from the command's Metadata when present.
func OptionsFromCommand(cmd *cli.Command) Options {
	opts := Options{
		Format:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Local:   cmd.Bool("local"),
		Color:   cmd.Bool("color"),
		Titles:  cmd.Bool("titles"),
		Padding: int(cmd.Int("padding")),
	}
	if h, ok := cmd.Metadata["header"].(string); ok {
		opts.Header = h
	}
	if f, ok := cmd.Metadata["footer"].(string); ok {
		opts.Footer = f
	}
	return opts
}

// InterfaceToString renders a row value for a table cell. Nil and zero values
// other than false render as emptyValue.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if b, ok := value.(bool); ok {
		return strconv.FormatBool(b)
	}
	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit filters, transforms, sorts and renders raw. parent selects
// the array inside raw holding the rows ("data" for jsonapi payloads, "" when
// raw is the array itself).
func SliceDiceSpit(raw []byte, al attrs.AttrList, opts Options, parent string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	if opts.Format == "raw" {
		_, err := w.Write(raw)
		return err
	}

	fullDataset := gjson.ParseBytes(raw)
	if parent != "" {
		fullDataset = fullDataset.Get(parent)
	}

	dataset := filters.FilterDataset(fullDataset, al, opts.Filter)

	if opts.Local {
		for i := range al {
			al[i].TransformSpec += "t"
		}
	}

	for _, row := range dataset {
		for _, attr := range al {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(dataset, opts.Sort)

	// Hidden attrs only feed filtering and sorting.
	for _, row := range dataset {
		for _, attr := range al {
			if !attr.Include {
				delete(row, attr.OutputKey)
			}
		}
	}

	switch opts.Format {
	case "json":
		if dataset == nil {
			dataset = []map[string]interface{}{}
		}
		out, err := json.MarshalIndent(dataset, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		TableWriter(dataset, al, opts, w)
		return nil
	}
}

// TableWriter renders rows as an unbordered table.
func TableWriter(resultSet []map[string]interface{}, al attrs.AttrList, opts Options, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	if len(resultSet) == 0 {
		log.Debug("no rows to render")
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color && isTerminal(w) {
		headerColor, evenColor, oddColor := getColors("colors")
		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(al))
		for _, attr := range al {
			if attr.Include {
				row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
			}
		}
		rows = append(rows, row)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
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
		t = t.Headers(al.OutputKeys()...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// isTerminal reports whether w is a terminal. Colors are never written to
// pipes or files.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// getColors returns the configured table colors, or defaults picked for the
// terminal's background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		if colorCfg, err := config.GetString(key); err == nil {
			return lipgloss.Color(colorCfg)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
