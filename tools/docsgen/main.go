// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen writes markdown and tldr pages for every hellocdk subcommand.
//
//	go run ./tools/docsgen docs
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/hellocdk/internal/command"
	"github.com/tfctl/hellocdk/internal/version"
)

// Examples maps a subcommand to its documented invocations.
type Examples map[string][]Example

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
	Env         string
}

type TemplateData struct {
	ID          string
	Short       string
	Usage       string
	Flags       []Flag
	Examples    []Example
	Date        string
	Version     string
	ProgramName string
}

type Outputs struct {
	Template *template.Template
	Folder   string
	Prefix   string
	Suffix   string
}

var mdTemplate = template.Must(template.New("md").Parse(`# {{.ProgramName}} {{.ID}}

{{.Short}}

` + "```" + `
{{.Usage}}
` + "```" + `

## Flags

| flag | description | default | env |
|---|---|---|---|
{{- range .Flags}}
| ` + "`{{.Syntax}}`" + ` | {{.Description}} | {{.Default}} | {{.Env}} |
{{- end}}
{{if .Examples}}
## Examples
{{range .Examples}}
{{.Description}}

` + "```" + `
{{.Command}}
` + "```" + `
{{end}}{{end}}
_{{.ProgramName}} {{.Version}}, generated {{.Date}}_
`))

var tldrTemplate = template.Must(template.New("tldr").Parse(`# {{.ProgramName}} {{.ID}}

> {{.Short}}
{{range .Examples}}
- {{.Description}}:

` + "`{{.Command}}`" + `
{{end}}`))

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}
	docs := os.Args[1]

	if err := run(context.Background(), docs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, docs string) error {
	examples, err := loadExamples(filepath.Join(docs, "examples.yaml"))
	if err != nil {
		return err
	}

	app, err := command.InitApp(ctx, []string{"hellocdk"})
	if err != nil {
		return err
	}

	types := []Outputs{
		{Template: mdTemplate, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: tldrTemplate, Folder: filepath.Join(docs, "tldr"), Prefix: "hellocdk-", Suffix: ".md"},
	}

	for _, sub := range app.Commands {
		metadata := templateData(sub, examples[sub.Name])

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0755); err != nil {
				return err
			}

			path := filepath.Join(t.Folder, t.Prefix+sub.Name+t.Suffix)
			fmt.Println("Generating", path)
			if err := render(path, t.Template, metadata); err != nil {
				return err
			}
		}
	}

	return nil
}

func render(path string, tmpl *template.Template, data TemplateData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return tmpl.Execute(file, data)
}

func loadExamples(path string) (Examples, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Examples{}, nil
	}
	if err != nil {
		return nil, err
	}

	var examples Examples
	if err := yaml.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return examples, nil
}

func templateData(sub *cli.Command, examples []Example) TemplateData {
	usage := sub.UsageText
	if usage == "" {
		usage = "hellocdk " + sub.Name + " [flags]"
	}

	return TemplateData{
		ID:          sub.Name,
		Short:       sub.Usage,
		Usage:       usage,
		Flags:       flags(sub.Flags),
		Examples:    examples,
		Date:        time.Now().Format("January 2, 2006"),
		Version:     version.Version,
		ProgramName: "hellocdk",
	}
}

// documented is the part of a cli flag docsgen reads.
type documented interface {
	GetUsage() string
	GetDefaultText() string
	GetValue() string
	GetEnvVars() []string
	TakesValue() bool
}

func flags(in []cli.Flag) []Flag {
	out := make([]Flag, 0, len(in))
	for _, f := range in {
		names := f.Names()
		flag := Flag{ID: names[0], Syntax: syntax(names)}

		if d, ok := f.(documented); ok {
			flag.Description = d.GetUsage()
			if d.TakesValue() {
				flag.Syntax += " value"
				flag.Default = d.GetDefaultText()
				if flag.Default == "" {
					flag.Default = d.GetValue()
				}
			}
			flag.Env = strings.Join(d.GetEnvVars(), ", ")
		}
		out = append(out, flag)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

func syntax(names []string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if len(n) == 1 {
			parts = append(parts, "-"+n)
		} else {
			parts = append(parts, "--"+n)
		}
	}
	return strings.Join(parts, ", ")
}
