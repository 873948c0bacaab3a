// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the attribute schema",
		HideDefault: true,
	}
}

func newTLDRFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the output flags shared by every listing command.
// With ns and a config file path, string flags also read "<ns>.<flag>" and
// "<flag>" from the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	var (
		attrs = &cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		}
		filter = &cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		}
		outputFmt = &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, raw)",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		}
		sortBy = &cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		}
	)

	if len(params) == 2 {
		for _, f := range []*cli.StringFlag{attrs, filter, outputFmt, sortBy} {
			NameSpacedValueChainFlagFromConfigFile(params[0], params[1], f)
		}
	}

	flags = []cli.Flag{
		attrs,
		filter,
		outputFmt,
		sortBy,
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.EnvVars("HELLOCDK_COLOR"),
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between text output columns",
			Value: 2,
			Validator: func(value int) error {
				return FlagValidators(value, PaddingValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
		},
	}

	return
}

// NewDeclFlag is the declaration file flag, relative to RootDir. When unset,
// config key decl.file and then stacks.hcl apply.
func NewDeclFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "decl",
		Usage:   "stack declaration file, relative to RootDir (default: stacks.hcl)",
		Sources: cli.EnvVars("HELLOCDK_DECL"),
	}
}

// NewSynthFlags are the flags that shape an in-process synthesis.
func NewSynthFlags(params ...string) []cli.Flag {
	outdir := &cli.StringFlag{
		Name:    "outdir",
		Usage:   "cloud assembly directory, relative to RootDir",
		Sources: cli.EnvVars("CDK_OUTDIR"),
	}
	account := &cli.StringFlag{
		Name:    "account",
		Usage:   "pin the stack environment to this account",
		Sources: cli.EnvVars("CDK_DEFAULT_ACCOUNT"),
	}
	region := &cli.StringFlag{
		Name:    "env-region",
		Usage:   "pin the stack environment to this region",
		Sources: cli.EnvVars("CDK_DEFAULT_REGION"),
	}
	if len(params) == 2 {
		NameSpacedValueChainFlagFromConfigFile(params[0], params[1], outdir)
	}

	return []cli.Flag{
		outdir,
		account,
		region,
		&cli.BoolFlag{
			Name:  "analytics",
			Usage: "keep CDK version reporting metadata in templates",
		},
		NewDeclFlag(),
	}
}

// NewAWSFlags are the flags used to reach deployed buckets.
func NewAWSFlags(params ...string) []cli.Flag {
	profile := &cli.StringFlag{
		Name:    "profile",
		Usage:   "AWS shared config profile",
		Sources: cli.EnvVars("HELLOCDK_PROFILE"),
	}
	region := &cli.StringFlag{
		Name:    "region",
		Usage:   "AWS region",
		Sources: cli.EnvVars("HELLOCDK_REGION"),
	}
	endpoint := &cli.StringFlag{
		Name:    "endpoint",
		Usage:   "S3-compatible endpoint, e.g. LocalStack",
		Sources: cli.EnvVars("HELLOCDK_S3_ENDPOINT"),
	}
	if len(params) == 2 {
		for _, f := range []*cli.StringFlag{profile, region, endpoint} {
			NameSpacedValueChainFlagFromConfigFile(params[0], params[1], f)
		}
	}

	return []cli.Flag{
		profile,
		region,
		endpoint,
		&cli.BoolFlag{
			Name:  "refresh",
			Usage: "ignore cached reports and objects",
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile appends the namespaced and the
// global config file keys to flag's source chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	flag.Sources.Chain = append(flag.Sources.Chain,
		yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path)),
		yaml.YAML(flag.Name, altsrc.StringSourcer(path)),
	)
	return flag
}

// pathHas reports whether target is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
