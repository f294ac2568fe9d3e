// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/config"
)

func init() {
	cfg, _ = config.Load()
}

var cfg config.Type

// Flag values live in the flag, so every command gets its own instance.

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the fields usable in --attrs, --sort and --filter",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

func newYesFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "yes",
		Aliases:     []string{"y"},
		Usage:       "do not ask for confirmation",
		HideDefault: true,
	}
}

// NewGlobalFlags returns the output flags shared by the listing commands.
// params[0] is the command name, used to namespace config file lookups.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of fields to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show timestamps in the WTYCTL_TZ or TZ time zone",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"local", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("local", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of fields to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewCriteriaFlags returns the search, category and status filter flags.
func NewCriteriaFlags(params ...string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"q"},
			Usage:   "free text search over name, brand, model and category",
		},
		NameSpacedValueChainFlagFromConfigFile(params[0], cfg.Source, &cli.StringFlag{
			Name:  "category",
			Usage: "only products in this category (exact match)",
		}),
		&cli.StringFlag{
			Name:  "status",
			Usage: "only products with this warranty status (valid, expiring, expired, unknown)",
			Validator: func(value string) error {
				return FlagValidators(value, StatusValidator)
			},
		},
	}
}

// NewViewportFlags returns the flags paging through a large listing.
func NewViewportFlags(params ...string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "virtual",
			Usage: "only materialize the rows around --offset",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WTYCTL_VIRTUALIZE"),
				yaml.YAML(params[0]+"."+"virtual", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "row to start at with --virtual",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "rows to show with --virtual, defaults to the terminal height",
		},
	}
}

// NewDataDirFlag constructs the flag selecting where products are stored.
func NewDataDirFlag(params ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory holding the product data",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("WTYCTL_DATA_DIR"),
		),
	}
	if len(params) == 1 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], cfg.Source, flag)
	}
	return flag
}

// NewProductFlags returns one flag per editable product field.
func NewProductFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "product name"},
		&cli.StringFlag{Name: "brand", Aliases: []string{"b"}, Usage: "brand"},
		&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "model"},
		&cli.StringFlag{Name: "category", Usage: "category"},
		&cli.StringFlag{Name: "serial", Usage: "serial number"},
		&cli.StringFlag{
			Name:    "purchase-date",
			Aliases: []string{"d"},
			Usage:   "purchase date (YYYY-MM-DD)",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, DateValidator)
			},
		},
		&cli.IntFlag{Name: "warranty", Aliases: []string{"w"}, Usage: "warranty period in months"},
		&cli.FloatFlag{Name: "price", Aliases: []string{"p"}, Usage: "purchase price"},
		&cli.StringFlag{Name: "store", Usage: "where it was bought"},
		&cli.StringFlag{Name: "notes", Usage: "free form notes"},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas checks if target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
