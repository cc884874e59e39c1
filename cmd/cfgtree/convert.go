package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-cfgtree/section"
	"github.com/KimNorgaard/go-cfgtree/treetext"
	"github.com/KimNorgaard/go-cfgtree/yamlstore"
)

// ConvertConfig configures the convert subcommand.
type ConvertConfig struct {
	*MainConfig
	Convert *cli.Command
	From    string `cli:"name=from default=tree desc='input format: tree or yaml'"`
	To      string `cli:"name=to default=yaml desc='output format: tree or yaml'"`
}

// ConvertCommand returns the convert subcommand.
func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithSynopsis("convert [-from fmt] [-to fmt] [files] - convert between tree text and YAML").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	read, err := reader(cfg.From)
	if err != nil {
		return err
	}
	if cfg.To != "tree" && cfg.To != "yaml" {
		return fmt.Errorf("%w: -to must be tree or yaml, got %q", cli.ErrUsage, cfg.To)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, file := range args {
		if i > 0 {
			if _, err := io.WriteString(cc.Out, "---\n"); err != nil {
				return err
			}
		}
		sec, err := readWith(cc, file, read)
		if err != nil {
			return err
		}
		if cfg.To == "yaml" {
			err = yamlstore.Write(cc.Out, sec, nil, nil)
		} else {
			err = cfg.printRaw(cc.Out, sec)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func reader(format string) (func(io.Reader) (*section.Section, error), error) {
	switch format {
	case "tree":
		return treetext.DecodeSection, nil
	case "yaml":
		return yamlstore.Load, nil
	default:
		return nil, fmt.Errorf("%w: -from must be tree or yaml, got %q", cli.ErrUsage, format)
	}
}

func readWith(cc *cli.Context, file string, read func(io.Reader) (*section.Section, error)) (*section.Section, error) {
	if file == "-" {
		sec, err := read(cc.In)
		if err != nil {
			return nil, fmt.Errorf("error processing stdin: %w", err)
		}
		return sec, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", file, err)
	}
	defer f.Close()
	sec, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("error processing %s: %w", file, err)
	}
	return sec, nil
}
