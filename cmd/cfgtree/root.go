package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-cfgtree/internal/formatter"
	"github.com/KimNorgaard/go-cfgtree/section"
	"github.com/KimNorgaard/go-cfgtree/yamlstore"
)

const usageText = `cfgtree reads YAML configuration files and shows the key-value tree
they decode to. Files are read from standard input when none, or "-", is
given. Colour codes such as "&c" are shown as terminal colours.

The tree text printed by view and get can be turned back into YAML with
convert.`

// MainConfig holds the options shared by all subcommands.
type MainConfig struct {
	*cli.Command
	Color  string `cli:"name=color default=auto desc='colour output: auto, always or never'"`
	Indent int    `cli:"name=indent aliases=i default=2 desc='indentation width, 0 for one line'"`
	Alt    string `cli:"name=alt default=& desc='alternate colour code character'"`
}

// MainCommand returns the root command.
func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "cfgtree").
		WithSynopsis("cfgtree <command> [opts] - inspect configuration trees").
		WithDescription(usageText).
		WithOpts(opts...).
		WithSubs(
			ViewCommand(cfg),
			GetCommand(cfg),
			KeysCommand(cfg),
			ConvertCommand(cfg),
		)
}

// formatter returns a tree formatter writing to w, coloured according to
// the -color option.
func (cfg *MainConfig) formatter(w io.Writer) (*formatter.Formatter, error) {
	indent := cfg.Indent
	if indent < 0 {
		return nil, fmt.Errorf("%w: -indent must not be negative", cli.ErrUsage)
	}
	f := formatter.New(w, &indent)
	switch cfg.Color {
	case "auto":
		f.SetColor(isTerminal(w))
	case "always":
		f.SetColor(true)
	case "never":
		f.SetColor(false)
	default:
		return nil, fmt.Errorf("%w: -color must be auto, always or never, got %q", cli.ErrUsage, cfg.Color)
	}
	return f, nil
}

func (cfg *MainConfig) altChar() (rune, error) {
	r := []rune(cfg.Alt)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: -alt must be a single character, got %q", cli.ErrUsage, cfg.Alt)
	}
	return r[0], nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// readSections calls fn with the tree of every named file, or of stdin
// when files is empty.
func readSections(cc *cli.Context, files []string, fn func(name string, sec *section.Section) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		sec, err := readSection(cc, file)
		if err != nil {
			return err
		}
		if err := fn(file, sec); err != nil {
			return err
		}
	}
	return nil
}

func readSection(cc *cli.Context, file string) (*section.Section, error) {
	return readWith(cc, file, yamlstore.Load)
}
