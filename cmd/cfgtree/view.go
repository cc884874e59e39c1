package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-cfgtree/colorcode"
	"github.com/KimNorgaard/go-cfgtree/section"
)

// ViewConfig configures the view subcommand.
type ViewConfig struct {
	*MainConfig
	View *cli.Command
}

// ViewCommand returns the view subcommand.
func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithSynopsis("view [files] - show the tree of each file").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	first := true
	return readSections(cc, args, func(_ string, sec *section.Section) error {
		if !first {
			if _, err := io.WriteString(cc.Out, "---\n"); err != nil {
				return err
			}
		}
		first = false
		return cfg.print(cc.Out, sec)
	})
}

// print writes node followed by a newline, with alternate colour codes
// turned into section-sign codes.
func (cfg *MainConfig) print(w io.Writer, node any) error {
	alt, err := cfg.altChar()
	if err != nil {
		return err
	}
	return cfg.printRaw(w, colorize(alt, node))
}

// printRaw writes node followed by a newline.
func (cfg *MainConfig) printRaw(w io.Writer, node any) error {
	f, err := cfg.formatter(w)
	if err != nil {
		return err
	}
	if err := f.Format(node); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// colorize returns a copy of node with alternate colour codes in strings
// translated to section-sign codes.
func colorize(alt rune, node any) any {
	switch n := node.(type) {
	case *section.Section:
		out := section.New()
		n.Each(func(k string, v any) bool {
			out.SetKey(k, colorize(alt, v))
			return true
		})
		return out
	case []any:
		seq := make([]any, len(n))
		for i, e := range n {
			seq[i] = colorize(alt, e)
		}
		return seq
	case string:
		return colorcode.Colorize(alt, n)
	default:
		return node
	}
}
