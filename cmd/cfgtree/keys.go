package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-cfgtree/section"
)

// KeysConfig configures the keys subcommand.
type KeysConfig struct {
	*MainConfig
	Keys      *cli.Command
	Recursive bool   `cli:"name=recursive aliases=r desc='list the dotted paths of all nested keys'"`
	Path      string `cli:"name=path aliases=p desc='list the keys of the section at this path'"`
}

// KeysCommand returns the keys subcommand.
func KeysCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &KeysConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Keys, "keys").
		WithSynopsis("keys [-r] [-p path] [files] - list keys in order").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return keys(cfg, cc, args)
		})
}

func keys(cfg *KeysConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Keys.Parse(cc, args)
	if err != nil {
		return err
	}
	return readSections(cc, args, func(name string, sec *section.Section) error {
		if cfg.Path != "" {
			sub := sec.Section(cfg.Path)
			if sub == nil {
				return fmt.Errorf("%s: no section at %q", name, cfg.Path)
			}
			sec = sub
		}
		for _, k := range listKeys(sec, "", cfg.Recursive) {
			if _, err := fmt.Fprintln(cc.Out, k); err != nil {
				return err
			}
		}
		return nil
	})
}

func listKeys(sec *section.Section, prefix string, recursive bool) []string {
	var out []string
	sec.Each(func(k string, v any) bool {
		out = append(out, prefix+k)
		if sub, ok := v.(*section.Section); ok && recursive {
			out = append(out, listKeys(sub, prefix+k+section.PathSeparator, true)...)
		}
		return true
	})
	return out
}
