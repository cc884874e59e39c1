package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-cfgtree/section"
)

// GetConfig configures the get subcommand.
type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

// GetCommand returns the get subcommand.
func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithSynopsis("get <path> [files] - show the value at a dotted key path").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a key path", cli.ErrUsage)
	}
	path := args[0]
	if path == "" {
		return fmt.Errorf("%w: invalid path \"\"", cli.ErrUsage)
	}
	return readSections(cc, args[1:], func(name string, sec *section.Section) error {
		v, ok := sec.Get(path)
		if !ok {
			return fmt.Errorf("%s: no value at %q", name, path)
		}
		return cfg.print(cc.Out, v)
	})
}
