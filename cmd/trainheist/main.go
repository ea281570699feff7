package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Play        PlayCmd          `cmd:"" default:"1" help:"Play a game in the terminal"`
	Simulate    SimulateCmd      `cmd:"" help:"Run bot-only games and report statistics"`
	CheckConfig CheckConfigCmd   `cmd:"check-config" help:"Validate a configuration file and print the resolved game"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("trainheist"),
		kong.Description("A train robbery card game for one human and a handful of bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	cli.Globals.applyColor()
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
