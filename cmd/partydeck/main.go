package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the game server"`
	Check   CheckCmd         `cmd:"" help:"Validate a card catalog file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("partydeck"),
		kong.Description("Server for a fill-in-the-blanks party card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
