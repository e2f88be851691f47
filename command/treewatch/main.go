package main

import (
	"github.com/alecthomas/kong"

	"go.scnd.dev/open/treewatch/command/treewatch/app"
	"go.scnd.dev/open/treewatch/command/treewatch/common/config"
	"go.scnd.dev/open/treewatch/command/treewatch/subcommand/add"
	"go.scnd.dev/open/treewatch/command/treewatch/subcommand/initialize"
	"go.scnd.dev/open/treewatch/command/treewatch/subcommand/tree"
	"go.scnd.dev/open/treewatch/command/treewatch/subcommand/watch"
)

type Command struct {
	Verbose bool                `help:"Enable verbose output." short:"v"`
	Config  string              `help:"Configuration file." default:"${config}" type:"path"`
	Watch   *watch.Command      `cmd:"watch" default:"withargs" help:"Watch a directory and add new folders to the project tree."`
	Add     *add.Command        `cmd:"add" help:"Add existing folders to the project tree."`
	Tree    *tree.Command       `cmd:"tree" help:"Print the project tree."`
	Init    *initialize.Command `cmd:"init" help:"Write a starter configuration file."`
}

func main() {
	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("treewatch"),
		kong.Description("Add newly created folders to a JSON project tree"),
		kong.Vars{"config": config.DefaultPath},
	)
	err := ctx.Run(app.New(command.Verbose, command.Config))
	ctx.FatalIfErrorf(err)
}
