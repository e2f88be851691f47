package app

import (
	"go.scnd.dev/open/treewatch/command/treewatch/common/config"
	"go.scnd.dev/open/treewatch/package/console"
	"go.scnd.dev/open/treewatch/procedure/selector"
)

type App struct {
	Verbose    bool
	ConfigPath string
	Console    *console.Console
}

func New(verbose bool, configPath string) *App {
	return &App{
		Verbose:    verbose,
		ConfigPath: configPath,
		Console:    console.New(nil, verbose),
	}
}

func (r *App) Config() (*config.Config, error) {
	return config.Load(r.ConfigPath)
}

// Flags are the placement options shared by subcommands that update the document.
type Flags struct {
	Document  string `help:"Project document to update." short:"d" type:"path"`
	Policy    string `help:"Parent selection policy (prompt, top, parent)."`
	Parent    string `help:"Parent entry used by the parent policy."`
	Collision string `help:"What to do when the entry already exists (overwrite, skip, confirm)."`
}

func (r *Flags) Settings() config.Settings {
	return config.Settings{
		Document:  r.Document,
		Policy:    r.Policy,
		Parent:    r.Parent,
		Collision: r.Collision,
	}
}

// Policy builds the selector for the configured selection policy.
func Policy(settings config.Settings, prompt *selector.Prompt) selector.Selector {
	switch settings.Policy {
	case "top":
		return selector.TopLevel{}
	case "parent":
		return selector.NewNamed(settings.Parent)
	default:
		return prompt
	}
}
