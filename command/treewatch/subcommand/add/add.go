package add

import (
	"context"
	"fmt"

	"go.scnd.dev/open/treewatch/command/treewatch/app"
	"go.scnd.dev/open/treewatch/package/span"
	"go.scnd.dev/open/treewatch/procedure/reconcile"
	"go.scnd.dev/open/treewatch/procedure/resolver"
	"go.scnd.dev/open/treewatch/procedure/selector"
)

type Command struct {
	app.Flags `embed:""`
	Folders   []string `arg:"" help:"Folders to add." type:"existingdir"`
}

func (r *Command) Run(app *app.App) error {
	return Run(app, r)
}

func Run(a *app.App, command *Command) error {
	ctx := context.Background()

	// * merge settings
	file, err := a.Config()
	if err != nil {
		return err
	}
	settings := file.Settings(command.Flags.Settings())
	if err := settings.Validate(); err != nil {
		return err
	}

	// * reconcile each folder in order
	reconciler := reconcile.New(settings.Document, app.Policy(settings, selector.NewPrompt()), a.Console, nil)
	reconciler.Collision = reconcile.Collision(settings.Collision)

	failed := 0
	for _, folder := range command.Folders {
		if _, err := reconciler.Reconcile(ctx, resolver.Absolute(folder)); err != nil {
			a.Console.Error("%v", err)
			failed++
		}
	}

	if failed > 0 {
		return span.NewError(nil, fmt.Sprintf("%d of %d folders failed", failed, len(command.Folders)), nil)
	}
	return nil
}
