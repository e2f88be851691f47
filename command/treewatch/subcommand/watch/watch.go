package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"go.scnd.dev/open/treewatch"
	"go.scnd.dev/open/treewatch/command/treewatch/app"
	"go.scnd.dev/open/treewatch/command/treewatch/common/config"
	"go.scnd.dev/open/treewatch/package/span"
	"go.scnd.dev/open/treewatch/package/telemetry"
	"go.scnd.dev/open/treewatch/procedure/reconcile"
	"go.scnd.dev/open/treewatch/procedure/selector"
)

type Command struct {
	app.Flags `embed:""`
	Root      string         `help:"Directory whose new subfolders are added." short:"r" type:"path"`
	Dedupe    *time.Duration `help:"Window in which repeated creations of one folder are ignored, 0 disables."`
}

// Settings merges the flags over the configuration file.
func (r *Command) Settings(file *config.Config) config.Settings {
	overrides := r.Flags.Settings()
	overrides.Root = r.Root
	settings := file.Settings(overrides)
	if r.Dedupe != nil {
		settings.Dedupe = *r.Dedupe
	}
	return settings
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
	settings := command.Settings(file)

	// * ask for missing paths
	prompt := selector.NewPrompt()
	if settings.Document == "" {
		settings.Document, err = prompt.PickFile(ctx, "Select the project document", ".", ".json")
		if errors.Is(err, selector.ErrCancelled) {
			a.Console.Info("no project document selected, exiting")
			return nil
		}
		if err != nil {
			return span.NewError(nil, "unable to pick project document", err)
		}
	}
	if settings.Root == "" {
		settings.Root, err = prompt.PickDirectory(ctx, "Select the directory to watch", ".")
		if errors.Is(err, selector.ErrCancelled) {
			a.Console.Info("no directory selected, exiting")
			return nil
		}
		if err != nil {
			return span.NewError(nil, "unable to pick watch directory", err)
		}
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	tel := file.Telemetry
	if tel == nil {
		tel = new(telemetry.Config)
	}

	// * assemble application
	application := fx.New(
		fx.Supply(a, settings, prompt, tel),
		fx.Provide(NewInstance),
		fx.Invoke(Register),
		fx.WithLogger(func() fxevent.Logger {
			if a.Verbose {
				return &fxevent.ConsoleLogger{W: os.Stderr}
			}
			return fxevent.NopLogger
		}),
	)
	if err := application.Err(); err != nil {
		return err
	}

	if err := application.Start(ctx); err != nil {
		return err
	}
	signal := <-application.Wait()

	stop, cancel := context.WithTimeout(ctx, application.StopTimeout())
	defer cancel()
	if err := application.Stop(stop); err != nil {
		return err
	}

	if signal.ExitCode != 0 {
		return fmt.Errorf("watch stopped with exit code %d", signal.ExitCode)
	}
	return nil
}

func NewInstance(a *app.App, settings config.Settings, prompt *selector.Prompt, tel *telemetry.Config) (*treewatch.Instance, error) {
	return treewatch.New(&treewatch.Config{
		DocumentPath: settings.Document,
		WatchRoot:    settings.Root,
		ParentPolicy: app.Policy(settings, prompt),
		Collision:    reconcile.Collision(settings.Collision),
		Dedupe:       settings.Dedupe,
		Verbose:      a.Verbose,
		Output:       nil,
		Telemetry:    tel,
	})
}

// Register ties the instance to the application lifecycle. A watcher that
// stops on its own shuts the application down with a non-zero exit code.
func Register(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, instance *treewatch.Instance) {
	ctx, cancel := context.WithCancel(context.Background())
	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := instance.Start(); err != nil {
				return err
			}
			go func() {
				err := instance.Consume(ctx)
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					instance.Console.Error("%v", err)
				}
				instance.Console.Error("watcher stopped unexpectedly")
				_ = shutdowner.Shutdown(fx.ExitCode(1))
			}()
			return nil
		},
		OnStop: func(stop context.Context) error {
			cancel()
			return instance.Close(stop)
		},
	})
}
