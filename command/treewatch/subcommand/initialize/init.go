package initialize

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/lithammer/dedent"

	"go.scnd.dev/open/treewatch/command/treewatch/app"
	"go.scnd.dev/open/treewatch/package/span"
)

var template = strings.TrimLeft(dedent.Dedent(`
	# project document to update
	document: {{ env.TREEWATCH_DOCUMENT || default.project.json }}

	# directory whose new subfolders are added
	root: {{ env.TREEWATCH_ROOT || src }}

	selection:
	  # prompt, top or parent
	  policy: prompt
	  # parent entry used by the parent policy
	  parent: ""

	# overwrite, skip or confirm
	collision: overwrite

	# repeated creations of one folder inside this window are ignored
	dedupe: 500ms

	telemetry:
	  url: {{ env.TREEWATCH_OTLP_URL || "" }}
	  organization: ""
	  name: treewatch
`), "\n")

type Command struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

func (r *Command) Run(app *app.App) error {
	return Run(app, r)
}

func Run(a *app.App, command *Command) error {
	// * check existing file
	if _, err := os.Stat(a.ConfigPath); err == nil && !command.Force {
		return span.NewError(nil, a.ConfigPath+" already exists, use --force to overwrite", nil)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return span.NewError(nil, "unable to inspect "+a.ConfigPath, err)
	}

	// * write template
	if err := os.WriteFile(a.ConfigPath, []byte(template), 0o644); err != nil {
		return span.NewError(nil, "unable to write configuration file", err)
	}

	a.Console.Info("wrote %s", a.ConfigPath)
	return nil
}
