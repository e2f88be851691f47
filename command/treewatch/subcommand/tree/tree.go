package tree

import (
	"io"
	"os"
	"path/filepath"

	"go.scnd.dev/open/treewatch/command/treewatch/app"
	"go.scnd.dev/open/treewatch/command/treewatch/common/config"
	"go.scnd.dev/open/treewatch/package/span"
	"go.scnd.dev/open/treewatch/procedure/document"
	"go.scnd.dev/open/treewatch/procedure/printer"
)

type Command struct {
	Document   string `help:"Project document to print." short:"d" type:"path"`
	Properties bool   `help:"Include scalar properties such as $className." short:"p"`
}

func (r *Command) Run(app *app.App) error {
	return Run(app, r, os.Stdout)
}

func Run(a *app.App, command *Command, w io.Writer) error {
	// * resolve document
	file, err := a.Config()
	if err != nil {
		return err
	}
	settings := file.Settings(config.Settings{Document: command.Document})
	if settings.Document == "" {
		return span.NewError(nil, "no project document given, use --document or set document in "+a.ConfigPath, nil)
	}

	// * print tree
	doc, err := document.Load(settings.Document)
	if err != nil {
		return span.NewError(nil, "unable to load document", err)
	}

	return printer.PrintTree(w, filepath.Base(settings.Document), doc, command.Properties)
}
