// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// open_cmd.go - The open command.
//
// Command: open FILE
//
// Delivers the open event for FILE: the prompt state is reset and an
// existing classification is re-stamped as watermarks. Nothing is asked.

package cli

import (
	"context"

	"github.com/jeranaias/classmark/internal/host"
)

// HandleOpen handles the "open" command.
func HandleOpen(args Args) error {
	if err := requireFile(args, "classmark open FILE"); err != nil {
		return err
	}
	app, err := NewApp(args)
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := app.Open(context.Background(), args.File)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("open", data).Print()
	}
	app.printDocument(data)
	return nil
}

// Open opens path and returns its classification.
func (a *App) Open(ctx context.Context, path string) (DocumentData, error) {
	f, err := host.OpenFile(path)
	if err != nil {
		return DocumentData{}, err
	}
	a.Controller.OnOpen(ctx, f)
	return a.describe(ctx, f), nil
}
