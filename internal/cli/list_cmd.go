// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// list_cmd.go - The list command: documents recorded in the sidecar.

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/util"
)

// HandleList handles the "list" command.
func HandleList(args Args) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := app.List(context.Background())
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("list", data).Print()
	}

	fmt.Fprintln(app.Out, TitleStyle.Render("Sidecar "+data.Sidecar))
	if len(data.Documents) == 0 {
		fmt.Fprintln(app.Out, DimStyle.Render("No documents recorded."))
		return nil
	}
	pathWidth := GetTerminalWidth() - 44
	if pathWidth < 20 {
		pathWidth = 20
	}
	for _, r := range data.Documents {
		label := DimStyle.Render(util.PadRight("(none)", 14))
		if level, ok := classification.ParseLevel(r.Classification); ok {
			label = RenderLevelCell(app.Catalog, level, 14)
		}
		path := r.Path
		if path == "" {
			path = r.Key
		}
		fmt.Fprintf(app.Out, "  %s %3d overlays  %s  %s\n",
			label, r.Overlays, DimStyle.Render(r.UpdatedAt.Local().Format("2006-01-02 15:04")), util.TruncateLeft(path, pathWidth))
	}
	return nil
}

// List returns every document the sidecar knows about.
func (a *App) List(ctx context.Context) (ListData, error) {
	records, err := a.Sidecar.List(ctx)
	if err != nil {
		return ListData{}, fmt.Errorf("list sidecar: %w", err)
	}
	return ListData{Sidecar: a.Sidecar.Path(), Documents: records}, nil
}
