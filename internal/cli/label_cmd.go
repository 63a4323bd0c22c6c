// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// label_cmd.go - The label command.
//
// Command: label FILE [--level L]
// Aliases: classify, save
//
// Opens FILE and runs the save gate. With --level the choice is taken as
// already confirmed; otherwise the configured dialog asks. Cancelling the
// dialog aborts with exit code 1.
//
// Examples:
//   classmark label report.docx --level Secret
//   classmark label notes.txt                     Ask interactively
//   classmark label budget.xlsx -l TopSecret --json

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/dialog"
	"github.com/jeranaias/classmark/internal/host"
)

const labelUsage = "classmark label FILE [--level TopSecret|Secret|Restricted|Public]"

// HandleLabel handles the "label" command.
func HandleLabel(args Args) error {
	if err := requireFile(args, labelUsage); err != nil {
		return err
	}

	var opts []AppOption
	if args.Level != "" {
		level, ok := parseLevelArg(nil, args.Level)
		if !ok {
			return ErrInvalidLevel(args.Level)
		}
		opts = append(opts, WithSelector(dialog.StaticSelector{Level: level}))
	}

	app, err := NewApp(args, opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := app.Label(context.Background(), args.File)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("label", data).Print()
	}

	app.printDocument(data.DocumentData)
	if data.Changed && data.Previous != "" {
		fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Previous"), DimStyle.Render(data.Previous))
	}
	fmt.Fprintf(app.Out, "%s%d\n", RenderLabel("Watermarks"), data.Watermarks)
	if !args.Quiet {
		fmt.Fprintln(app.Out, SuccessStyle.Render("Saved."))
	}
	return nil
}

// Label opens path and runs it through the save gate.
func (a *App) Label(ctx context.Context, path string) (LabelData, error) {
	ws := host.NewWorkspace(a.Controller, a.Sidecar, nil, a.Logger)
	f, err := ws.Open(ctx, path)
	if err != nil {
		return LabelData{}, err
	}
	defer ws.Discard(f)

	prev, hadPrev := a.Store.Read(ctx, f)

	proceed, err := ws.Save(ctx, f)
	if err != nil {
		return LabelData{}, err
	}
	if !proceed {
		return LabelData{}, ErrSaveAborted
	}

	data := LabelData{DocumentData: a.describe(ctx, f)}
	if hadPrev {
		data.Previous = prev.String()
	}
	data.Changed = !hadPrev || data.Classification != data.Previous
	if shapes, err := a.Sidecar.AllShapes(ctx, f); err == nil {
		data.Watermarks = len(shapes)
	}
	return data, nil
}

// parseLevelArg accepts a level name or catalog label, ignoring case.
// A nil catalog means the English one.
func parseLevelArg(catalog *classification.Catalog, s string) (classification.Level, bool) {
	s = strings.TrimSpace(s)
	if level, ok := classification.ParseLevel(s); ok {
		return level, true
	}
	if catalog == nil {
		catalog = classification.DefaultCatalog()
	}
	squash := func(v string) string {
		return strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(v))
	}
	for _, level := range classification.Levels() {
		if squash(s) == squash(level.String()) || squash(s) == squash(catalog.Label(level)) {
			return level, true
		}
	}
	return 0, false
}
