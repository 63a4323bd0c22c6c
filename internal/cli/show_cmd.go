// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// show_cmd.go - The show command.
//
// Command: show FILE [--preview]
// Aliases: info
//
// Read-only: reports the classification and the watermark overlays stored
// for FILE without delivering any lifecycle event. --preview draws the
// first page's overlays on a Letter-sized character grid.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/document"
	"github.com/jeranaias/classmark/internal/host"
	"github.com/jeranaias/classmark/internal/watermark"
)

// HandleShow handles the "show" command.
func HandleShow(args Args) error {
	if err := requireFile(args, "classmark show FILE [--preview]"); err != nil {
		return err
	}
	app, err := NewApp(args)
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := app.Show(context.Background(), args.File, args.Preview)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("show", data).Print()
	}

	out, err := renderMarkdown(showMarkdown(data), GetTerminalWidth())
	if err != nil {
		return err
	}
	var banner string
	if level, ok := classification.ParseLevel(data.Classification); ok {
		banner = NewBanner(app.Catalog, level, GetTerminalWidth()).View()
		fmt.Fprintln(app.Out, banner)
	}
	fmt.Fprint(app.Out, out)
	if data.Preview != "" {
		fmt.Fprintln(app.Out, data.Preview)
	}
	if banner != "" {
		fmt.Fprintln(app.Out, banner)
	}
	return nil
}

// Show reports path's classification and overlays.
func (a *App) Show(ctx context.Context, path string, preview bool) (ShowData, error) {
	f, err := host.OpenFile(path)
	if err != nil {
		return ShowData{}, err
	}
	return a.showDocument(ctx, f, preview)
}

func (a *App) showDocument(ctx context.Context, f document.Document, preview bool) (ShowData, error) {
	data := ShowData{DocumentData: a.describe(ctx, f), Overlays: []OverlayData{}}
	// No event was delivered, so there is no prompt state to report.
	data.State = ""

	shapes, err := a.Sidecar.AllShapes(ctx, f)
	if err != nil {
		return ShowData{}, fmt.Errorf("list watermarks: %w", err)
	}

	var firstPage []watermark.Descriptor
	for _, sh := range shapes {
		d := sh.Descriptor
		data.Overlays = append(data.Overlays, OverlayData{
			Page:         sh.Page,
			Name:         sh.Name,
			Text:         d.Text,
			Color:        d.Color.Hex(),
			FontFace:     d.FontFace,
			FontSize:     d.FontSize,
			Bold:         d.Bold,
			Transparency: d.Transparency,
			Rotation:     d.Rotation,
			X:            d.Position.X,
			Y:            d.Position.Y,
		})
		if sh.Page == shapes[0].Page {
			firstPage = append(firstPage, d)
		}
	}

	if preview {
		w, h := watermark.PageSize(watermark.LetterPage.X, watermark.LetterPage.Y)
		data.Preview = watermark.Preview(firstPage, w, h)
	}
	return data, nil
}

func showMarkdown(d ShowData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", mdEscape(d.Path))
	if d.Classified {
		fmt.Fprintf(&b, "**Classification:** %s (`%s`), recorded in the %s.\n\n", mdEscape(d.Label), d.Classification, d.Store)
	} else {
		fmt.Fprintf(&b, "**Classification:** none, would be recorded in the %s.\n\n", d.Store)
	}

	if len(d.Overlays) == 0 {
		b.WriteString("_No watermarks._\n")
		return b.String()
	}
	b.WriteString("| Page | Name | Text | Color | Size | Transparency | Position |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, o := range d.Overlays {
		size := fmt.Sprintf("%g", o.FontSize)
		if o.Bold {
			size += " bold"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.2f | %g, %g |\n",
			mdEscape(o.Page), mdEscape(o.Name), mdEscape(o.Text), o.Color, size, o.Transparency, o.X, o.Y)
	}
	return b.String()
}

func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`").Replace(s)
}

// renderMarkdown renders md for the terminal, plain when colors are off.
func renderMarkdown(md string, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if !ColorsEnabled() {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
