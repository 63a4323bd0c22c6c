// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// levels_cmd.go - The levels command: the catalog with color swatches.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/classmark/internal/classification"
)

// HandleLevels handles the "levels" command.
func HandleLevels(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	catalog := classification.CatalogFor(cfg.Watermark.Locale)
	data := levelData(catalog)
	if args.JSON {
		return NewJSONResponse("levels", data).Print()
	}
	printLevels(os.Stdout, catalog)
	return nil
}

func levelData(catalog *classification.Catalog) []LevelData {
	levels := classification.Levels()
	out := make([]LevelData, 0, len(levels))
	for i, l := range levels {
		out = append(out, LevelData{
			Rank:     i + 1,
			Level:    l.String(),
			Label:    catalog.Label(l),
			Color:    catalog.Color(l).Hex(),
			OLEColor: catalog.Color(l).OLE(),
		})
	}
	return out
}

func printLevels(w io.Writer, catalog *classification.Catalog) {
	fmt.Fprintln(w, TitleStyle.Render("Classification levels"))
	for i, l := range classification.Levels() {
		fmt.Fprintf(w, "  %d. %s %-12s %s  %s\n",
			i+1, RenderSwatch(catalog.Color(l)), l.String(),
			RenderLevel(catalog, l), DimStyle.Render(catalog.Color(l).Hex()))
	}
}
