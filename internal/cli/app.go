// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Wiring shared by every document command.

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/config"
	"github.com/jeranaias/classmark/internal/dialog"
	"github.com/jeranaias/classmark/internal/docprops"
	"github.com/jeranaias/classmark/internal/document"
	"github.com/jeranaias/classmark/internal/identity"
	"github.com/jeranaias/classmark/internal/lifecycle"
	"github.com/jeranaias/classmark/internal/logging"
	"github.com/jeranaias/classmark/internal/storage"
	"github.com/jeranaias/classmark/internal/watermark"
)

// App holds the components one command invocation works with.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Catalog    *classification.Catalog
	Sidecar    *storage.Sidecar
	Props      *docprops.Store
	Store      *lifecycle.RoutingStore
	Painter    *watermark.Painter
	Controller *lifecycle.Controller

	Out    io.Writer
	ErrOut io.Writer
}

type appOptions struct {
	cfg      *config.Config
	selector lifecycle.Selector
	prompter dialog.Prompter
	clock    func() time.Time
	out      io.Writer
	errOut   io.Writer
}

// AppOption customizes NewApp.
type AppOption func(*appOptions)

// WithConfig skips config loading.
func WithConfig(cfg *config.Config) AppOption {
	return func(o *appOptions) { o.cfg = cfg }
}

// WithSelector replaces the configured dialog.
func WithSelector(s lifecycle.Selector) AppOption {
	return func(o *appOptions) { o.selector = s }
}

// WithPrompter shares a line editor with the line dialog.
func WithPrompter(p dialog.Prompter) AppOption {
	return func(o *appOptions) { o.prompter = p }
}

// WithClock fixes the watermark timestamp.
func WithClock(now func() time.Time) AppOption {
	return func(o *appOptions) { o.clock = now }
}

// WithOutput redirects command and log output.
func WithOutput(out, errOut io.Writer) AppOption {
	return func(o *appOptions) { o.out, o.errOut = out, errOut }
}

// LoadConfig resolves the configuration for args.
func LoadConfig(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		cfg, err := config.LoadFromPath(args.ConfigPath)
		if err != nil {
			return nil, &CommandError{Command: "config", Action: "load", Err: err}
		}
		config.SetGlobal(cfg)
		return cfg, nil
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, &CommandError{Command: "config", Action: "load", Err: err}
	}
	if err != nil && !args.Quiet {
		fmt.Fprintf(os.Stderr, "%s %v (using defaults)\n", WarningStyle.Render("Warning:"), err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// NewApp loads configuration and wires the store, painter and controller.
func NewApp(args Args, opts ...AppOption) (*App, error) {
	o := appOptions{out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(args); err != nil {
			return nil, err
		}
	}

	logCfg := cfg.Log
	switch {
	case args.Verbose:
		logCfg.Level = "debug"
	case args.Quiet:
		logCfg.Level = "error"
	}
	logger := logging.New(logCfg, o.errOut)
	slog.SetDefault(logger)

	catalog := classification.CatalogFor(cfg.Watermark.Locale)
	editorColor, err := classification.ParseRGB(cfg.Watermark.EditorColor)
	if err != nil {
		return nil, &CommandError{Command: "config", Action: "load", Err: err}
	}

	sidecar, err := storage.Open(cfg.Storage.SidecarPath,
		storage.WithProperty(cfg.Document.PropertyName),
		storage.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("open sidecar: %w", err)
	}

	props := docprops.NewStore(cfg.Document.PropertyName, logger)
	store := lifecycle.NewRoutingStore(props, sidecar, docprops.Supports)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog,
		Sidecar: sidecar,
		Props:   props,
		Store:   store,
		Out:     o.out,
		ErrOut:  o.errOut,
	}

	ctrlOpts := lifecycle.Options{Store: store, Logger: logger}
	if cfg.Watermark.Enabled {
		var painterOpts []watermark.PainterOption
		painterOpts = append(painterOpts, watermark.WithLogger(logger))
		if o.clock != nil {
			painterOpts = append(painterOpts, watermark.WithClock(o.clock))
		}
		composer := watermark.NewComposer(
			watermark.WithCatalog(catalog),
			watermark.WithFontFace(cfg.Watermark.FontFace),
			watermark.WithEditorColor(editorColor),
		)
		editor := identity.NewChain(cfg.Identity.DisplayName).WithLogger(logger)
		app.Painter = watermark.NewPainter(composer, sidecar, editor, painterOpts...)
		ctrlOpts.Painter = app.Painter
	}

	ctrlOpts.Selector = o.selector
	if ctrlOpts.Selector == nil {
		sel, err := dialog.New(cfg.Dialog.Mode, catalog, o.prompter)
		if err != nil {
			sidecar.Close()
			return nil, &CommandError{Command: "config", Action: "load", Err: err}
		}
		ctrlOpts.Selector = sel
	}

	app.Controller, err = lifecycle.New(ctrlOpts)
	if err != nil {
		sidecar.Close()
		return nil, err
	}
	return app, nil
}

// Close releases the sidecar.
func (a *App) Close() error {
	return a.Sidecar.Close()
}

// describe reports doc's stored classification.
func (a *App) describe(ctx context.Context, doc document.Document) DocumentData {
	data := DocumentData{
		Path:  doc.Path(),
		Store: "sidecar",
		State: a.Controller.State(doc).String(),
	}
	if docprops.Supports(doc.Path()) {
		data.Store = "document"
	}
	if level, ok := a.Store.Read(ctx, doc); ok {
		data.Classified = true
		data.Classification = level.String()
		data.Label = a.Catalog.Label(level)
	}
	return data
}

// printDocument writes the human-readable form of d.
func (a *App) printDocument(d DocumentData) {
	printDocumentTo(a.Out, a.Catalog, d)
}

func printDocumentTo(w io.Writer, catalog *classification.Catalog, d DocumentData) {
	if d.Classified {
		level := classification.MustParseLevel(d.Classification)
		fmt.Fprintln(w, NewBanner(catalog, level, GetTerminalWidth()).View())
	}
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Document"), ValueStyle.Render(d.Path))
	if d.Classified {
		level := classification.MustParseLevel(d.Classification)
		fmt.Fprintf(w, "%s%s\n", RenderLabel("Classification"), RenderLevel(catalog, level))
	} else {
		fmt.Fprintf(w, "%s%s\n", RenderLabel("Classification"), DimStyle.Render("(none)"))
	}
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Recorded in"), ValueStyle.Render(d.Store))
}
