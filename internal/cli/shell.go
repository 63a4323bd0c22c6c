// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// shell.go - Interactive document session.
//
// Command: shell
// Aliases: repl
//
// Keeps several documents open at once so the create, open, save and close
// events reach the lifecycle controller the way an editor would deliver
// them. Files written by other programs are reported as modified.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/classmark/internal/config"
	"github.com/jeranaias/classmark/internal/host"
	"github.com/jeranaias/classmark/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	shellPrompt      = "classmark> "
	shellHistoryFile = "shell_history"
	watchDebounce    = 300 * time.Millisecond
)

const shellHelp = `Commands:
  new [PATH]            Create a document (untitled without PATH)
  open PATH             Open an existing file
  edit DOC [TEXT...]    Append TEXT to DOC, or mark it modified
  save DOC [PATH]       Save DOC; PATH is required for untitled documents
  saveas DOC PATH       Save DOC under a new path
  close DOC             Close DOC, asking for a classification if needed
  discard DOC           Close DOC without saving
  status                List open documents (alias: ls)
  show DOC              Show DOC's classification and watermarks
  help                  Show this help
  quit                  Close every document and exit (quit! discards)

DOC is a document number from status, a path or a file name.
`

// LineReader is what the shell reads commands from. *liner.State
// satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// =============================================================================
// SHELL
// =============================================================================

// Shell dispatches session commands against a workspace.
type Shell struct {
	app *App
	ws  *host.Workspace

	mu  sync.Mutex // serializes writes to out
	out io.Writer
}

// NewShell returns a shell over ws.
func NewShell(app *App, ws *host.Workspace) *Shell {
	return &Shell{app: app, ws: ws, out: app.Out}
}

func (s *Shell) printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, a...)
}

// noteModified is the watcher callback.
func (s *Shell) noteModified(f *host.File) {
	s.printf("\n%s %s was changed on disk\n", WarningStyle.Render("Modified:"), f.Name())
}

// Run reads commands until quit, EOF or an aborted prompt.
func (s *Shell) Run(ctx context.Context, in LineReader) error {
	s.printf("%s\n", DimStyle.Render("Type 'help' for commands."))
	for {
		line, err := in.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				s.printf("\n")
				return s.quit(ctx, true)
			}
			return fmt.Errorf("read command: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)

		done, err := s.Exec(ctx, line)
		if err != nil {
			s.printf("%s %v\n", ErrorStyle.Render("Error:"), err)
		}
		if done {
			return nil
		}
	}
}

// Exec runs one command line. It reports true when the session is over.
func (s *Shell) Exec(ctx context.Context, line string) (bool, error) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, rest := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		s.printf("%s", shellHelp)
	case "new":
		return false, s.cmdNew(ctx, rest)
	case "open", "o":
		return false, s.cmdOpen(ctx, rest)
	case "edit":
		return false, s.cmdEdit(rest)
	case "save":
		return false, s.cmdSave(ctx, rest)
	case "saveas":
		if len(rest) != 2 {
			return false, &UsageError{Message: "saveas needs a document and a path", Usage: "saveas DOC PATH"}
		}
		return false, s.cmdSave(ctx, rest)
	case "close":
		return false, s.cmdClose(ctx, rest)
	case "discard":
		return false, s.cmdDiscard(rest)
	case "status", "ls":
		s.cmdStatus(ctx)
	case "show", "info":
		return false, s.cmdShow(ctx, rest)
	case "quit", "exit", "q":
		if err := s.quit(ctx, false); err != nil {
			return false, err
		}
		return true, nil
	case "quit!", "exit!":
		return true, s.quit(ctx, true)
	default:
		return false, &UsageError{Message: fmt.Sprintf("unknown command %q", cmd), Usage: "help"}
	}
	return false, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (s *Shell) cmdNew(ctx context.Context, rest []string) error {
	path := ""
	if len(rest) > 0 {
		path = rest[0]
	}
	f, err := s.ws.New(ctx, path)
	if err != nil {
		return err
	}
	s.printf("%s %s\n", SuccessStyle.Render("Created"), f.Name())
	return nil
}

func (s *Shell) cmdOpen(ctx context.Context, rest []string) error {
	if len(rest) == 0 {
		return &UsageError{Message: "open needs a path", Usage: "open PATH"}
	}
	f, err := s.ws.Open(ctx, rest[0])
	if err != nil {
		return err
	}
	s.printDoc(ctx, f)
	return nil
}

func (s *Shell) cmdEdit(rest []string) error {
	f, err := s.lookup(rest, "edit DOC [TEXT...]")
	if err != nil {
		return err
	}
	if len(rest) == 1 || f.IsPackage() {
		f.MarkDirty()
	} else if err := f.Append(strings.Join(rest[1:], " ")); err != nil {
		return err
	}
	s.printf("%s modified\n", f.Name())
	return nil
}

func (s *Shell) cmdSave(ctx context.Context, rest []string) error {
	f, err := s.lookup(rest, "save DOC [PATH]")
	if err != nil {
		return err
	}

	var saved bool
	switch {
	case len(rest) > 1:
		saved, err = s.ws.SaveAs(ctx, f, rest[1])
	case f.Path() == "":
		return &UsageError{Message: f.Name() + " is untitled; give a path", Usage: "save DOC PATH"}
	default:
		saved, err = s.ws.Save(ctx, f)
	}
	if err != nil {
		return err
	}
	if !saved {
		s.printf("%s %s was not saved\n", WarningStyle.Render("Cancelled:"), f.Name())
		return nil
	}
	s.printf("%s %s\n", SuccessStyle.Render("Saved"), f.Path())
	s.printDoc(ctx, f)
	return nil
}

func (s *Shell) cmdClose(ctx context.Context, rest []string) error {
	f, err := s.lookup(rest, "close DOC")
	if err != nil {
		return err
	}
	closed, err := s.ws.Close(ctx, f)
	if err != nil {
		return err
	}
	if !closed {
		s.printf("%s %s is still open\n", WarningStyle.Render("Cancelled:"), f.Name())
		return nil
	}
	s.printf("Closed %s\n", f.Name())
	return nil
}

func (s *Shell) cmdDiscard(rest []string) error {
	f, err := s.lookup(rest, "discard DOC")
	if err != nil {
		return err
	}
	s.ws.Discard(f)
	s.printf("Discarded %s\n", f.Name())
	return nil
}

func (s *Shell) cmdStatus(ctx context.Context) {
	docs := s.ws.Docs()
	if len(docs) == 0 {
		s.printf("%s\n", DimStyle.Render("No open documents."))
		return
	}
	for i, f := range docs {
		d := s.app.describe(ctx, f)
		level := DimStyle.Render(util.PadRight("(none)", 16))
		if d.Classified {
			level = util.PadRight(d.Label, 16)
		}
		mark := " "
		if dirty, _ := f.HasUnsavedChanges(); dirty {
			mark = "*"
		}
		s.printf("%3d %s %s %s %s\n", i+1, mark, util.PadRight(f.Name(), 28), level, DimStyle.Render(s.ws.State(f).String()))
	}
}

func (s *Shell) cmdShow(ctx context.Context, rest []string) error {
	f, err := s.lookup(rest, "show DOC")
	if err != nil {
		return err
	}
	data, err := s.app.showDocument(ctx, f, false)
	if err != nil {
		return err
	}
	if data.Path == "" {
		data.Path = f.Name()
	}
	out, err := renderMarkdown(showMarkdown(data), GetTerminalWidth())
	if err != nil {
		return err
	}
	s.printf("%s", out)
	return nil
}

// quit closes every document. Without force, documents whose close gate
// did not pass stay open and the session continues.
func (s *Shell) quit(ctx context.Context, force bool) error {
	if force {
		for _, f := range s.ws.Docs() {
			s.ws.Discard(f)
		}
		return nil
	}
	blocked, err := s.ws.CloseAll(ctx)
	if len(blocked) == 0 {
		return err
	}
	names := make([]string, len(blocked))
	for i, f := range blocked {
		names[i] = f.Name()
	}
	msg := fmt.Sprintf("still open: %s (use quit! to discard)", strings.Join(names, ", "))
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return errors.New(msg)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Shell) lookup(rest []string, usage string) (*host.File, error) {
	if len(rest) == 0 {
		return nil, &UsageError{Message: "missing document", Usage: usage}
	}
	return s.ws.Lookup(rest[0])
}

func (s *Shell) printDoc(ctx context.Context, f *host.File) {
	d := s.app.describe(ctx, f)
	if d.Path == "" {
		d.Path = f.Name()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	printDocumentTo(s.out, s.app.Catalog, d)
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// HandleShell handles the "shell" command.
func HandleShell(args Args) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(config.ConfigDir(), shellHistoryFile)
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	app, err := NewApp(args, WithPrompter(line))
	if err != nil {
		return err
	}
	defer app.Close()

	var shell *Shell
	watcher, err := host.NewWatcher(watchDebounce, app.Logger, func(f *host.File) {
		if shell != nil {
			shell.noteModified(f)
		}
	})
	if err != nil {
		app.Logger.Warn("file watching disabled", "error", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	ws := host.NewWorkspace(app.Controller, app.Sidecar, watcher, app.Logger)
	shell = NewShell(app, ws)
	runErr := shell.Run(context.Background(), line)

	if err := config.EnsureConfigDir(); err == nil {
		saveHistory(line, historyPath)
	}
	return runErr
}

func saveHistory(line *liner.State, path string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
