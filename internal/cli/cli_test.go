// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/config"
	"github.com/jeranaias/classmark/internal/dialog"
	"github.com/jeranaias/classmark/internal/host"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name: "flag with value",
			args: []string{"label", "a.txt", "--level", "Secret"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "Secret", p.Flag("level"))
				assert.Equal(t, []string{"label", "a.txt"}, p.PositionalFrom(0))
			},
		},
		{
			name: "flag with equals",
			args: []string{"label", "--level=Public", "a.txt"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "Public", p.Flag("level"))
				assert.Equal(t, "a.txt", p.Positional(1))
			},
		},
		{
			name: "known bool does not swallow the next argument",
			args: []string{"show", "--preview", "a.docx"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("preview"))
				assert.Equal(t, "a.docx", p.Positional(1))
			},
		},
		{
			name: "bool with explicit value",
			args: []string{"show", "--json=false"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.False(t, p.BoolFlag("json"))
			},
		},
		{
			name: "double dash ends flags",
			args: []string{"open", "--", "--weird-name.txt"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "--weird-name.txt", p.Positional(1))
				assert.Equal(t, 2, p.PositionalCount())
			},
		},
		{
			name: "missing positional",
			args: []string{"open"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Empty(t, p.Positional(5))
				assert.Equal(t, "x", p.FlagOrDefault("nope", "x"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, NewArgParser(tt.args, boolFlags...))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "on", "1"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "no", "OFF", "0"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"status", []string{"status"}},
		{"  edit  1   hello  ", []string{"edit", "1", "hello"}},
		{`open "My Report.txt"`, []string{"open", "My Report.txt"}},
		{`edit 1 ""`, []string{"edit", "1", ""}},
		{"save\t2\t/tmp/x.txt", []string{"save", "2", "/tmp/x.txt"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitFields(tt.line), tt.line)
	}
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		argv []string
		cmd  Command
		file string
	}{
		{nil, CmdHelp, ""},
		{[]string{"--version"}, CmdVersion, ""},
		{[]string{"open", "a.txt"}, CmdOpen, "a.txt"},
		{[]string{"o", "a.txt"}, CmdOpen, "a.txt"},
		{[]string{"classify", "a.docx"}, CmdLabel, "a.docx"},
		{[]string{"SAVE", "a.docx"}, CmdLabel, "a.docx"},
		{[]string{"info", "a.docx", "--preview"}, CmdShow, "a.docx"},
		{[]string{"levels"}, CmdLevels, ""},
		{[]string{"ls"}, CmdList, ""},
		{[]string{"repl"}, CmdShell, ""},
		{[]string{"version"}, CmdVersion, ""},
		{[]string{"frobnicate"}, CmdUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, " "), func(t *testing.T) {
			cmd, args := Parse(tt.argv)
			assert.Equal(t, tt.cmd, cmd, "got %s", cmd)
			assert.Equal(t, tt.file, args.File)
		})
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := Parse([]string{"label", "r.docx", "--level", "TopSecret", "--json", "-q", "--config", "c.toml"})
	assert.Equal(t, CmdLabel, cmd)
	assert.Equal(t, "TopSecret", args.Level)
	assert.True(t, args.JSON)
	assert.True(t, args.Quiet)
	assert.Equal(t, "c.toml", args.ConfigPath)

	_, args = Parse([]string{"show", "--preview", "r.docx", "-v"})
	assert.True(t, args.Preview)
	assert.True(t, args.Verbose)
	assert.Equal(t, "r.docx", args.File)
}

func TestParse_Config(t *testing.T) {
	cmd, args := Parse([]string{"config", "set", "identity.display_name", "Jane", "Q.", "Public"})
	assert.Equal(t, CmdConfig, cmd)
	assert.Equal(t, "set", args.Subcommand)
	assert.Equal(t, "identity.display_name", args.ConfigKey)
	assert.Equal(t, "Jane Q. Public", args.ConfigVal)
	assert.Empty(t, args.File)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	for _, word := range []string{"open", "label", "show", "levels", "list", "shell", "config", Version} {
		assert.Contains(t, buf.String(), word)
	}
}

// =============================================================================
// LEVEL ARGUMENT TESTS (label_cmd.go)
// =============================================================================

func TestParseLevelArg(t *testing.T) {
	arabic := classification.CatalogFor("ar")
	tests := []struct {
		catalog *classification.Catalog
		in      string
		want    classification.Level
		ok      bool
	}{
		{nil, "Secret", classification.Secret, true},
		{nil, "topsecret", classification.TopSecret, true},
		{nil, "Top Secret", classification.TopSecret, true},
		{nil, " top-secret ", classification.TopSecret, true},
		{nil, "PUBLIC", classification.Public, true},
		{arabic, "سري", classification.Secret, true},
		{nil, "Confidential", 0, false},
		{nil, "", 0, false},
	}
	for _, tt := range tests {
		level, ok := parseLevelArg(tt.catalog, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, level, tt.in)
		}
	}
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Message: "bad"}, ExitUsageError},
		{"wrapped usage", fmt.Errorf("x: %w", ErrMissingArgument("FILE", "open FILE")), ExitUsageError},
		{"invalid level", ErrInvalidLevel("Confidential"), ExitUsageError},
		{"config validation", config.ValidateErrors{{Field: "dialog.mode", Message: "bad"}}, ExitConfigError},
		{"config command", &CommandError{Command: "config", Action: "load", Err: errors.New("boom")}, ExitConfigError},
		{"missing file", fmt.Errorf("open x: %w", fs.ErrNotExist), ExitNotFoundError},
		{"missing document", fmt.Errorf("%w: #4", host.ErrNoSuchDocument), ExitNotFoundError},
		{"not found", &NotFoundError{Resource: "document", ID: "x"}, ExitNotFoundError},
		{"aborted", ErrSaveAborted, ExitGeneralError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestJSONResponse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONResponse("levels", levelData(classification.DefaultCatalog())).Write(&buf))

	var got struct {
		Success bool        `json:"success"`
		Command string      `json:"command"`
		Data    []LevelData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "levels", got.Command)
	require.Len(t, got.Data, 4)
	assert.Equal(t, "TopSecret", got.Data[0].Level)
	assert.Equal(t, "Public", got.Data[3].Level)
	assert.Equal(t, int32(0x00008B), got.Data[0].OLEColor)
	assert.Equal(t, int32(0x008000), got.Data[3].OLEColor)

	errResp := NewJSONErrorResponse("open", errors.New("nope"))
	assert.False(t, errResp.Success)
	assert.Contains(t, errResp.String(), `"error": "nope"`)
}

// =============================================================================
// APP TESTS
// =============================================================================

var fixedClock = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC) }

func newTestApp(t *testing.T, level classification.Level) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.SidecarPath = filepath.Join(t.TempDir(), "side.db")
	cfg.Identity.DisplayName = "Test Editor"

	var out bytes.Buffer
	app, err := NewApp(Args{Quiet: true},
		WithConfig(cfg),
		WithSelector(dialog.StaticSelector{Level: level}),
		WithClock(fixedClock),
		WithOutput(&out, io.Discard),
	)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app, &out
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestApp_LabelPlainFile(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t, classification.Secret)
	path := writeFile(t, "notes.txt", "hello\n")

	data, err := app.Label(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "sidecar", data.Store)
	assert.True(t, data.Classified)
	assert.Equal(t, "Secret", data.Classification)
	assert.Equal(t, "Secret", data.Label)
	assert.True(t, data.Changed)
	assert.Empty(t, data.Previous)
	assert.Equal(t, 5, data.Watermarks)

	// Relabeling at the same level replaces the overlays instead of adding more.
	data, err = app.Label(ctx, path)
	require.NoError(t, err)
	assert.False(t, data.Changed)
	assert.Equal(t, "Secret", data.Previous)
	assert.Equal(t, 5, data.Watermarks)

	// The file's contents are untouched.
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(body))
}

func TestApp_LabelCancelled(t *testing.T) {
	app, _ := newTestApp(t, 0)
	path := writeFile(t, "notes.txt", "x")

	_, err := app.Label(context.Background(), path)
	require.ErrorIs(t, err, ErrSaveAborted)

	_, ok := app.Store.Read(context.Background(), mustOpen(t, path))
	assert.False(t, ok)
}

func TestApp_LabelMissingFile(t *testing.T) {
	app, _ := newTestApp(t, classification.Public)
	_, err := app.Label(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestApp_OpenShowList(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t, classification.Restricted)
	path := writeFile(t, "plan.md", "# plan\n")

	before, err := app.Open(ctx, path)
	require.NoError(t, err)
	assert.False(t, before.Classified)
	assert.Equal(t, "not-prompted", before.State)

	_, err = app.Label(ctx, path)
	require.NoError(t, err)

	after, err := app.Open(ctx, path)
	require.NoError(t, err)
	assert.True(t, after.Classified)
	assert.Equal(t, "Restricted", after.Classification)

	shown, err := app.Show(ctx, path, true)
	require.NoError(t, err)
	require.Len(t, shown.Overlays, 5)
	assert.Empty(t, shown.State)
	assert.NotEmpty(t, shown.Preview)
	var texts []string
	for _, o := range shown.Overlays {
		assert.Equal(t, "1", o.Page)
		texts = append(texts, o.Text)
	}
	assert.Contains(t, texts, "Classification: (Restricted)")

	list, err := app.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, "Restricted", list.Documents[0].Classification)
	assert.Equal(t, 5, list.Documents[0].Overlays)
	assert.Equal(t, app.Sidecar.Path(), list.Sidecar)
}

func TestShowMarkdown(t *testing.T) {
	md := showMarkdown(ShowData{
		DocumentData: DocumentData{Path: "a|b.txt", Store: "sidecar"},
	})
	assert.Contains(t, md, `a\|b.txt`)
	assert.Contains(t, md, "none")
	assert.Contains(t, md, "_No watermarks._")

	md = showMarkdown(ShowData{
		DocumentData: DocumentData{Path: "r.docx", Classified: true, Classification: "Secret", Label: "Secret", Store: "document"},
		Overlays:     []OverlayData{{Page: "1", Name: "x", Text: "Classification: (Secret)", Color: "#C00000", FontSize: 28, Bold: true, Transparency: 0.65}},
	})
	assert.Contains(t, md, "recorded in the document")
	assert.Contains(t, md, "| 1 | x | Classification: (Secret) | #C00000 | 28 bold | 0.65 |")
}

func mustOpen(t *testing.T, path string) *host.File {
	t.Helper()
	f, err := host.OpenFile(path)
	require.NoError(t, err)
	return f
}

// =============================================================================
// SHELL TESTS (shell.go)
// =============================================================================

type scriptReader struct {
	lines   []string
	history []string
}

func (r *scriptReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func newTestShell(t *testing.T, level classification.Level) (*Shell, *App, *bytes.Buffer) {
	t.Helper()
	app, out := newTestApp(t, level)
	ws := host.NewWorkspace(app.Controller, app.Sidecar, nil, app.Logger)
	return NewShell(app, ws), app, out
}

func TestShell_UntitledSaveAs(t *testing.T) {
	ctx := context.Background()
	shell, app, out := newTestShell(t, classification.Secret)
	target := filepath.Join(t.TempDir(), "draft.txt")

	for _, line := range []string{"new", "edit 1 first line", fmt.Sprintf("save 1 %q", target), "status"} {
		done, err := shell.Exec(ctx, line)
		require.NoError(t, err, line)
		require.False(t, done, line)
	}
	assert.Contains(t, out.String(), "Saved")
	assert.Contains(t, out.String(), "draft.txt")
	assert.Contains(t, out.String(), "prompted")

	body, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "first line\n", string(body))

	// The classification followed the document to its new path.
	level, ok := app.Store.Read(ctx, mustOpen(t, target))
	require.True(t, ok)
	assert.Equal(t, classification.Secret, level)

	done, err := shell.Exec(ctx, "quit")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestShell_QuitBlockedByCancelledPrompt(t *testing.T) {
	ctx := context.Background()
	shell, _, out := newTestShell(t, 0)
	dir := t.TempDir()

	_, err := shell.Exec(ctx, "new "+filepath.Join(dir, "a.txt"))
	require.NoError(t, err)

	done, err := shell.Exec(ctx, "quit")
	require.Error(t, err)
	assert.False(t, done)
	assert.Contains(t, err.Error(), "a.txt")

	_, err = shell.Exec(ctx, "close a.txt")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "still open")

	done, err = shell.Exec(ctx, "quit!")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, shell.ws.Docs())
}

func TestShell_Errors(t *testing.T) {
	ctx := context.Background()
	shell, _, _ := newTestShell(t, classification.Public)

	_, err := shell.Exec(ctx, "frob")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, err = shell.Exec(ctx, "close 3")
	assert.ErrorIs(t, err, host.ErrNoSuchDocument)

	_, err = shell.Exec(ctx, "open")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, err = shell.Exec(ctx, "new")
	require.NoError(t, err)
	_, err = shell.Exec(ctx, "save 1")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestShell_RunEndsOnEOF(t *testing.T) {
	shell, _, out := newTestShell(t, classification.Public)
	path := writeFile(t, "r.txt", "x")
	in := &scriptReader{lines: []string{"open " + path, "", "help", "edit 1"}}

	require.NoError(t, shell.Run(context.Background(), in))
	assert.Equal(t, []string{"open " + path, "help", "edit 1"}, in.history)
	assert.Contains(t, out.String(), "Commands:")
	assert.Empty(t, shell.ws.Docs())
}

// =============================================================================
// CONFIG COMMAND TESTS (config.go)
// =============================================================================

func TestInitAndSetConfig(t *testing.T) {
	t.Setenv("CLASSMARK_DISPLAY_NAME", "from env")
	path := filepath.Join(t.TempDir(), "classmark.toml")

	require.NoError(t, initConfig(path, false))
	err := initConfig(path, false)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	require.NoError(t, initConfig(path, true))

	cfg, err := setConfigValue(path, "dialog.mode", "line")
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Dialog.Mode)

	// Environment overrides are not written back.
	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line", loaded.Dialog.Mode)
	assert.Empty(t, loaded.Identity.DisplayName)

	_, err = setConfigValue(path, "dialog.mode", "popup")
	assert.Equal(t, ExitConfigError, GetExitCode(err))
	_, err = setConfigValue(path, "no.such", "x")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestSetConfigValue_NewYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	_, err := setConfigValue(path, "watermark.locale", "ar")
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "locale: ar")
}

// =============================================================================
// DOCTOR TESTS (doctor.go)
// =============================================================================

func TestDoctor_Checks(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage.SidecarPath = filepath.Join(t.TempDir(), "side.db")
	cfg.Identity.DisplayName = "Test Editor"

	checks := runAllChecks(ctx, cfg, nil, false)
	summary := summarize(checks)
	assert.Equal(t, DoctorSummary{Passed: 5, Healthy: true}, summary)
	assert.Contains(t, checks[1].Message, "side.db")
	assert.Equal(t, "Watermarks will name Test Editor", checks[2].Message)
	assert.Equal(t, "Line prompt will be used", checks[3].Message)

	cfg.Dialog.Mode = "tui"
	cfg.Watermark.Enabled = false
	checks = runAllChecks(ctx, cfg, errors.New("bad toml"), false)
	summary = summarize(checks)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Warned)
	assert.False(t, summary.Healthy)

	data := doctorData(checks, summary)
	assert.Equal(t, "fail", data.Checks[0].Status)
	assert.Equal(t, "warn", data.Checks[3].Status)
	assert.NotEmpty(t, data.Checks[3].Fix)

	cfg.Dialog.Mode = "popup"
	assert.Equal(t, CheckFail, checkDialog(cfg, true).Status)
}

// =============================================================================
// BANNER TESTS (banner.go)
// =============================================================================

func TestBanner(t *testing.T) {
	ForceColorsEnabled(false)
	en := classification.DefaultCatalog()

	line := NewBanner(en, classification.TopSecret, 60).View()
	assert.Equal(t, 60, lipgloss.Width(line))
	assert.Contains(t, line, " Top Secret ")
	assert.True(t, strings.HasPrefix(line, "████"))

	assert.Equal(t, "== Secret ==", NewBanner(en, classification.Secret, 30).View())
	assert.Empty(t, NewBanner(en, 0, 60).View())

	ar := NewBanner(classification.CatalogFor("ar"), classification.Secret, 41).View()
	assert.Equal(t, 41, lipgloss.Width(ar))
	assert.Contains(t, ar, "سري")
}
