// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and top-level command handlers for classmark.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdHelp Command = iota
	CmdOpen
	CmdLabel
	CmdShow
	CmdLevels
	CmdList
	CmdShell
	CmdConfig
	CmdDoctor
	CmdVersion
	CmdUnknown
)

var commandNames = map[Command]string{
	CmdHelp:    "help",
	CmdOpen:    "open",
	CmdLabel:   "label",
	CmdShow:    "show",
	CmdLevels:  "levels",
	CmdList:    "list",
	CmdShell:   "shell",
	CmdConfig:  "config",
	CmdDoctor:  "doctor",
	CmdVersion: "version",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	Quiet      bool
	Verbose    bool
	ConfigPath string

	// Command-specific
	Subcommand string
	File       string
	Level      string
	Preview    bool
	ConfigKey  string
	ConfigVal  string

	// Raw args after the command name.
	Raw []string

	// Name is the command word as typed, kept for error messages.
	Name string
}

// boolFlags never take a value, so "--preview report.docx" keeps the file.
var boolFlags = []string{"json", "quiet", "q", "verbose", "v", "preview", "force"}

const usageText = `classmark - classification labels and watermarks for documents

Usage:
  classmark open FILE                 Open FILE and report its classification
  classmark label FILE [--level L]    Classify FILE through the save gate
  classmark show FILE [--preview]     Show classification and watermarks
  classmark levels                    List classification levels
  classmark list                      List documents known to the sidecar
  classmark shell                     Interactive document session
  classmark config [show|init|path|get KEY|set KEY VALUE]
  classmark doctor                    Check this machine's setup
  classmark version                   Show version information
  classmark help                      Show this help

Global Flags:
  --json            Machine-readable output
  --config FILE     Load configuration from FILE (.toml, .json, .yaml)
  -v, --verbose     Debug logging
  -q, --quiet       Errors only

Levels (most sensitive first):
  TopSecret, Secret, Restricted, Public

Office Open XML files (.docx, .xlsx, .pptx and their macro/template
variants) carry the classification in a custom document property. Other
files are tracked in the sidecar database (~/.classmark/sidecar.db).

Examples:
  classmark label report.docx --level Secret
  classmark show report.docx --preview
  CLASSMARK_DIALOG=line classmark label notes.txt

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "classmark version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, Args) {
	p := NewArgParser(argv, boolFlags...)
	args := Args{
		JSON:       p.BoolFlag("json"),
		Quiet:      p.BoolFlag("quiet") || p.BoolFlag("q"),
		Verbose:    p.BoolFlag("verbose") || p.BoolFlag("v"),
		ConfigPath: p.Flag("config"),
		Level:      p.FlagOrDefault("level", p.Flag("l")),
		Preview:    p.BoolFlag("preview"),
	}

	if p.PositionalCount() == 0 {
		if p.BoolFlag("version") {
			return CmdVersion, args
		}
		return CmdHelp, args
	}

	args.Name = strings.ToLower(p.Positional(0))
	args.Raw = p.PositionalFrom(1)
	args.File = p.Positional(1)
	args.Subcommand = p.Positional(1)

	switch args.Name {
	case "open", "o":
		return CmdOpen, args
	case "label", "classify", "save":
		return CmdLabel, args
	case "show", "info":
		return CmdShow, args
	case "levels":
		return CmdLevels, args
	case "list", "ls":
		return CmdList, args
	case "shell", "repl":
		return CmdShell, args
	case "config":
		args.File = ""
		args.ConfigKey = p.Positional(2)
		args.ConfigVal = JoinPositionalArgs(p, 3)
		return CmdConfig, args
	case "doctor", "diag":
		return CmdDoctor, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		return CmdUnknown, args
	}
}

// Run executes cmd and returns the process exit code.
func Run(cmd Command, args Args) int {
	var err error
	switch cmd {
	case CmdHelp:
		PrintUsage(os.Stdout)
		return ExitSuccess
	case CmdVersion:
		HandleVersion(args)
		return ExitSuccess
	case CmdLevels:
		err = HandleLevels(args)
	case CmdConfig:
		err = HandleConfig(args)
	case CmdOpen:
		err = HandleOpen(args)
	case CmdLabel:
		err = HandleLabel(args)
	case CmdShow:
		err = HandleShow(args)
	case CmdList:
		err = HandleList(args)
	case CmdShell:
		err = HandleShell(args)
	case CmdDoctor:
		err = HandleDoctor(args)
	default:
		err = &UsageError{Message: fmt.Sprintf("unknown command %q; run 'classmark help'", args.Name)}
	}
	if err != nil {
		DisplayError(cmd.String(), err, args.JSON)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print()
		return
	}
	PrintVersion(os.Stdout)
}

func requireFile(args Args, usage string) error {
	if args.File == "" {
		return ErrMissingArgument("FILE", usage)
	}
	return nil
}
