// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for classmark.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Display the effective configuration
//   init [--force]      Write the defaults to the config file
//   path                Show configuration file path
//   get KEY             Print one value
//   set KEY VALUE       Change one value in the config file
//
// Examples:
//   classmark config set identity.display_name "A. Example"
//   classmark config set dialog.mode line
//   classmark config set watermark.locale ar
//   classmark config get document.property_name --json

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/jeranaias/classmark/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	path, err := configFilePath(args)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "show":
		cfg, err := LoadConfig(args)
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("config", ConfigData{Path: path, Config: cfg}).Print()
		}
		printConfig(os.Stdout, path, cfg)
		return nil

	case "path":
		if args.JSON {
			return NewJSONResponse("config", ConfigData{Path: path}).Print()
		}
		fmt.Println(path)
		return nil

	case "init":
		force := NewArgParser(args.Raw, boolFlags...).BoolFlag("force")
		if err := initConfig(path, force); err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("config", ConfigData{Path: path, Config: config.Default()}).Print()
		}
		fmt.Printf("%s wrote %s\n", SuccessStyle.Render("OK"), path)
		return nil

	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("KEY", "classmark config get KEY")
		}
		cfg, err := LoadConfig(args)
		if err != nil {
			return err
		}
		val, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return &UsageError{Message: err.Error(), Usage: "keys: " + strings.Join(config.GetAllKeys(), ", ")}
		}
		if args.JSON {
			return NewJSONResponse("config", ConfigData{Path: path, Key: args.ConfigKey, Value: val}).Print()
		}
		fmt.Println(val)
		return nil

	case "set":
		if args.ConfigKey == "" {
			return ErrMissingArgument("KEY", "classmark config set KEY VALUE")
		}
		cfg, err := setConfigValue(path, args.ConfigKey, args.ConfigVal)
		if err != nil {
			return err
		}
		if args.JSON {
			val, _ := cfg.Get(args.ConfigKey)
			return NewJSONResponse("config", ConfigData{Path: path, Key: args.ConfigKey, Value: val}).Print()
		}
		fmt.Printf("%s %s = %s\n", SuccessStyle.Render("OK"), args.ConfigKey, args.ConfigVal)
		return nil

	default:
		return &UsageError{
			Message: fmt.Sprintf("unknown config subcommand: %s", args.Subcommand),
			Usage:   "classmark config [show|init|path|get KEY|set KEY VALUE]",
		}
	}
}

func configFilePath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", &CommandError{Command: "config", Action: "locate", Err: err}
	}
	return path, nil
}

func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return &UsageError{Message: path + " already exists", Usage: "classmark config init --force"}
	}
	if err := config.SaveFile(config.Default(), path); err != nil {
		return &CommandError{Command: "config", Action: "init", Err: err}
	}
	return nil
}

// setConfigValue loads the file at path (or the defaults when it does not
// exist yet), changes key and writes the file back after validation.
func setConfigValue(path, key, value string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, &CommandError{Command: "config", Action: "set", Err: err}
	}
	if err := cfg.Set(key, value); err != nil {
		return nil, &UsageError{Message: err.Error(), Usage: "keys: " + strings.Join(config.GetAllKeys(), ", ")}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &CommandError{Command: "config", Action: "set", Err: err}
	}
	if err := config.SaveFile(cfg, path); err != nil {
		return nil, &CommandError{Command: "config", Action: "set", Err: err}
	}
	return cfg, nil
}

func printConfig(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("classmark configuration"))
	keys := config.GetAllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		val, err := cfg.Get(key)
		if err != nil {
			continue
		}
		shown := fmt.Sprint(val)
		if shown == "" {
			shown = DimStyle.Render("(default)")
		}
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Width(26).Render(key), shown)
	}
	fmt.Fprintf(w, "\n  %s %s\n", RenderLabel("File"), DimStyle.Render(path))
}
