// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Doctor command implementation for classmark.
//
// Command: doctor
// Short:   Check that documents can be classified on this machine
// Aliases: diag
//
// Health Checks Performed:
//   1. Config Valid     - The configuration file loads and validates
//   2. Sidecar Ready    - The sidecar database opens at the current schema
//   3. Editor Identity  - A display name resolves for watermarks
//   4. Dialog Available - The configured dialog can run on this terminal
//   5. Watermarks       - Watermarking is enabled
//
// Exit Codes:
//   0   No check failed
//   1   One or more checks failed

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/config"
	"github.com/jeranaias/classmark/internal/dialog"
	"github.com/jeranaias/classmark/internal/identity"
	"github.com/jeranaias/classmark/internal/logging"
	"github.com/jeranaias/classmark/internal/storage"
)

// =============================================================================
// DOCTOR STYLES
// =============================================================================

var (
	checkPassStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	checkWarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	checkFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	fixStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true).PaddingLeft(2)
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed.
	CheckPass CheckStatus = iota
	// CheckWarn indicates a problem that does not stop classification.
	CheckWarn
	// CheckFail indicates classification will not work.
	CheckFail
)

// String returns the lowercase status name used in JSON output.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the styled marker for the status.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return checkPassStyle.Render("[OK]")
	case CheckWarn:
		return checkWarnStyle.Render("[!!]")
	case CheckFail:
		return checkFailStyle.Render("[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck is a single check result.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string
}

// Render formats the check for the terminal.
func (c *HealthCheck) Render() string {
	line := fmt.Sprintf("%s %s", c.Status.Symbol(), c.Message)
	if c.Status != CheckPass && c.Fix != "" {
		line += "\n" + fixStyle.Render("-> "+c.Fix)
	}
	return line
}

// =============================================================================
// HANDLE DOCTOR
// =============================================================================

// HandleDoctor handles the "doctor" command.
func HandleDoctor(args Args) error {
	cfg, cfgErr := loadConfigForDoctor(args)
	checks := runAllChecks(context.Background(), cfg, cfgErr, isInteractive())
	summary := summarize(checks)

	if args.JSON {
		resp := NewJSONResponse("doctor", doctorData(checks, summary))
		if summary.Failed > 0 {
			msg := fmt.Sprintf("%d health check(s) failed", summary.Failed)
			resp.Success = false
			resp.Error = &msg
		}
		return resp.Print()
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("classmark doctor"))
	fmt.Println(RenderSeparator(41))
	for _, check := range checks {
		fmt.Println(check.Render())
	}
	fmt.Println(RenderSeparator(41))

	parts := []string{fmt.Sprintf("%d passed", summary.Passed)}
	if summary.Warned > 0 {
		parts = append(parts, checkWarnStyle.Render(fmt.Sprintf("%d warning", summary.Warned)))
	}
	if summary.Failed > 0 {
		parts = append(parts, checkFailStyle.Render(fmt.Sprintf("%d failed", summary.Failed)))
	}
	fmt.Println(DimStyle.Render(strings.Join(parts, ", ")))

	if summary.Failed > 0 {
		return fmt.Errorf("%d health check(s) failed", summary.Failed)
	}
	return nil
}

// loadConfigForDoctor loads configuration without the warning LoadConfig
// prints, since the config check reports the problem itself.
func loadConfigForDoctor(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		cfg, err := config.LoadFromPath(args.ConfigPath)
		if err != nil {
			return config.Default(), err
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, err
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

func summarize(checks []*HealthCheck) DoctorSummary {
	var s DoctorSummary
	for _, c := range checks {
		switch c.Status {
		case CheckPass:
			s.Passed++
		case CheckWarn:
			s.Warned++
		case CheckFail:
			s.Failed++
		}
	}
	s.Healthy = s.Failed == 0
	return s
}

func doctorData(checks []*HealthCheck, summary DoctorSummary) DoctorData {
	out := DoctorData{Checks: make([]DoctorCheck, 0, len(checks)), Summary: summary}
	for _, c := range checks {
		out.Checks = append(out.Checks, DoctorCheck{
			Name:    c.Name,
			Status:  c.Status.String(),
			Message: c.Message,
			Fix:     c.Fix,
		})
	}
	return out
}

// =============================================================================
// HEALTH CHECK FUNCTIONS
// =============================================================================

// runAllChecks runs every check against cfg. cfgErr is the error loading
// produced, if any.
func runAllChecks(ctx context.Context, cfg *config.Config, cfgErr error, interactive bool) []*HealthCheck {
	return []*HealthCheck{
		checkConfigValid(cfgErr),
		checkSidecar(ctx, cfg),
		checkIdentity(ctx, cfg),
		checkDialog(cfg, interactive),
		checkWatermarks(cfg),
	}
}

func checkConfigValid(cfgErr error) *HealthCheck {
	check := &HealthCheck{Name: "Config Valid"}
	if cfgErr != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Config invalid: %v", cfgErr)
		check.Fix = "Run: classmark config init --force"
		return check
	}
	check.Status = CheckPass
	check.Message = "Config valid"
	return check
}

func checkSidecar(ctx context.Context, cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Sidecar Ready"}

	s, err := storage.Open(cfg.Storage.SidecarPath,
		storage.WithProperty(cfg.Document.PropertyName),
		storage.WithLogger(logging.Discard()),
	)
	if err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Sidecar database unavailable: %v", err)
		check.Fix = "Check permissions on " + config.ConfigDir()
		return check
	}
	defer s.Close()

	version, err := s.SchemaVersion(ctx)
	switch {
	case err != nil:
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Sidecar schema unreadable: %v", err)
	case version != storage.SchemaVersion:
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Sidecar schema version %d, expected %d", version, storage.SchemaVersion)
		check.Fix = "Move " + s.Path() + " aside and run again"
	default:
		check.Status = CheckPass
		check.Message = "Sidecar ready at " + s.Path()
	}
	return check
}

func checkIdentity(ctx context.Context, cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Editor Identity"}
	name, err := identity.NewChain(cfg.Identity.DisplayName).WithLogger(logging.Discard()).DisplayName(ctx)
	if err != nil {
		check.Status = CheckWarn
		check.Message = "No display name found; watermarks will show " + identity.Unknown
		check.Fix = `Run: classmark config set identity.display_name "Your Name"`
		return check
	}
	check.Status = CheckPass
	check.Message = "Watermarks will name " + name
	return check
}

func checkDialog(cfg *config.Config, interactive bool) *HealthCheck {
	check := &HealthCheck{Name: "Dialog Available"}
	catalog := classification.CatalogFor(cfg.Watermark.Locale)
	if _, err := dialog.New(cfg.Dialog.Mode, catalog, nil); err != nil {
		check.Status = CheckFail
		check.Message = fmt.Sprintf("Dialog mode %q unusable: %v", cfg.Dialog.Mode, err)
		check.Fix = "Run: classmark config set dialog.mode auto"
		return check
	}

	switch {
	case cfg.Dialog.Mode == "tui" && !interactive:
		check.Status = CheckWarn
		check.Message = "Terminal menu configured but no terminal is attached"
		check.Fix = "Run: classmark config set dialog.mode line"
	case cfg.Dialog.Mode == "auto" && interactive:
		check.Status = CheckPass
		check.Message = "Terminal menu will be used"
	case cfg.Dialog.Mode == "auto":
		check.Status = CheckPass
		check.Message = "Line prompt will be used"
	default:
		check.Status = CheckPass
		check.Message = fmt.Sprintf("Dialog mode %s", cfg.Dialog.Mode)
	}
	return check
}

func checkWatermarks(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Watermarks"}
	if !cfg.Watermark.Enabled {
		check.Status = CheckWarn
		check.Message = "Watermarking is disabled"
		check.Fix = "Run: classmark config set watermark.enabled true"
		return check
	}
	check.Status = CheckPass
	check.Message = fmt.Sprintf("Watermarks enabled (%s, %s)", cfg.Watermark.FontFace, cfg.Watermark.Locale)
	return check
}
