// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting. Every command wraps its
// result in the same envelope.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jeranaias/classmark/internal/config"
	"github.com/jeranaias/classmark/internal/storage"
)

// JSONResponse is the response envelope for all CLI commands.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
	Command   string      `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response to stdout.
func (r *JSONResponse) Print() error {
	return r.Write(os.Stdout)
}

// Write writes the indented response to w.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// DocumentData describes one document's classification.
type DocumentData struct {
	Path           string `json:"path"`
	Classified     bool   `json:"classified"`
	Classification string `json:"classification,omitempty"`
	Label          string `json:"label,omitempty"`
	// Store is "document" for in-file properties and "sidecar" otherwise.
	Store string `json:"store"`
	State string `json:"state,omitempty"`
}

// LabelData is returned by the label command.
type LabelData struct {
	DocumentData
	Previous   string `json:"previous,omitempty"`
	Changed    bool   `json:"changed"`
	Watermarks int    `json:"watermarks"`
}

// OverlayData describes one watermark overlay.
type OverlayData struct {
	Page         string  `json:"page"`
	Name         string  `json:"name"`
	Text         string  `json:"text"`
	Color        string  `json:"color"`
	FontFace     string  `json:"font_face"`
	FontSize     float64 `json:"font_size"`
	Bold         bool    `json:"bold"`
	Transparency float64 `json:"transparency"`
	Rotation     float64 `json:"rotation"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

// ShowData is returned by the show command.
type ShowData struct {
	DocumentData
	Overlays []OverlayData `json:"overlays"`
	Preview  string        `json:"preview,omitempty"`
}

// LevelData describes one catalog entry.
type LevelData struct {
	Rank     int    `json:"rank"`
	Level    string `json:"level"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	OLEColor int32  `json:"ole_color"`
}

// ListData is returned by the list command.
type ListData struct {
	Sidecar   string           `json:"sidecar"`
	Documents []storage.Record `json:"documents"`
}

// ConfigData is returned by the config command.
type ConfigData struct {
	Path   string         `json:"config_path"`
	Config *config.Config `json:"config,omitempty"`
	Key    string         `json:"key,omitempty"`
	Value  interface{}    `json:"value,omitempty"`
}

// DoctorCheck is one health check result.
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// DoctorSummary counts results by status.
type DoctorSummary struct {
	Passed  int  `json:"passed"`
	Warned  int  `json:"warned"`
	Failed  int  `json:"failed"`
	Healthy bool `json:"healthy"`
}

// DoctorData is returned by the doctor command.
type DoctorData struct {
	Checks  []DoctorCheck `json:"checks"`
	Summary DoctorSummary `json:"summary"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
