// Package export writes meet snapshots for sharing and archiving.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/trackmeet/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// AppVersion is stamped on every snapshot.
const AppVersion = "1.0.0"

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// Snapshot is the full meet state at one point in time.
type Snapshot struct {
	Athletes       []model.Athlete     `json:"athletes" yaml:"athletes"`
	Teams          []model.Team        `json:"teams" yaml:"teams"`
	EventPool      model.EventPool     `json:"eventPool" yaml:"eventPool"`
	EventSequence  []string            `json:"eventSequence" yaml:"eventSequence"`
	RelayPositions []int               `json:"relayPositions" yaml:"relayPositions"`
	RevealedIndex  int                 `json:"revealedIndex" yaml:"revealedIndex"`
	EventResults   []model.EventResult `json:"eventResults" yaml:"eventResults"`
	Scoreboard     []model.TeamScore   `json:"scoreboard" yaml:"scoreboard"`
	ExportDate     time.Time           `json:"exportDate" yaml:"exportDate"`
	AppVersion     string              `json:"appVersion" yaml:"appVersion"`
}

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts json, yaml/yml and xlsx. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType is the media type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// FileName returns a dated file name such as trackmeet-2024-05-01.json.
func (f Format) FileName(at time.Time) string {
	return fmt.Sprintf("trackmeet-%s.%s", at.Format("2006-01-02"), f)
}

// Write encodes snap in format f.
func Write(w io.Writer, f Format, snap Snapshot) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, snap)
	case FormatYAML:
		return WriteYAML(w, snap)
	case FormatXLSX:
		return WriteXLSX(w, snap)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// WriteJSON writes snap as indented JSON.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode json snapshot: %w", err)
	}
	return nil
}

// WriteYAML writes snap as YAML.
func WriteYAML(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode yaml snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml snapshot: %w", err)
	}
	return nil
}
