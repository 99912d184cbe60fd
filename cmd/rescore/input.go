package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/swingscore/internal/domain/model"
	"github.com/okian/swingscore/internal/domain/swing"
)

// Input formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// batchItem is one analysis in an input file.
type batchItem struct {
	AnalysisID        string                  `json:"analysis_id" yaml:"analysis_id"`
	PlayerID          string                  `json:"player_id" yaml:"player_id"`
	Mode              string                  `json:"mode" yaml:"mode"`
	Level             string                  `json:"level" yaml:"level"`
	CalibrationFactor *float64                `json:"calibration_factor" yaml:"calibration_factor"`
	MinNormalization  *float64                `json:"min_normalization" yaml:"min_normalization"`
	Measurements      swing.RawMeasurementSet `json:"measurements" yaml:"measurements"`
}

func (b *batchItem) analysis() (model.Analysis, error) {
	mode, ok := swing.ParseMode(b.Mode)
	if !ok {
		return model.Analysis{}, fmt.Errorf("analysis %q: unknown mode %q", b.AnalysisID, b.Mode)
	}
	level, _ := swing.ParseLevel(b.Level)
	return model.Analysis{
		ID:       b.AnalysisID,
		PlayerID: b.PlayerID,
		Raw:      b.Measurements,
		Config: swing.ScoringConfig{
			Mode:              mode,
			Level:             level,
			CalibrationFactor: b.CalibrationFactor,
			MinNormalization:  b.MinNormalization,
		},
	}, nil
}

// detectFormat picks the decoder from the flag, then the file extension.
func detectFormat(flag, path string) (string, error) {
	if flag != "" {
		switch strings.ToLower(flag) {
		case formatJSON:
			return formatJSON, nil
		case formatYAML, "yml":
			return formatYAML, nil
		default:
			return "", fmt.Errorf("unknown input format %q; want json or yaml", flag)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return formatJSON, nil
	}
}

// readBatch decodes a list of analyses from path, or stdin for "-".
func readBatch(path, format string, stdin io.Reader) ([]batchItem, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var items []batchItem
	switch format {
	case formatYAML:
		if err := yaml.NewDecoder(r).Decode(&items); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml input: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&items); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode json input: %w", err)
		}
	}
	return items, nil
}
