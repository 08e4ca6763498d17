package history

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/minutetype/internal/model"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type exportDoc struct {
	Summary exportSummary  `json:"summary" yaml:"summary"`
	Results []model.Result `json:"results" yaml:"results"`
}

type exportSummary struct {
	Tests       int     `json:"tests" yaml:"tests"`
	AvgWPM      float64 `json:"avg_wpm" yaml:"avg_wpm"`
	BestWPM     int     `json:"best_wpm" yaml:"best_wpm"`
	AvgCPM      float64 `json:"avg_cpm" yaml:"avg_cpm"`
	AvgAccuracy float64 `json:"avg_accuracy" yaml:"avg_accuracy"`
}

// Export writes results and their summary in the given format.
func Export(w io.Writer, results []model.Result, format string) error {
	if results == nil {
		results = []model.Result{}
	}
	s := Summarize(results)
	doc := exportDoc{
		Summary: exportSummary{
			Tests:       s.Sessions,
			AvgWPM:      s.AvgWPM,
			BestWPM:     s.BestWPM,
			AvgCPM:      s.AvgCPM,
			AvgAccuracy: s.AvgAccuracy,
		},
		Results: results,
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}
