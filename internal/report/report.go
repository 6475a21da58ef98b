// Package report renders calculation results, comparisons and battery runs
// for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"faraid/internal/compare"
	"faraid/internal/regression"
	"faraid/internal/types"

	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the accepted formats.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: text, markdown, json, yaml)", s)
}

// Options tune the human-readable formats.
type Options struct {
	NoColor     bool  // plain text without ANSI styling
	RawMarkdown bool  // emit markdown source instead of rendering it
	Trace       bool  // include the step-by-step trace
	Places      int32 // decimal places for amounts
	Width       int   // word wrap for rendered markdown
}

// DefaultOptions renders with color, two decimal places and an 80 column wrap.
func DefaultOptions() Options {
	return Options{Places: 2, Width: 80}
}

// Result writes one calculation.
func Result(w io.Writer, res *types.Result, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatYAML:
		return writeYAML(w, res)
	case FormatMarkdown:
		return writeMarkdown(w, ResultMarkdown(res, opts), opts)
	default:
		_, err := io.WriteString(w, resultText(w, res, opts))
		return err
	}
}

// Comparison writes a side-by-side comparison.
func Comparison(w io.Writer, cmp *compare.Comparison, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, comparisonView(cmp))
	case FormatYAML:
		return writeYAML(w, comparisonView(cmp))
	case FormatMarkdown:
		return writeMarkdown(w, ComparisonMarkdown(cmp), opts)
	default:
		_, err := io.WriteString(w, comparisonText(w, cmp, opts))
		return err
	}
}

// Battery writes a battery run.
func Battery(w io.Writer, rep *regression.Report, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatYAML:
		return writeYAML(w, rep)
	case FormatMarkdown:
		return writeMarkdown(w, BatteryMarkdown(rep), opts)
	default:
		_, err := io.WriteString(w, batteryText(w, rep, opts))
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

type comparisonRow struct {
	Kind      types.Kind        `json:"kind" yaml:"kind"`
	Fractions map[string]string `json:"fractions" yaml:"fractions"`
	Amounts   map[string]string `json:"amounts" yaml:"amounts"`
	Differs   bool              `json:"differs" yaml:"differs"`
}

type comparisonOut struct {
	ID          string                   `json:"id" yaml:"id"`
	Madhabs     []string                 `json:"madhabs" yaml:"madhabs"`
	Results     map[string]*types.Result `json:"results" yaml:"results"`
	Errors      map[string]string        `json:"errors,omitempty" yaml:"errors,omitempty"`
	Rows        []comparisonRow          `json:"rows" yaml:"rows"`
	Differences []string                 `json:"differences" yaml:"differences"`
}

func comparisonView(cmp *compare.Comparison) comparisonOut {
	out := comparisonOut{
		ID:          cmp.ID,
		Results:     make(map[string]*types.Result),
		Differences: cmp.Differences,
	}
	for _, id := range cmp.Madhabs {
		out.Madhabs = append(out.Madhabs, string(id))
	}
	for _, o := range cmp.Outcomes {
		if o.Err != nil {
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[string(o.Madhab)] = o.Err.Error()
			continue
		}
		out.Results[string(o.Madhab)] = o.Result
	}
	for _, r := range cmp.Rows {
		row := comparisonRow{
			Kind:      r.Kind,
			Fractions: make(map[string]string, len(r.Fractions)),
			Amounts:   make(map[string]string, len(r.Amounts)),
			Differs:   r.Differs,
		}
		for id, f := range r.Fractions {
			row.Fractions[string(id)] = f.String()
		}
		for id, a := range r.Amounts {
			row.Amounts[string(id)] = a.String()
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
