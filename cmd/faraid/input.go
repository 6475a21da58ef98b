package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"faraid/internal/regression"
	"faraid/internal/report"
	"faraid/internal/types"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// estateFlags are the inputs shared by calc and compare.
type estateFlags struct {
	input   string
	total   string
	funeral string
	debts   string
	will    string
	heirs   []string
}

func (f *estateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "YAML request file (madhab, estate, heirs)")
	cmd.Flags().StringVar(&f.total, "total", "", "Gross estate")
	cmd.Flags().StringVar(&f.funeral, "funeral", "", "Funeral expenses")
	cmd.Flags().StringVar(&f.debts, "debts", "", "Debts")
	cmd.Flags().StringVar(&f.will, "will", "", "Bequest, at most a third of what remains")
	cmd.Flags().StringArrayVar(&f.heirs, "heir", nil, "Heir as kind=count, repeatable (e.g. --heir son=2)")
}

// requestFile is the layout of --input files. Flags given alongside it
// replace the matching fields.
type requestFile struct {
	Madhab string                `yaml:"madhab"`
	Estate regression.EstateSpec `yaml:"estate"`
	Heirs  types.Counts          `yaml:"heirs"`
}

// request assembles the estate and heirs from the file and flags.
func (f *estateFlags) request() (string, types.Estate, types.Counts, error) {
	var rf requestFile
	if f.input != "" {
		data, err := os.ReadFile(f.input)
		if err != nil {
			return "", types.Estate{}, types.Counts{}, fmt.Errorf("failed to read input: %w", err)
		}
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return "", types.Estate{}, types.Counts{}, fmt.Errorf("failed to parse input %s: %w", f.input, err)
		}
	}

	spec := rf.Estate
	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{f.total, &spec.Total},
		{f.funeral, &spec.Funeral},
		{f.debts, &spec.Debts},
		{f.will, &spec.Will},
	} {
		if o.flag != "" {
			*o.dst = o.flag
		}
	}
	if strings.TrimSpace(spec.Total) == "" {
		return "", types.Estate{}, types.Counts{}, fmt.Errorf("no estate total: pass --total or an --input file")
	}
	estate, err := spec.Estate()
	if err != nil {
		return "", types.Estate{}, types.Counts{}, err
	}

	heirs := rf.Heirs
	if len(f.heirs) > 0 {
		if heirs, err = parseHeirs(rf.Heirs, f.heirs); err != nil {
			return "", types.Estate{}, types.Counts{}, err
		}
	}
	return rf.Madhab, estate, heirs, nil
}

// parseHeirs applies kind=count specs on top of base. A bare kind counts
// as one.
func parseHeirs(base types.Counts, specs []string) (types.Counts, error) {
	out := base
	for _, spec := range specs {
		for _, part := range strings.Split(spec, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, raw, hasCount := strings.Cut(part, "=")
			kind, err := types.ParseKind(strings.TrimSpace(id))
			if err != nil {
				return types.Counts{}, err
			}
			if !kind.IsInput() {
				return types.Counts{}, fmt.Errorf("heir kind %q cannot be supplied as input", id)
			}
			n := 1
			if hasCount {
				if n, err = strconv.Atoi(strings.TrimSpace(raw)); err != nil {
					return types.Counts{}, fmt.Errorf("heir %s: invalid count %q", kind, raw)
				}
				if n < 0 {
					return types.Counts{}, fmt.Errorf("heir %s: negative count %d", kind, n)
				}
			}
			out = out.With(kind, n)
		}
	}
	return out, nil
}

// outputFlags select the rendering.
type outputFlags struct {
	format string
	raw    bool
	width  int
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "Output format: text, markdown, json, yaml")
	cmd.Flags().BoolVar(&o.raw, "raw", false, "Print markdown source instead of rendering it")
	cmd.Flags().IntVar(&o.width, "width", 80, "Word wrap for rendered markdown")
}

func (o *outputFlags) resolve() (report.Format, report.Options, error) {
	f, err := report.ParseFormat(o.format)
	if err != nil {
		return "", report.Options{}, err
	}
	opts := report.DefaultOptions()
	opts.NoColor = noColor
	opts.RawMarkdown = o.raw
	if o.width > 0 {
		opts.Width = o.width
	}
	if cfg != nil {
		opts.Places = cfg.Currency.Places
	}
	return f, opts, nil
}
