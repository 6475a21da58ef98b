package report

import (
	"fmt"
	"io"
	"strings"

	"faraid/internal/compare"
	"faraid/internal/regression"
	"faraid/internal/types"

	"github.com/charmbracelet/glamour"
)

func writeMarkdown(w io.Writer, md string, opts Options) error {
	if opts.RawMarkdown {
		_, err := io.WriteString(w, md)
		return err
	}
	out, err := RenderMarkdown(md, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// RenderMarkdown renders markdown for a terminal. NoColor selects the
// notty style.
func RenderMarkdown(md string, opts Options) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if opts.NoColor {
		style = glamour.WithStylePath("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ResultMarkdown is the markdown source for one calculation.
func ResultMarkdown(res *types.Result, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Distribution under %s\n\n", res.MadhabName)
	fmt.Fprintf(&b, "%s\n\n", summaryLine(res, opts.Places))

	b.WriteString("| Heir | Count | Share | Each | Amount | Per head | Basis |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---|\n")
	for _, s := range res.Shares {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			escapeCell(s.DisplayName), s.Count, s.Fraction, s.PerHead(),
			money(s.Amount, opts.Places), money(s.AmountPerHead, opts.Places), s.Category)
	}

	if len(res.Shares) > 0 {
		b.WriteString("\n## Justification\n\n")
		for _, s := range res.Shares {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.DisplayName, s.Kind.ArabicName(), s.Justification)
		}
	}
	if len(res.Blocked) > 0 {
		b.WriteString("\n## Excluded\n\n")
		for _, bl := range res.Blocked {
			fmt.Fprintf(&b, "- %s by %s (`%s`)\n", bl.Blocked.Name(), bl.BlockedBy.Name(), bl.Reason)
		}
	}
	if len(res.SpecialCases) > 0 {
		b.WriteString("\n## Special cases\n\n")
		for _, sc := range res.SpecialCases {
			fmt.Fprintf(&b, "- **%s**: %s\n", sc.Kind, sc.Description)
		}
	}
	if len(res.Notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, n := range res.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	if len(res.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	if opts.Trace && len(res.Trace) > 0 {
		b.WriteString("\n## Steps\n\n")
		for i, st := range res.Trace {
			fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, st.Title, st.Description)
		}
	}
	fmt.Fprintf(&b, "\nConfidence: %.0f%%\n", res.Confidence*100)
	return b.String()
}

// ComparisonMarkdown is the markdown source for a comparison.
func ComparisonMarkdown(cmp *compare.Comparison) string {
	var b strings.Builder
	b.WriteString("# Comparison across madhabs\n\n")

	b.WriteString("| Heir |")
	for _, id := range cmp.Madhabs {
		fmt.Fprintf(&b, " %s |", id)
	}
	b.WriteString("\n|---|")
	for range cmp.Madhabs {
		b.WriteString("---:|")
	}
	b.WriteByte('\n')
	for _, r := range cmp.Rows {
		name := r.Kind.Name()
		if r.Differs {
			name = "**" + name + "**"
		}
		fmt.Fprintf(&b, "| %s |", escapeCell(name))
		for _, id := range cmp.Madhabs {
			if f, ok := r.Fractions[id]; ok {
				fmt.Fprintf(&b, " %s |", f)
			} else {
				b.WriteString(" - |")
			}
		}
		b.WriteByte('\n')
	}

	for _, o := range cmp.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(&b, "\n> %s failed: %v\n", o.Madhab, o.Err)
		}
	}
	if len(cmp.Differences) > 0 {
		b.WriteString("\n## Differences\n\n")
		for _, d := range cmp.Differences {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}
	return b.String()
}

// BatteryMarkdown is the markdown source for a battery run.
func BatteryMarkdown(rep *regression.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Scenario battery\n\n%d passed, %d failed\n\n", rep.Passed, rep.Failed)
	b.WriteString("| Status | Madhab | Category | Scenario |\n|---|---|---|---|\n")
	for _, r := range rep.Results {
		status := "pass"
		if !r.Success {
			status = "**FAIL**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", status, r.Madhab, r.Category, r.ScenarioID)
	}
	for _, r := range rep.Results {
		if r.Success {
			continue
		}
		fmt.Fprintf(&b, "\n## %s (%s)\n\n", r.ScenarioID, r.Madhab)
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}
