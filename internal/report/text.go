package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"faraid/internal/compare"
	"faraid/internal/regression"
	"faraid/internal/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

var (
	primary = lipgloss.Color("#101F38")
	accent  = lipgloss.Color("#8BC34A")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
	muted   = lipgloss.Color("#6b7785")
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	section lipgloss.Style
	muted   lipgloss.Style
	warn    lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	cell    lipgloss.Style
}

func newStyles(w io.Writer, noColor bool) styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(primary),
		header:  r.NewStyle().Bold(true).Underline(true),
		section: r.NewStyle().Bold(true).Foreground(accent).MarginTop(1),
		muted:   r.NewStyle().Foreground(muted),
		warn:    r.NewStyle().Foreground(warning),
		pass:    r.NewStyle().Bold(true).Foreground(accent),
		fail:    r.NewStyle().Bold(true).Foreground(danger),
		cell:    r.NewStyle().PaddingRight(2),
	}
}

// table lays cells out in columns sized to their widest cell.
func table(s styles, head []string, rows [][]string) string {
	widths := make([]int, len(head))
	for i, h := range head {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = s.cell.Width(widths[i] + 2).Render(style.Render(c))
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	var b strings.Builder
	b.WriteString(line(head, s.header))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(line(row, lipgloss.NewStyle()))
		b.WriteByte('\n')
	}
	return b.String()
}

func money(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

func resultText(w io.Writer, res *types.Result, opts Options) string {
	s := newStyles(w, opts.NoColor)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", s.title.Render(fmt.Sprintf("Distribution under %s", res.MadhabName)))
	fmt.Fprintf(&b, "%s\n", s.muted.Render(summaryLine(res, opts.Places)))
	b.WriteByte('\n')

	rows := make([][]string, 0, len(res.Shares))
	for _, sh := range res.Shares {
		units := ""
		if sh.Units > 0 {
			units = strconv.FormatInt(sh.Units, 10)
		}
		rows = append(rows, []string{
			sh.DisplayName,
			strconv.Itoa(sh.Count),
			sh.Fraction.String(),
			sh.PerHead().String(),
			units,
			money(sh.Amount, opts.Places),
			money(sh.AmountPerHead, opts.Places),
			string(sh.Category),
		})
	}
	b.WriteString(table(s, []string{"Heir", "Count", "Share", "Each", "Units", "Amount", "Per head", "Basis"}, rows))

	if len(res.Blocked) > 0 {
		b.WriteString(s.section.Render("Excluded") + "\n")
		for _, bl := range res.Blocked {
			fmt.Fprintf(&b, "  %s by %s %s\n", bl.Blocked.Name(), bl.BlockedBy.Name(), s.muted.Render("("+string(bl.Reason)+")"))
		}
	}
	if len(res.SpecialCases) > 0 {
		b.WriteString(s.section.Render("Special cases") + "\n")
		for _, sc := range res.SpecialCases {
			fmt.Fprintf(&b, "  %s: %s\n", sc.Kind, sc.Description)
		}
	}
	if len(res.Notes) > 0 {
		b.WriteString(s.section.Render("Notes") + "\n")
		for _, n := range res.Notes {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}
	if len(res.Warnings) > 0 {
		b.WriteString(s.section.Render("Warnings") + "\n")
		for _, warn := range res.Warnings {
			fmt.Fprintf(&b, "  %s\n", s.warn.Render(warn))
		}
	}
	if opts.Trace && len(res.Trace) > 0 {
		b.WriteString(s.section.Render("Steps") + "\n")
		for i, st := range res.Trace {
			fmt.Fprintf(&b, "  %2d. %s: %s\n", i+1, st.Title, st.Description)
		}
	}
	fmt.Fprintf(&b, "\nConfidence %.0f%%\n", res.Confidence*100)
	return b.String()
}

func summaryLine(res *types.Result, places int32) string {
	line := fmt.Sprintf("Net estate %s, base %d", money(res.NetEstate, places), res.FinalBase)
	if res.AwlApplied {
		line += fmt.Sprintf(" (increased from %d)", res.Asl)
	}
	var flags []string
	if res.RaddApplied {
		flags = append(flags, "radd")
	}
	if res.BloodRelativesApplied {
		flags = append(flags, "blood relatives")
	}
	if len(flags) > 0 {
		line += ", " + strings.Join(flags, ", ")
	}
	return line
}

func comparisonText(w io.Writer, cmp *compare.Comparison, opts Options) string {
	s := newStyles(w, opts.NoColor)
	var b strings.Builder

	b.WriteString(s.title.Render("Comparison across madhabs") + "\n")
	b.WriteString(s.muted.Render(cmp.ID) + "\n\n")

	head := []string{"Heir"}
	for _, id := range cmp.Madhabs {
		head = append(head, string(id))
	}
	rows := make([][]string, 0, len(cmp.Rows))
	for _, r := range cmp.Rows {
		row := []string{r.Kind.Name()}
		if r.Differs {
			row[0] += " *"
		}
		for _, id := range cmp.Madhabs {
			f, ok := r.Fractions[id]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%s (%s)", f, money(r.Amounts[id], opts.Places)))
		}
		rows = append(rows, row)
	}
	b.WriteString(table(s, head, rows))

	for _, o := range cmp.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(&b, "%s %s: %v\n", s.fail.Render("error"), o.Madhab, o.Err)
		}
	}
	if cmp.Agree() {
		b.WriteString(s.section.Render("All schools agree") + "\n")
		return b.String()
	}
	b.WriteString(s.section.Render("Differences") + "\n")
	for _, d := range cmp.Differences {
		fmt.Fprintf(&b, "  %s\n", d)
	}
	return b.String()
}

func batteryText(w io.Writer, rep *regression.Report, opts Options) string {
	s := newStyles(w, opts.NoColor)
	var b strings.Builder
	for _, r := range rep.Results {
		status := s.pass.Render("PASS")
		if !r.Success {
			status = s.fail.Render("FAIL")
		}
		fmt.Fprintf(&b, "%s %-8s %-26s %s\n", status, r.Madhab, r.Category, r.ScenarioID)
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "       %s\n", s.muted.Render(f))
		}
	}
	fmt.Fprintf(&b, "\n%d passed, %d failed %s\n", rep.Passed, rep.Failed, s.muted.Render("("+rep.RunID+")"))
	return b.String()
}
