package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"faraid/internal/madhab"
	"faraid/internal/types"
)

type heirRow struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Arabic string `json:"arabic" yaml:"arabic"`
	Max    int    `json:"max,omitempty" yaml:"max,omitempty"`
}

// Heirs lists the heir kinds a caller may supply.
func Heirs(w io.Writer, f Format, opts Options) error {
	kinds := types.InputKinds()
	list := make([]heirRow, 0, len(kinds))
	for _, k := range kinds {
		list = append(list, heirRow{ID: k.String(), Name: k.Name(), Arabic: k.ArabicName(), Max: k.Max()})
	}

	switch f {
	case FormatJSON:
		return writeJSON(w, list)
	case FormatYAML:
		return writeYAML(w, list)
	case FormatMarkdown:
		var b strings.Builder
		b.WriteString("| Id | Name | Arabic | Max |\n|---|---|---|---:|\n")
		for _, h := range list {
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", h.ID, escapeCell(h.Name), h.Arabic, maxLabel(h.Max))
		}
		return writeMarkdown(w, b.String(), opts)
	}

	s := newStyles(w, opts.NoColor)
	rows := make([][]string, 0, len(list))
	for _, h := range list {
		rows = append(rows, []string{h.ID, h.Name, h.Arabic, maxLabel(h.Max)})
	}
	_, err := io.WriteString(w, table(s, []string{"Id", "Name", "Arabic", "Max"}, rows))
	return err
}

func maxLabel(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

// Madhabs lists the schools and their rule toggles.
func Madhabs(w io.Writer, list []madhab.Madhab, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, list)
	case FormatYAML:
		return writeYAML(w, list)
	case FormatMarkdown:
		var b strings.Builder
		for _, m := range list {
			fmt.Fprintf(&b, "## %s (%s)\n\n%s\n\n", m.Name, m.ArabicName, m.Description)
			fmt.Fprintf(&b, "- grandfather with siblings: %s\n", m.Rules.GrandfatherWithSiblings)
			fmt.Fprintf(&b, "- radd to spouse: %s\n", yesNo(m.Rules.RaddToSpouse))
			fmt.Fprintf(&b, "- blood relatives: %s\n", yesNo(m.Rules.BloodRelativesEnabled))
			fmt.Fprintf(&b, "- musharraka: %s\n", yesNo(m.Rules.MusharrakaEnabled))
			fmt.Fprintf(&b, "- akdariyya: %s\n\n", yesNo(m.Rules.AkdariyyaEnabled))
		}
		return writeMarkdown(w, b.String(), opts)
	}

	s := newStyles(w, opts.NoColor)
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{
			string(m.ID),
			m.Name,
			string(m.Rules.GrandfatherWithSiblings),
			yesNo(m.Rules.RaddToSpouse),
			yesNo(m.Rules.BloodRelativesEnabled),
			yesNo(m.Rules.MusharrakaEnabled),
			yesNo(m.Rules.AkdariyyaEnabled),
		})
	}
	head := []string{"Id", "Name", "Grandfather", "Radd to spouse", "Blood relatives", "Musharraka", "Akdariyya"}
	_, err := io.WriteString(w, table(s, head, rows))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
