package report

import (
	"fmt"
	"strings"

	"github.com/brennhill/driftlens/internal/model"
	"github.com/fatih/color"
)

// TextRenderer renders a Report as a human-readable terminal summary,
// grounded on yairfalse-vaino's cmd/wgo check-config output style
// (color.*String severity symbols, plain text otherwise).
type TextRenderer struct {
	// NoColor disables ANSI coloring, e.g. when stdout isn't a terminal.
	NoColor bool
}

func (t *TextRenderer) Format() string { return "text" }

func (t *TextRenderer) Render(r model.Report) (string, error) {
	var b strings.Builder

	high := t.symbol("[HIGH]", color.FgRed)
	medium := t.symbol("[MEDIUM]", color.FgYellow)
	low := t.symbol("[LOW]", color.FgGreen)

	for _, f := range r.Findings {
		symbol := low
		switch f.Severity {
		case model.SeverityHigh:
			symbol = high
		case model.SeverityMedium:
			symbol = medium
		}
		fmt.Fprintf(&b, "%s %s %s\n", symbol, f.Type, f.File)
		for _, reason := range f.Reasoning {
			fmt.Fprintf(&b, "    - %s\n", reason)
		}
		if f.Override != nil && f.Override.Applied {
			fmt.Fprintf(&b, "    (overridden: %s)\n", f.Override.Reason)
		}
	}

	if len(r.Correlations) > 0 {
		b.WriteString("\ncorrelations:\n")
		for _, c := range r.Correlations {
			fmt.Fprintf(&b, "  %s <-> %s  %s  score=%.2f\n", c.SourceID, c.TargetID, c.Relationship, c.FinalScore)
		}
	}

	fmt.Fprintf(&b, "\nsummary: high=%d medium=%d low=%d blocked=%v\n",
		r.Summary.High, r.Summary.Medium, r.Summary.Low, r.Summary.Blocked)

	return b.String(), nil
}

func (t *TextRenderer) symbol(text string, attr color.Attribute) string {
	if t.NoColor {
		return text
	}
	return color.New(attr).Sprint(text)
}
