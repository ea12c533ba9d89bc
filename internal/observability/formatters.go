// Package observability provides logging, metrics and formatted output for
// verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/ats"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintExtractedSkills lists the skills found in one side of a comparison.
func (p *Printer) PrintExtractedSkills(title string, skills []ats.Skill) {
	if len(skills) == 0 {
		p.printBox(title, "(none)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d skills:\n\n", len(skills)))
	for i, s := range skills {
		sb.WriteString(fmt.Sprintf("  • %-24s %s\n", s.Name, s.Source))
		if i == 3*maxItemsToShow-1 && len(skills) > 3*maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-3*maxItemsToShow))
			break
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs the section scores and the final score.
func (p *Printer) PrintScore(result *ats.Result) {
	if result == nil {
		return
	}
	if result.InsufficientInput {
		p.printBox("ATS SCORE", "Insufficient input: resume or job description is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skills:      %6.2f\n", result.SkillsScore))
	sb.WriteString(fmt.Sprintf("Experience:  %6.2f\n", result.ExperienceScore))
	sb.WriteString(fmt.Sprintf("Title:       %6.2f\n", result.TitleScore))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Final score: %6.2f", result.FinalScore))
	if result.NoJDSkills {
		sb.WriteString("\n\n⚠ no skills detected in the job description")
	}

	p.printBox("ATS SCORE", sb.String())
}

// PrintMatches outputs how each job-description skill was satisfied.
func (p *Printer) PrintMatches(result *ats.Result) {
	if result == nil || result.InsufficientInput || result.NoJDSkills {
		return
	}

	var sb strings.Builder
	total := len(result.MatchedSkills) + len(result.MissingSkills)
	sb.WriteString(fmt.Sprintf("Matched %d of %d skills:\n\n", len(result.MatchedSkills), total))

	for _, m := range result.MatchedSkills {
		line := fmt.Sprintf("✓ %s", m.Skill)
		if m.Kind != ats.MatchExact {
			line += fmt.Sprintf(" ← %s", m.MatchedAs)
		}
		sb.WriteString(fmt.Sprintf("%s  [%s %.2f]\n", line, m.Kind, m.Confidence))
	}

	if len(result.MissingSkills) > 0 {
		if len(result.MatchedSkills) > 0 {
			sb.WriteString("\n")
		}
		count := min(len(result.MissingSkills), 2*maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("✗ %s\n", result.MissingSkills[i]))
		}
		if len(result.MissingSkills) > count {
			sb.WriteString(fmt.Sprintf("... and %d more missing\n", len(result.MissingSkills)-count))
		}
	}

	p.printBox("SKILL MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}
