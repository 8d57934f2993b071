package export

import (
	"fmt"
	"strings"
)

func renderMarkdown(data TemplateData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", data.ProjectName)
	fmt.Fprintf(&b, "Business Requirements Document | %s | %s\n\n",
		data.Author, data.GeneratedAt.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "Confirmed %d%% | Enriched %d%% | Stale %d | Risk %s\n\n",
		data.Metrics.ConfirmedPct, data.Metrics.EnrichedPct,
		data.Metrics.StaleCount, data.Metrics.RiskScore)

	b.WriteString("## Business Context\n\n")
	if data.Vision != "" {
		fmt.Fprintf(&b, "**Vision.** %s\n\n", data.Vision)
	}
	if data.Background != "" {
		fmt.Fprintf(&b, "**Background.** %s\n\n", data.Background)
	}
	writeList(&b, "Pain points", data.PainPoints)
	writeList(&b, "Goals", data.Goals)

	if len(data.Actors) > 0 {
		b.WriteString("## Actors\n\n")
		for _, a := range data.Actors {
			fmt.Fprintf(&b, "- **%s** (%s)%s\n", a.Name, statusLabel(string(a.ConfirmationStatus)), staleMark(a.IsStale))
			if a.Description != "" {
				fmt.Fprintf(&b, "  %s\n", a.Description)
			}
			for _, g := range a.Goals {
				fmt.Fprintf(&b, "  - %s\n", g)
			}
		}
		b.WriteString("\n")
	}

	if len(data.Workflows) > 0 {
		b.WriteString("## Workflows\n\n")
		for _, w := range data.Workflows {
			fmt.Fprintf(&b, "- **%s** (%s)%s\n", w.Name, statusLabel(string(w.ConfirmationStatus)), staleMark(w.IsStale))
			for i, step := range w.Steps {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, step.Title)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Requirements\n\n")
	for _, group := range data.Groups {
		fmt.Fprintf(&b, "### %s\n\n", group.Heading)
		if len(group.Features) == 0 {
			b.WriteString("None.\n\n")
			continue
		}
		for _, f := range group.Features {
			fmt.Fprintf(&b, "- **%s** (%s)%s\n", f.Title, statusLabel(string(f.ConfirmationStatus)), staleMark(f.IsStale))
			if f.Description != "" {
				fmt.Fprintf(&b, "  %s\n", f.Description)
			}
		}
		b.WriteString("\n")
	}

	if len(data.Constraints) > 0 {
		b.WriteString("## Constraints\n\n")
		for _, c := range data.Constraints {
			fmt.Fprintf(&b, "- %s (%s)\n", c.Description, statusLabel(string(c.ConfirmationStatus)))
		}
		b.WriteString("\n")
	}

	if len(data.DataEntities) > 0 {
		b.WriteString("## Data Entities\n\n")
		for _, d := range data.DataEntities {
			fmt.Fprintf(&b, "- **%s** (%s)%s\n", d.Name, statusLabel(string(d.ConfirmationStatus)), staleMark(d.IsStale))
			if len(d.Fields) > 0 {
				fmt.Fprintf(&b, "  Fields: %s\n", strings.Join(d.Fields, ", "))
			}
		}
		b.WriteString("\n")
	}

	if len(data.Stakeholders) > 0 {
		b.WriteString("## Stakeholders\n\n")
		for _, s := range data.Stakeholders {
			fmt.Fprintf(&b, "- %s, %s (%s)\n", s.Name, s.Role, statusLabel(string(s.ConfirmationStatus)))
		}
		b.WriteString("\n")
	}

	if len(data.Questions) > 0 {
		b.WriteString("## Open Questions\n\n")
		for _, q := range data.Questions {
			fmt.Fprintf(&b, "- [%s] %s\n", q.Priority, q.Question)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func statusLabel(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}

func staleMark(stale bool) string {
	if stale {
		return " [stale]"
	}
	return ""
}
