package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// ProjectInspectData holds all data needed to render a project inspect view.
type ProjectInspectData struct {
	Project *domain.Project
	Entries []domain.ScheduleEntry
	Alerts  []domain.Alert
	Catalog *catalog.Catalog
	Now     time.Time
}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	headers := []string{"ID", "NAME", "TARGET", "START", "VERSION"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		if strings.TrimSpace(id) == "" {
			id = "--"
		}

		start := Dim("not generated")
		if p.EffectiveStartDate != nil {
			start = RelativeDateStyled(*p.EffectiveStartDate, now)
		}

		rows = append(rows, []string{
			id,
			Bold(p.Name),
			ShortDate(&p.TargetStartDate),
			start,
			fmt.Sprintf("v%d", p.ScheduleVersion),
		})
	}

	table := RenderTable(headers, rows)
	return RenderBox("Projects", table)
}

// FormatProjectInspect renders a project card with its phase progress next
// to the metadata.
func FormatProjectInspect(data ProjectInspectData) string {
	left := buildMetadataPanel(data.Project, data.Now)
	right := buildProgressPanel(data)

	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

func buildMetadataPanel(p *domain.Project, now time.Time) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID     "), Dim(p.DisplayID())))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID   "), TruncID(p.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("TARGET "), StyleFg.Render(ShortDate(&p.TargetStartDate))))

	if p.EffectiveStartDate != nil {
		rel := RelativeDateStyled(*p.EffectiveStartDate, now)
		b.WriteString(fmt.Sprintf("%s  %s %s\n", StyleDim.Render("START  "), rel, Dim("("+ShortDate(p.EffectiveStartDate)+")")))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("VERSION"), fmt.Sprintf("v%d", p.ScheduleVersion)))

	return lipgloss.NewStyle().Width(45).Render(b.String())
}

func buildProgressPanel(data ProjectInspectData) string {
	if len(data.Entries) == 0 {
		return StyleDim.Render("No schedule yet")
	}

	var done, active int
	var next *domain.ScheduleEntry
	for i := range data.Entries {
		e := &data.Entries[i]
		switch e.Status {
		case domain.StatusCompleted:
			done++
		case domain.StatusInProgress:
			active++
		}
		if next == nil && e.Status == domain.StatusScheduled && e.HasDates() {
			next = e
		}
	}

	var b strings.Builder
	b.WriteString(Header("Progress") + "\n")
	b.WriteString(fmt.Sprintf("%s  %d/%d\n", StyleDim.Render("DONE  "), done, len(data.Entries)))
	b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("ACTIVE"), active))
	if next != nil {
		name := next.PhaseID
		if data.Catalog != nil {
			if ph, ok := data.Catalog.Get(next.PhaseID); ok {
				name = ph.Name
			}
		}
		b.WriteString(fmt.Sprintf("%s  %s %s\n", StyleDim.Render("NEXT  "), name, Dim(ShortDate(next.StartDate))))
	}
	b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("ALERTS"), len(data.Alerts)))
	return b.String()
}
