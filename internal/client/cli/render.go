package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/dmitrijs2005/habitkeeper/internal/client/views"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func renderHabits(habits []models.Habit, today models.Date, selected models.ID) string {
	if len(habits) == 0 {
		return mutedStyle.Render("No habits yet. Use 'add' to create one.")
	}

	rows := []string{headerStyle.Render(fmt.Sprintf("  %-6s %-24s %-12s %6s  %s", "ID", "NAME", "TAG", "STREAK", "TODAY"))}
	for _, h := range habits {
		mark := " "
		if h.ID == selected {
			mark = "★"
		}
		done := "·"
		if views.CompletedOn(h, today) {
			done = okStyle.Render("✓")
		}
		rows = append(rows, fmt.Sprintf("%s %-6s %-24s %-12s %6d  %s", mark, h.ID, h.Name, h.Tag, views.Streak(h), done))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderTags(tags []string) string {
	rendered := make([]string, len(tags))
	for i, t := range tags {
		rendered[i] = tagStyle.Render(t)
	}
	return strings.Join(rendered, " ")
}

func renderHabitDetail(h models.Habit, today models.Date) string {
	lines := []string{
		titleStyle.Render(h.Name),
	}
	if h.Description != "" {
		lines = append(lines, h.Description)
	}
	if h.Tag != "" {
		lines = append(lines, tagStyle.Render(h.Tag))
	}
	lines = append(lines,
		fmt.Sprintf("Streak: %d day(s)", views.Streak(h)),
		fmt.Sprintf("Done today: %t", views.CompletedOn(h, today)),
		fmt.Sprintf("Completions: %d", len(h.Completions)),
	)
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderDashboard(sum views.Summary, top []views.HabitStreak, week []views.DayCount, progress []views.HabitProgress) string {
	stats := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Overview"),
		fmt.Sprintf("Total habits:   %d", sum.TotalHabits),
		fmt.Sprintf("Active streaks: %d", sum.ActiveStreaks),
		fmt.Sprintf("Longest streak: %d", sum.LongestStreak),
	))

	topLines := []string{headerStyle.Render("Top streaks")}
	if len(top) == 0 {
		topLines = append(topLines, mutedStyle.Render("none"))
	}
	for i, hs := range top {
		topLines = append(topLines, fmt.Sprintf("%d. %s (%d)", i+1, hs.Habit.Name, hs.Streak))
	}

	weekLines := []string{headerStyle.Render("Last 7 days")}
	for _, dc := range week {
		weekLines = append(weekLines, fmt.Sprintf("%s %s %s", dc.Label, barStyle.Render(strings.Repeat("█", dc.Count)), fmt.Sprint(dc.Count)))
	}

	progLines := []string{headerStyle.Render("Progress")}
	for _, p := range progress {
		progLines = append(progLines, fmt.Sprintf("%-24s %d day(s), %d total", p.Name, p.Distinct, p.Total))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top,
			stats,
			panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, topLines...)),
		),
		panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, weekLines...)),
		panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, progLines...)),
	)
}

// renderCalendar lists events grouped by day, oldest first.
func renderCalendar(events []views.Event) string {
	if len(events) == 0 {
		return mutedStyle.Render("No completions yet.")
	}

	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b views.Event) int { return a.Start.Time().Compare(b.Start.Time()) })

	lines := []string{}
	var current models.Date
	for _, e := range sorted {
		if !e.Start.Equal(current) {
			current = e.Start
			lines = append(lines, headerStyle.Render(current.String()+" "+current.Weekday().String()[:3]))
		}
		line := "  • " + e.Title
		if e.Tag != "" {
			line += " " + tagStyle.Render(e.Tag)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
