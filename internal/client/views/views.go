// Package views computes display data from a habit collection. Every
// function is pure and recomputes from its input on each call.
package views

import (
	"slices"
	"sort"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
)

// distinctDays returns the habit's completion days without duplicates,
// most recent first.
func distinctDays(h models.Habit) []models.Date {
	seen := make(map[models.Date]bool, len(h.Completions))
	days := make([]models.Date, 0, len(h.Completions))
	for _, c := range h.Completions {
		if seen[c.Date] {
			continue
		}
		seen[c.Date] = true
		days = append(days, c.Date)
	}
	slices.SortFunc(days, func(a, b models.Date) int { return b.Time().Compare(a.Time()) })
	return days
}

// Streak counts consecutive completion days ending at the most recent one.
func Streak(h models.Habit) int {
	days := distinctDays(h)
	if len(days) == 0 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDays(-1)) {
			break
		}
		streak++
	}
	return streak
}

// CompletedOn reports whether h has a completion on day.
func CompletedOn(h models.Habit, day models.Date) bool {
	return slices.ContainsFunc(h.Completions, func(c models.Completion) bool { return c.Date.Equal(day) })
}

type DayCount struct {
	Date  models.Date
	Label string
	Count int
}

// DailySeries covers the n days ending at today, oldest first. Count is
// the number of habits with at least one completion on that day.
func DailySeries(habits []models.Habit, today models.Date, n int) []DayCount {
	if n <= 0 {
		return []DayCount{}
	}

	series := make([]DayCount, n)
	index := make(map[models.Date]int, n)
	for i := range n {
		day := today.AddDays(i - n + 1)
		series[i] = DayCount{Date: day, Label: day.Weekday().String()[:3]}
		index[day] = i
	}

	for _, h := range habits {
		counted := make(map[int]bool)
		for _, c := range h.Completions {
			i, ok := index[c.Date]
			if !ok || counted[i] {
				continue
			}
			counted[i] = true
			series[i].Count++
		}
	}
	return series
}

func WeeklySeries(habits []models.Habit, today models.Date) []DayCount {
	return DailySeries(habits, today, 7)
}

// Event is a single-day calendar entry for one completion.
type Event struct {
	ID      models.ID
	Title   string
	Start   models.Date
	End     models.Date
	HabitID models.ID
	Tag     string
}

func CalendarEvents(habits []models.Habit) []Event {
	events := []Event{}
	for _, h := range habits {
		for _, c := range h.Completions {
			events = append(events, Event{
				ID:      c.ID,
				Title:   h.Name,
				Start:   c.Date,
				End:     c.Date,
				HabitID: h.ID,
				Tag:     h.Tag,
			})
		}
	}
	return events
}

// UniqueTags lists non-empty tags in first-seen order.
func UniqueTags(habits []models.Habit) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, h := range habits {
		if h.Tag == "" || seen[h.Tag] {
			continue
		}
		seen[h.Tag] = true
		tags = append(tags, h.Tag)
	}
	return tags
}

// FilterByTag returns habits unchanged for an empty tag, otherwise the
// habits whose tag equals it exactly.
func FilterByTag(habits []models.Habit, tag string) []models.Habit {
	if tag == "" {
		return habits
	}
	out := []models.Habit{}
	for _, h := range habits {
		if h.Tag == tag {
			out = append(out, h)
		}
	}
	return out
}

type Summary struct {
	TotalHabits   int
	ActiveStreaks int
	LongestStreak int
}

func Summarize(habits []models.Habit) Summary {
	s := Summary{TotalHabits: len(habits)}
	for _, h := range habits {
		n := Streak(h)
		if n > 0 {
			s.ActiveStreaks++
		}
		s.LongestStreak = max(s.LongestStreak, n)
	}
	return s
}

type HabitStreak struct {
	Habit  models.Habit
	Streak int
}

// TopByStreak returns up to n habits with the longest streaks. Ties keep
// collection order.
func TopByStreak(habits []models.Habit, n int) []HabitStreak {
	ranked := make([]HabitStreak, len(habits))
	for i, h := range habits {
		ranked[i] = HabitStreak{Habit: h, Streak: Streak(h)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Streak > ranked[j].Streak })

	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// HabitProgress counts completions per habit. Distinct counts days.
type HabitProgress struct {
	HabitID  models.ID
	Name     string
	Total    int
	Distinct int
}

func Progress(habits []models.Habit) []HabitProgress {
	out := make([]HabitProgress, len(habits))
	for i, h := range habits {
		out[i] = HabitProgress{
			HabitID:  h.ID,
			Name:     h.Name,
			Total:    len(h.Completions),
			Distinct: len(distinctDays(h)),
		}
	}
	return out
}
