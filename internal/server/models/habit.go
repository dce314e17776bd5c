package models

import "time"

// Habit belongs to exactly one user. Tag is a free-form label, empty when
// the habit is untagged.
type Habit struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Tag         string
	CreatedAt   time.Time
	Completions []Completion
}

// Completion marks a habit done on one calendar day. The pair
// (HabitID, Date) is unique.
type Completion struct {
	ID        string
	HabitID   string
	Date      time.Time
	Completed bool
}

// Progress aggregates a habit's completion rows.
type Progress struct {
	HabitID   string
	Habit     string
	Total     int
	Completed int
}
