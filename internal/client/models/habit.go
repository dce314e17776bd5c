package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// Habit is a recurring activity together with its completion history.
type Habit struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Tag         string       `json:"tag"`
	Completions []Completion `json:"completions"`
}

// Validate checks the fields the client relies on.
func (h Habit) Validate() error {
	if h.ID.IsZero() {
		return errors.New("habit id is empty")
	}
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("habit name is empty")
	}
	for _, c := range h.Completions {
		if c.Date.IsZero() {
			return errors.New("completion date is empty")
		}
	}
	return nil
}

// HabitDraft is the user-editable part of a habit, sent on create and update.
type HabitDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

// BlankFieldMessage is the field error reported for a blank required field.
const BlankFieldMessage = "This field may not be blank."

// Validate returns field errors in the same shape the API uses, or nil.
func (d HabitDraft) Validate() ErrorPayload {
	if strings.TrimSpace(d.Name) == "" {
		return ErrorPayload{"name": []any{BlankFieldMessage}}
	}
	return nil
}

// Completion records that a habit was done on a given day.
type Completion struct {
	ID      ID   `json:"id"`
	HabitID ID   `json:"habit_id"`
	Date    Date `json:"date"`
}

func (c *Completion) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID      ID   `json:"id"`
		HabitID ID   `json:"habit_id"`
		Habit   ID   `json:"habit"`
		Date    Date `json:"date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	c.ID = raw.ID
	c.HabitID = raw.HabitID
	if c.HabitID.IsZero() {
		c.HabitID = raw.Habit
	}
	c.Date = raw.Date
	return nil
}

func (c Completion) Validate() error {
	if c.HabitID.IsZero() {
		return errors.New("completion habit id is empty")
	}
	if c.Date.IsZero() {
		return errors.New("completion date is empty")
	}
	return nil
}
