package httpapi

import (
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/common"
	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type habitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

type completeRequest struct {
	Date string `json:"date"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type completionResponse struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type habitResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Tag         string               `json:"tag"`
	CreatedAt   time.Time            `json:"created_at"`
	Completions []completionResponse `json:"completions"`
}

type streakResponse struct {
	Streak int `json:"streak"`
}

type tagResponse struct {
	Name string `json:"name"`
}

type progressResponse struct {
	HabitID   string `json:"habit_id"`
	Habit     string `json:"habit"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

func toCompletion(c models.Completion) completionResponse {
	return completionResponse{
		ID:        c.ID,
		HabitID:   c.HabitID,
		Date:      c.Date.Format(common.DateLayout),
		Completed: c.Completed,
	}
}

func toHabit(h models.Habit) habitResponse {
	out := habitResponse{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		Tag:         h.Tag,
		CreatedAt:   h.CreatedAt,
		Completions: make([]completionResponse, 0, len(h.Completions)),
	}
	for _, c := range h.Completions {
		out.Completions = append(out.Completions, toCompletion(c))
	}
	return out
}
