package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/common"
	"github.com/dmitrijs2005/habitkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.habits.List(r.Context(), userIDFrom(r.Context()), r.URL.Query().Get("tag"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]habitResponse, 0, len(habits))
	for _, h := range habits {
		out = append(out, toHabit(h))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h, err := s.habits.Create(r.Context(), userIDFrom(r.Context()), services.HabitInput(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHabit(*h))
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h, err := s.habits.Update(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), services.HabitInput(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabit(*h))
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.habits.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// completeHabit takes an optional {"date": "YYYY-MM-DD"} body; without a
// date the habit is completed for today.
func (s *Server) completeHabit(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	var day time.Time
	if d := strings.TrimSpace(req.Date); d != "" {
		parsed, err := time.Parse(common.DateLayout, d)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"date": {msgDateFormat}})
			return
		}
		day = parsed
	}

	c, err := s.habits.Complete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), day)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompletion(*c))
}

func (s *Server) habitStreak(w http.ResponseWriter, r *http.Request) {
	n, err := s.habits.Streak(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, streakResponse{Streak: n})
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.habits.Tags(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagResponse{Name: t})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listCompletions(w http.ResponseWriter, r *http.Request) {
	list, err := s.habits.Completions(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]completionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCompletion(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	p, err := s.habits.Progress(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]progressResponse, 0, len(p))
	for _, x := range p {
		out = append(out, progressResponse{HabitID: x.HabitID, Habit: x.Habit, Total: x.Total, Completed: x.Completed})
	}
	writeJSON(w, http.StatusOK, out)
}
