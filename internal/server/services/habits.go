package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/common"
	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
	"github.com/dmitrijs2005/habitkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	maxHabitNameLen = 100
	maxTagLen       = 50
)

// HabitInput is the writable part of a habit.
type HabitInput struct {
	Name        string
	Description string
	Tag         string
}

func (in *HabitInput) normalize() *ValidationError {
	in.Name = strings.TrimSpace(in.Name)
	in.Tag = strings.TrimSpace(in.Tag)

	verr := &ValidationError{}
	switch {
	case in.Name == "":
		verr.add("name", MsgBlank)
	case len([]rune(in.Name)) > maxHabitNameLen:
		verr.add("name", fmt.Sprintf(MsgTooLong, maxHabitNameLen))
	}
	if len([]rune(in.Tag)) > maxTagLen {
		verr.add("tag", fmt.Sprintf(MsgTooLong, maxTagLen))
	}
	if verr.empty() {
		return nil
	}
	return verr
}

// HabitService manages a user's habits. Every method is scoped to userID;
// ids that are malformed or owned by someone else yield common.ErrorNotFound.
type HabitService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	today       func() time.Time
}

func NewHabitService(db *sql.DB, m repomanager.RepositoryManager) *HabitService {
	return &HabitService{
		db:          db,
		repomanager: m,
		today:       func() time.Time { return truncateDay(time.Now()) },
	}
}

// List returns the user's habits with their completions attached. A
// non-empty tag filters by exact tag.
func (s *HabitService) List(ctx context.Context, userID, tag string) ([]models.Habit, error) {
	habits, err := s.repomanager.Habits(s.db).List(ctx, userID, strings.TrimSpace(tag))
	if err != nil {
		return nil, fmt.Errorf("error listing habits: %w", err)
	}

	completions, err := s.repomanager.Completions(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing completions: %w", err)
	}

	byHabit := make(map[string][]models.Completion, len(habits))
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	for i := range habits {
		habits[i].Completions = byHabit[habits[i].ID]
		if habits[i].Completions == nil {
			habits[i].Completions = []models.Completion{}
		}
	}
	return habits, nil
}

func (s *HabitService) Create(ctx context.Context, userID string, in HabitInput) (*models.Habit, error) {
	if verr := in.normalize(); verr != nil {
		return nil, verr
	}

	h, err := s.repomanager.Habits(s.db).Create(ctx, &models.Habit{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Tag:         in.Tag,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating habit: %w", err)
	}
	h.Completions = []models.Completion{}
	return h, nil
}

// Update replaces name, description and tag; completions are returned
// unchanged.
func (s *HabitService) Update(ctx context.Context, userID, id string, in HabitInput) (*models.Habit, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	if verr := in.normalize(); verr != nil {
		return nil, verr
	}

	h, err := s.repomanager.Habits(s.db).Update(ctx, &models.Habit{
		ID:          id,
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Tag:         in.Tag,
	})
	if err != nil {
		return nil, err
	}

	h.Completions, err = s.repomanager.Completions(s.db).ListByHabit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing completions: %w", err)
	}
	return h, nil
}

func (s *HabitService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	return s.repomanager.Habits(s.db).Delete(ctx, userID, id)
}

// Complete marks the habit done on day, or today when day is zero.
// Completing the same day twice returns the existing completion.
func (s *HabitService) Complete(ctx context.Context, userID, id string, day time.Time) (*models.Completion, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	if _, err := s.repomanager.Habits(s.db).Get(ctx, userID, id); err != nil {
		return nil, err
	}

	if day.IsZero() {
		day = s.today()
	}

	c, err := s.repomanager.Completions(s.db).GetOrCreate(ctx, id, truncateDay(day))
	if err != nil {
		return nil, fmt.Errorf("error completing habit: %w", err)
	}
	return c, nil
}

func (s *HabitService) Progress(ctx context.Context, userID string) ([]models.Progress, error) {
	p, err := s.repomanager.Habits(s.db).Progress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error computing progress: %w", err)
	}
	return p, nil
}

// Streak counts the consecutive completed days ending today. A habit not
// completed today has a streak of zero.
func (s *HabitService) Streak(ctx context.Context, userID, id string) (int, error) {
	if !validID(id) {
		return 0, common.ErrorNotFound
	}
	if _, err := s.repomanager.Habits(s.db).Get(ctx, userID, id); err != nil {
		return 0, err
	}

	list, err := s.repomanager.Completions(s.db).ListByHabit(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("error listing completions: %w", err)
	}

	done := make(map[time.Time]struct{}, len(list))
	for _, c := range list {
		if c.Completed {
			done[truncateDay(c.Date)] = struct{}{}
		}
	}

	streak := 0
	for day := s.today(); ; day = day.AddDate(0, 0, -1) {
		if _, ok := done[day]; !ok {
			return streak, nil
		}
		streak++
	}
}

// Tags returns the distinct non-empty tags of the user's habits, sorted.
func (s *HabitService) Tags(ctx context.Context, userID string) ([]string, error) {
	habits, err := s.repomanager.Habits(s.db).List(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("error listing habits: %w", err)
	}

	seen := make(map[string]struct{})
	tags := []string{}
	for _, h := range habits {
		if h.Tag == "" {
			continue
		}
		if _, ok := seen[h.Tag]; ok {
			continue
		}
		seen[h.Tag] = struct{}{}
		tags = append(tags, h.Tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// Completions returns every completion of every habit the user owns.
func (s *HabitService) Completions(ctx context.Context, userID string) ([]models.Completion, error) {
	list, err := s.repomanager.Completions(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing completions: %w", err)
	}
	if list == nil {
		list = []models.Completion{}
	}
	return list, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
