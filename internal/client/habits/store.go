// Package habits holds the client's in-memory habit collection and applies
// the results of habit intents to it.
//
// Every intent is a single blocking round trip through a HabitClient. The
// round trip runs without holding the store lock; its result is applied
// under the lock, after which subscribers are notified with a snapshot.
package habits

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/habitkeeper/internal/client/api"
	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/dmitrijs2005/habitkeeper/internal/logging"
)

// HabitClient is the habit half of the habit API.
type HabitClient interface {
	ListHabits(ctx context.Context, tag string) ([]models.Habit, error)
	CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error)
	UpdateHabit(ctx context.Context, id models.ID, draft models.HabitDraft) (models.Habit, error)
	DeleteHabit(ctx context.Context, id models.ID) error
	CompleteHabit(ctx context.Context, id models.ID, day models.Date) (models.Completion, error)
}

// Intent names a kind of habit request.
type Intent string

const (
	IntentFetch    Intent = "fetch"
	IntentCreate   Intent = "create"
	IntentUpdate   Intent = "update"
	IntentDelete   Intent = "delete"
	IntentComplete Intent = "complete"
)

var intents = []Intent{IntentFetch, IntentCreate, IntentUpdate, IntentDelete, IntentComplete}

type RequestState struct {
	Status      models.Status
	ErrorDetail models.ErrorPayload
}

// State is a copy of the store; callers may keep and modify it freely.
type State struct {
	Habits []models.Habit
	// Status follows the fetch intent.
	Status models.Status
	// ErrorDetail is the payload of the last rejected intent of any kind.
	ErrorDetail models.ErrorPayload
	Selected    models.ID
	Requests    map[Intent]RequestState
}

type Option func(*Store)

// WithStaleResponseGuard drops a response when a newer request of the same
// intent kind has been dispatched after it. The caller still receives the
// result.
func WithStaleResponseGuard() Option {
	return func(s *Store) { s.guard = true }
}

type Store struct {
	client HabitClient
	logger logging.Logger
	guard  bool

	mu        sync.Mutex
	state     State
	seq       map[Intent]uint64
	listeners map[int]func(State)
	nextID    int
}

func NewStore(client HabitClient, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		client: client,
		logger: logger.With("component", "habits"),
		state: State{
			Habits:   []models.Habit{},
			Requests: make(map[Intent]RequestState, len(intents)),
		},
		seq:       make(map[Intent]uint64, len(intents)),
		listeners: make(map[int]func(State)),
	}
	for _, in := range intents {
		s.state.Requests[in] = RequestState{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to run after every state change and returns a
// function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	habits := make([]models.Habit, len(s.state.Habits))
	for i, h := range s.state.Habits {
		h.Completions = slices.Clone(h.Completions)
		habits[i] = h
	}

	requests := make(map[Intent]RequestState, len(s.state.Requests))
	for k, v := range s.state.Requests {
		requests[k] = v
	}

	st := s.state
	st.Habits = habits
	st.Requests = requests
	return st
}

// mutate applies fn under the lock and notifies subscribers afterwards.
func (s *Store) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshotLocked()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// begin marks intent Pending and returns its sequence number.
func (s *Store) begin(intent Intent) uint64 {
	var n uint64
	s.mutate(func(st *State) {
		s.seq[intent]++
		n = s.seq[intent]
		st.Requests[intent] = RequestState{Status: models.StatusPending}
		if intent == IntentFetch {
			st.Status = models.StatusPending
			st.ErrorDetail = nil
		}
	})
	return n
}

// settle applies the outcome of a request. apply runs only on success.
// It reports whether the outcome was applied.
func (s *Store) settle(ctx context.Context, intent Intent, n uint64, err error, apply func(st *State)) bool {
	applied := true
	s.mutate(func(st *State) {
		if s.guard && n != s.seq[intent] {
			applied = false
			return
		}

		if err != nil {
			payload := api.PayloadOf(err)
			st.Requests[intent] = RequestState{Status: models.StatusError, ErrorDetail: payload}
			st.ErrorDetail = payload
			if intent == IntentFetch {
				st.Status = models.StatusError
			}
			return
		}

		st.Requests[intent] = RequestState{Status: models.StatusIdle}
		if intent == IntentFetch {
			st.Status = models.StatusIdle
		}
		if apply != nil {
			apply(st)
		}
	})

	if !applied {
		s.logger.Debug(ctx, "stale response discarded", "intent", intent, "seq", n)
	}
	return applied
}

// rejectDraft records a local validation failure as a rejected intent.
func (s *Store) rejectDraft(ctx context.Context, intent Intent, payload models.ErrorPayload) error {
	err := &api.APIError{Payload: payload}
	n := s.begin(intent)
	s.settle(ctx, intent, n, err, nil)
	return err
}

func indexOf(habits []models.Habit, id models.ID) int {
	return slices.IndexFunc(habits, func(h models.Habit) bool { return h.ID == id })
}

// FetchAll replaces the collection with the server's listing.
func (s *Store) FetchAll(ctx context.Context) ([]models.Habit, error) {
	n := s.begin(IntentFetch)

	habits, err := s.client.ListHabits(ctx, "")
	s.settle(ctx, IntentFetch, n, err, func(st *State) {
		st.Habits = slices.Clone(habits)
	})
	if err != nil {
		s.logger.Warn(ctx, "fetch habits failed", "error", err)
		return nil, err
	}

	s.logger.Debug(ctx, "habits fetched", "count", len(habits))
	return habits, nil
}

// Create appends the habit the server created from draft.
func (s *Store) Create(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	if payload := draft.Validate(); payload != nil {
		return models.Habit{}, s.rejectDraft(ctx, IntentCreate, payload)
	}

	n := s.begin(IntentCreate)

	habit, err := s.client.CreateHabit(ctx, draft)
	s.settle(ctx, IntentCreate, n, err, func(st *State) {
		st.Habits = append(st.Habits, habit)
	})
	if err != nil {
		s.logger.Warn(ctx, "create habit failed", "error", err)
		return models.Habit{}, err
	}

	s.logger.Info(ctx, "habit created", "id", habit.ID)
	return habit, nil
}

// Update replaces the habit with the same id in place. A habit that is not
// in the collection is left out.
func (s *Store) Update(ctx context.Context, id models.ID, draft models.HabitDraft) (models.Habit, error) {
	if payload := draft.Validate(); payload != nil {
		return models.Habit{}, s.rejectDraft(ctx, IntentUpdate, payload)
	}

	n := s.begin(IntentUpdate)

	habit, err := s.client.UpdateHabit(ctx, id, draft)
	s.settle(ctx, IntentUpdate, n, err, func(st *State) {
		if i := indexOf(st.Habits, habit.ID); i >= 0 {
			st.Habits[i] = habit
		}
	})
	if err != nil {
		s.logger.Warn(ctx, "update habit failed", "id", id, "error", err)
		return models.Habit{}, err
	}

	s.logger.Info(ctx, "habit updated", "id", id)
	return habit, nil
}

// Delete removes the habit with id from the collection once the server
// confirms.
func (s *Store) Delete(ctx context.Context, id models.ID) error {
	n := s.begin(IntentDelete)

	err := s.client.DeleteHabit(ctx, id)
	s.settle(ctx, IntentDelete, n, err, func(st *State) {
		st.Habits = slices.DeleteFunc(st.Habits, func(h models.Habit) bool { return h.ID == id })
	})
	if err != nil {
		s.logger.Warn(ctx, "delete habit failed", "id", id, "error", err)
		return err
	}

	s.logger.Info(ctx, "habit deleted", "id", id)
	return nil
}

// Complete records a completion of habit id on day. The completion is
// attached to the habit named in the response; if that habit is not in the
// collection it is dropped.
func (s *Store) Complete(ctx context.Context, id models.ID, day models.Date) (models.Completion, error) {
	n := s.begin(IntentComplete)

	c, err := s.client.CompleteHabit(ctx, id, day)
	s.settle(ctx, IntentComplete, n, err, func(st *State) {
		i := indexOf(st.Habits, c.HabitID)
		if i < 0 {
			s.logger.Debug(ctx, "completion for unknown habit dropped", "habit_id", c.HabitID)
			return
		}
		h := st.Habits[i]
		h.Completions = append(slices.Clip(h.Completions), c)
		st.Habits[i] = h
	})
	if err != nil {
		s.logger.Warn(ctx, "complete habit failed", "id", id, "error", err)
		return models.Completion{}, err
	}

	s.logger.Info(ctx, "habit completed", "id", c.HabitID, "date", c.Date)
	return c, nil
}

func (s *Store) Select(id models.ID) {
	s.mutate(func(st *State) { st.Selected = id })
}

func (s *Store) ClearSelection() {
	s.mutate(func(st *State) { st.Selected = "" })
}

// SelectedHabit returns the selected habit if it is in the collection.
func (s *Store) SelectedHabit() (models.Habit, bool) {
	snap := s.Snapshot()
	if snap.Selected == "" {
		return models.Habit{}, false
	}
	i := indexOf(snap.Habits, snap.Selected)
	if i < 0 {
		return models.Habit{}, false
	}
	return snap.Habits[i], true
}
