package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
)

// Requester is the part of Gateway that Client needs.
type Requester interface {
	Request(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// Client exposes the habit API as typed calls.
type Client struct {
	r Requester
}

func NewClient(r Requester) *Client {
	return &Client{r: r}
}

func decode[T any](raw json.RawMessage, validate func(T) error) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, newInvalidResponseError(http.StatusOK, err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return v, newInvalidResponseError(http.StatusOK, err)
		}
	}
	return v, nil
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	raw, err := c.r.Request(ctx, http.MethodPost, "auth/login/", creds)
	if err != nil {
		return models.TokenPair{}, err
	}
	return decode(raw, models.TokenPair.Validate)
}

func (c *Client) Register(ctx context.Context, acc models.NewAccount) (models.Account, error) {
	raw, err := c.r.Request(ctx, http.MethodPost, "auth/register/", acc)
	if err != nil {
		return models.Account{}, err
	}
	return decode[models.Account](raw, nil)
}

func (c *Client) RefreshToken(ctx context.Context, refresh models.Token) (models.TokenPair, error) {
	raw, err := c.r.Request(ctx, http.MethodPost, "auth/token/refresh/", map[string]models.Token{"refresh": refresh})
	if err != nil {
		return models.TokenPair{}, err
	}
	return decode(raw, models.TokenPair.Validate)
}

// Logout asks the server to revoke refresh. The access token goes along as
// the bearer, so call it before dropping the session.
func (c *Client) Logout(ctx context.Context, refresh models.Token) error {
	_, err := c.r.Request(ctx, http.MethodPost, "auth/logout/", map[string]models.Token{"refresh": refresh})
	return err
}

// ListHabits returns all habits of the user, or only those with the given
// tag when tag is not empty.
func (c *Client) ListHabits(ctx context.Context, tag string) ([]models.Habit, error) {
	path := "habits/"
	if tag != "" {
		path += "?" + url.Values{"tag": {tag}}.Encode()
	}

	raw, err := c.r.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	habits, err := decode[[]models.Habit](raw, validateAll)
	if err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	return habits, nil
}

func validateAll(habits []models.Habit) error {
	seen := make(map[models.ID]bool, len(habits))
	for _, h := range habits {
		if err := h.Validate(); err != nil {
			return err
		}
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit id %s", h.ID)
		}
		seen[h.ID] = true
	}
	return nil
}

func (c *Client) CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	raw, err := c.r.Request(ctx, http.MethodPost, "habits/", draft)
	if err != nil {
		return models.Habit{}, err
	}
	return decode(raw, models.Habit.Validate)
}

func (c *Client) UpdateHabit(ctx context.Context, id models.ID, draft models.HabitDraft) (models.Habit, error) {
	raw, err := c.r.Request(ctx, http.MethodPut, habitPath(id), draft)
	if err != nil {
		return models.Habit{}, err
	}
	return decode(raw, models.Habit.Validate)
}

func (c *Client) DeleteHabit(ctx context.Context, id models.ID) error {
	_, err := c.r.Request(ctx, http.MethodDelete, habitPath(id), nil)
	return err
}

// CompleteHabit marks the habit done on day. Fields the server leaves out
// of the response are taken from the request.
func (c *Client) CompleteHabit(ctx context.Context, id models.ID, day models.Date) (models.Completion, error) {
	raw, err := c.r.Request(ctx, http.MethodPost, habitPath(id)+"complete/", map[string]models.Date{"date": day})
	if err != nil {
		return models.Completion{}, err
	}

	completion, err := decode[models.Completion](raw, nil)
	if err != nil {
		return completion, err
	}
	if completion.HabitID.IsZero() {
		completion.HabitID = id
	}
	if completion.Date.IsZero() {
		completion.Date = day
	}
	if err := completion.Validate(); err != nil {
		return completion, newInvalidResponseError(http.StatusOK, err)
	}
	return completion, nil
}

func habitPath(id models.ID) string {
	return "habits/" + url.PathEscape(id.String()) + "/"
}
