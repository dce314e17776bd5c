package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/common"
	"github.com/dmitrijs2005/habitkeeper/internal/logging"
	"github.com/dmitrijs2005/habitkeeper/internal/server/models"
	"github.com/dmitrijs2005/habitkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	registerErr error
	loginErr    error
	refreshErr  error
	logoutErr   error

	gotLogin   string
	gotLogout  string
	logoutUser string
}

func (f *fakeUsers) Register(_ context.Context, username, email, _ string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u1", Username: username, Email: email}, nil
}

func (f *fakeUsers) Login(_ context.Context, login, _ string) (*services.TokenPair, error) {
	f.gotLogin = login
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil
}

func (f *fakeUsers) RefreshToken(_ context.Context, refresh string) (*services.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &services.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}, nil
}

func (f *fakeUsers) Logout(_ context.Context, userID, refresh string) error {
	f.logoutUser, f.gotLogout = userID, refresh
	return f.logoutErr
}

func (f *fakeUsers) Authenticate(token string) (string, error) {
	switch token {
	case "good":
		return "u1", nil
	case "expired":
		return "", common.ErrTokenExpired
	default:
		return "", common.ErrInvalidToken
	}
}

type fakeHabits struct {
	habits []models.Habit
	err    error

	gotUser string
	gotTag  string
	gotID   string
	gotDay  time.Time
	gotIn   services.HabitInput
}

func (f *fakeHabits) List(_ context.Context, userID, tag string) ([]models.Habit, error) {
	f.gotUser, f.gotTag = userID, tag
	return f.habits, f.err
}

func (f *fakeHabits) Create(_ context.Context, userID string, in services.HabitInput) (*models.Habit, error) {
	f.gotUser, f.gotIn = userID, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Habit{ID: "h1", Name: in.Name, Tag: in.Tag}, nil
}

func (f *fakeHabits) Update(_ context.Context, userID, id string, in services.HabitInput) (*models.Habit, error) {
	f.gotUser, f.gotID, f.gotIn = userID, id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Habit{ID: id, Name: in.Name}, nil
}

func (f *fakeHabits) Delete(_ context.Context, userID, id string) error {
	f.gotUser, f.gotID = userID, id
	return f.err
}

func (f *fakeHabits) Complete(_ context.Context, userID, id string, day time.Time) (*models.Completion, error) {
	f.gotUser, f.gotID, f.gotDay = userID, id, day
	if f.err != nil {
		return nil, f.err
	}
	if day.IsZero() {
		day = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	}
	return &models.Completion{ID: "c1", HabitID: id, Date: day, Completed: true}, nil
}

func (f *fakeHabits) Progress(_ context.Context, userID string) ([]models.Progress, error) {
	f.gotUser = userID
	return []models.Progress{{HabitID: "h1", Habit: "Run", Total: 3, Completed: 3}}, f.err
}

func (f *fakeHabits) Streak(_ context.Context, userID, id string) (int, error) {
	f.gotUser, f.gotID = userID, id
	if f.err != nil {
		return 0, f.err
	}
	return 4, nil
}

func (f *fakeHabits) Tags(_ context.Context, userID string) ([]string, error) {
	f.gotUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return []string{"health", "mind"}, nil
}

func (f *fakeHabits) Completions(_ context.Context, userID string) ([]models.Completion, error) {
	f.gotUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return []models.Completion{
		{ID: "c1", HabitID: "h1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Completed: true},
	}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeUsers, *fakeHabits) {
	t.Helper()
	us := &fakeUsers{}
	hs := &fakeHabits{}
	s := NewServer(":0", logging.NewNop(), us, hs, []string{"http://localhost:3000"})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts, us, hs
}

func do(t *testing.T, ts *httptest.Server, method, path, token, body string) (*http.Response, string) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestHealth(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
}

func TestLogin(t *testing.T) {
	ts, us, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/auth/login/", "", `{"email":"a@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"access":"acc","refresh":"ref"}`, body)
	assert.Equal(t, "a@example.com", us.gotLogin)
}

func TestLogin_Errors(t *testing.T) {
	ts, us, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/auth/login/", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"password"`)

	resp, body = do(t, ts, http.MethodPost, "/api/auth/login/", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "JSON parse error")

	us.loginErr = common.ErrorInvalidCredentials
	resp, body = do(t, ts, http.MethodPost, "/api/auth/login/", "", `{"username":"a","password":"b"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"`+msgInvalidCredentials+`"}`, body)
}

func TestRegister(t *testing.T) {
	ts, us, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/auth/register/", "", `{"username":"alice","email":"a@example.com","password":"password1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"u1","username":"alice","email":"a@example.com"}`, body)

	us.registerErr = &services.ValidationError{Fields: map[string][]string{"username": {"taken"}}}
	resp, body = do(t, ts, http.MethodPost, "/api/auth/register/", "", `{"username":"alice","password":"password1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"username":["taken"]}`, body)
}

func TestRefresh(t *testing.T) {
	ts, us, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/auth/token/refresh/", "", `{"refresh":"ref"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"access":"acc2","refresh":"ref2"}`, body)

	resp, _ = do(t, ts, http.MethodPost, "/api/auth/token/refresh/", "", `{"refresh":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	us.refreshErr = common.ErrRefreshTokenExpired
	resp, body = do(t, ts, http.MethodPost, "/api/auth/token/refresh/", "", `{"refresh":"old"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "token_not_valid")
}

func TestLogout(t *testing.T) {
	ts, us, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/auth/logout/", "good", `{"refresh":"ref"}`)
	require.Equal(t, http.StatusResetContent, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "u1", us.logoutUser)
	assert.Equal(t, "ref", us.gotLogout)

	resp, _ = do(t, ts, http.MethodPost, "/api/auth/logout/", "", `{"refresh":"ref"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = do(t, ts, http.MethodPost, "/api/auth/logout/", "good", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"refresh"`)

	us.logoutErr = common.ErrInvalidToken
	resp, body = do(t, ts, http.MethodPost, "/api/auth/logout/", "good", `{"refresh":"gone"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"`+msgTokenInvalid+`"}`, body)

	us.logoutErr = errors.New("db down")
	resp, _ = do(t, ts, http.MethodPost, "/api/auth/logout/", "good", `{"refresh":"ref"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/habits/", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"`+msgNoCredentials+`"}`, body)

	resp, body = do(t, ts, http.MethodGet, "/api/habits/", "expired", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "token_not_valid")

	resp, _ = do(t, ts, http.MethodGet, "/api/progress/", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListHabits(t *testing.T) {
	ts, _, hs := newTestServer(t)
	hs.habits = []models.Habit{{
		ID:   "h1",
		Name: "Run",
		Tag:  "health",
		Completions: []models.Completion{
			{ID: "c1", HabitID: "h1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Completed: true},
		},
	}}

	resp, body := do(t, ts, http.MethodGet, "/api/habits/?tag=health", "good", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "u1", hs.gotUser)
	assert.Equal(t, "health", hs.gotTag)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Run", got[0]["name"])
	completions := got[0]["completions"].([]any)
	require.Len(t, completions, 1)
	assert.Equal(t, "2024-01-01", completions[0].(map[string]any)["date"])
	assert.Equal(t, "h1", completions[0].(map[string]any)["habit_id"])
}

func TestListHabits_EmptyIsArray(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/habits", "good", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)
}

func TestCreateHabit(t *testing.T) {
	ts, _, hs := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/habits/", "good", `{"name":"Read","description":"","tag":"mind"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, services.HabitInput{Name: "Read", Tag: "mind"}, hs.gotIn)
	assert.Contains(t, body, `"completions":[]`)

	hs.err = &services.ValidationError{Fields: map[string][]string{"name": {services.MsgBlank}}}
	resp, body = do(t, ts, http.MethodPost, "/api/habits/", "good", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"name":["`+services.MsgBlank+`"]}`, body)
}

func TestUpdateAndDeleteHabit(t *testing.T) {
	ts, _, hs := newTestServer(t)

	resp, _ := do(t, ts, http.MethodPut, "/api/habits/h7/", "good", `{"name":"Walk"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "h7", hs.gotID)

	resp, body := do(t, ts, http.MethodDelete, "/api/habits/h7/", "good", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)

	hs.err = common.ErrorNotFound
	resp, body = do(t, ts, http.MethodDelete, "/api/habits/h8/", "good", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Not found."}`, body)
}

func TestCompleteHabit(t *testing.T) {
	ts, _, hs := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/habits/h1/complete/", "good", `{"date":"2024-03-05"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), hs.gotDay)
	assert.JSONEq(t, `{"id":"c1","habit_id":"h1","date":"2024-03-05","completed":true}`, body)

	resp, _ = do(t, ts, http.MethodPost, "/api/habits/h1/complete/", "good", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, hs.gotDay.IsZero())

	resp, body = do(t, ts, http.MethodPost, "/api/habits/h1/complete/", "good", `{"date":"05/03/2024"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"date"`)
}

func TestProgress(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/progress/", "good", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"habit_id":"h1","habit":"Run","total":3,"completed":3}]`, body)
}

func TestHabitStreak(t *testing.T) {
	ts, _, hs := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/habits/h1/streak/", "good", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"streak":4}`, body)
	assert.Equal(t, "h1", hs.gotID)

	hs.err = common.ErrorNotFound
	resp, _ = do(t, ts, http.MethodGet, "/api/habits/h9/streak/", "good", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTagsAndCompletions(t *testing.T) {
	ts, _, hs := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/tags/", "good", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"name":"health"},{"name":"mind"}]`, body)
	assert.Equal(t, "u1", hs.gotUser)

	resp, body = do(t, ts, http.MethodGet, "/api/completions/", "good", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":"c1","habit_id":"h1","date":"2024-01-01","completed":true}]`, body)

	resp, _ = do(t, ts, http.MethodGet, "/api/tags/", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInternalErrorsAreMasked(t *testing.T) {
	ts, _, hs := newTestServer(t)
	hs.err = errors.New("db down: password=secret")

	resp, body := do(t, ts, http.MethodGet, "/api/habits/", "good", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"`+msgInternal+`"}`, body)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/nope/", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Not found."}`, body)

	resp, _ = do(t, ts, http.MethodPatch, "/api/auth/login/", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ts, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/habits/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", logging.NewNop(), &fakeUsers{}, &fakeHabits{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
