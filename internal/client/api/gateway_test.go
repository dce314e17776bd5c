package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	ctype  string
	body   string
}

func newServer(t *testing.T, status int, body string, got *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			b, _ := io.ReadAll(r.Body)
			*got = recorded{
				method: r.Method,
				path:   r.URL.Path,
				query:  r.URL.RawQuery,
				auth:   r.Header.Get("Authorization"),
				ctype:  r.Header.Get("Content-Type"),
				body:   string(b),
			}
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T, base string, token models.Token) *Gateway {
	t.Helper()
	g, err := NewGateway(base, 2*time.Second, WithTokenSource(TokenSourceFunc(func() models.Token { return token })))
	require.NoError(t, err)
	return g
}

func TestNewGateway_RejectsRelativeBase(t *testing.T) {
	_, err := NewGateway("api/", time.Second)
	require.Error(t, err)
}

func TestGateway_Request_Success(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusCreated, `{"id":1,"name":"Read"}`, &got)
	g := newGateway(t, srv.URL+"/api", "acc-1")

	raw, err := g.Request(context.Background(), http.MethodPost, "/habits/", map[string]string{"name": "Read"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Read"}`, string(raw))
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/habits/", got.path)
	assert.Equal(t, "Bearer acc-1", got.auth)
	assert.Equal(t, "application/json", got.ctype)
	assert.JSONEq(t, `{"name":"Read"}`, got.body)
}

func TestGateway_Request_NoTokenNoHeader(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `[]`, &got)
	g := newGateway(t, srv.URL+"/api/", "")

	_, err := g.Request(context.Background(), http.MethodGet, "habits/?tag=health", nil)

	require.NoError(t, err)
	assert.Empty(t, got.auth)
	assert.Empty(t, got.ctype)
	assert.Equal(t, "tag=health", got.query)
}

func TestGateway_Request_EmptyBodyIsNull(t *testing.T) {
	srv := newServer(t, http.StatusNoContent, "", nil)
	g := newGateway(t, srv.URL, "t")

	raw, err := g.Request(context.Background(), http.MethodDelete, "habits/1/", nil)

	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestGateway_Request_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantPayload models.ErrorPayload
		wantIs      error
	}{
		{
			name:        "field errors verbatim",
			status:      http.StatusBadRequest,
			body:        `{"name":["This field may not be blank."]}`,
			wantPayload: models.ErrorPayload{"name": []any{"This field may not be blank."}},
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"detail":"Invalid credentials"}`,
			wantPayload: models.ErrorPayload{"detail": "Invalid credentials"},
			wantIs:      ErrUnauthorized,
		},
		{
			name:        "forbidden",
			status:      http.StatusForbidden,
			body:        `{"detail":"nope"}`,
			wantPayload: models.ErrorPayload{"detail": "nope"},
			wantIs:      ErrUnauthorized,
		},
		{
			name:        "plain text body",
			status:      http.StatusInternalServerError,
			body:        "boom",
			wantPayload: models.ErrorPayload{"detail": "boom"},
		},
		{
			name:        "empty body uses status text",
			status:      http.StatusNotFound,
			body:        "",
			wantPayload: models.ErrorPayload{"detail": "Not Found"},
		},
		{
			name:        "non-object json",
			status:      http.StatusBadRequest,
			body:        `["a","b"]`,
			wantPayload: models.ErrorPayload{"detail": []any{"a", "b"}},
		},
		{
			name:        "bad gateway is unavailable",
			status:      http.StatusBadGateway,
			body:        "",
			wantPayload: models.ErrorPayload{"detail": "Bad Gateway"},
			wantIs:      ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			g := newGateway(t, srv.URL, "t")

			_, err := g.Request(context.Background(), http.MethodGet, "habits/", nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantPayload, apiErr.Payload)
			assert.Equal(t, tt.wantPayload, PayloadOf(err))
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			} else {
				assert.False(t, errors.Is(err, ErrUnauthorized))
			}
		})
	}
}

func TestGateway_Request_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	g := newGateway(t, base, "")
	_, err := g.Request(context.Background(), http.MethodGet, "habits/", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, apiErr.Payload, "detail")
	assert.NotEmpty(t, apiErr.Payload.Message())
}

func TestGateway_Request_CancelledContext(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{}`, nil)
	g := newGateway(t, srv.URL, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Request(ctx, http.MethodGet, "habits/", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGateway_Request_UnencodableBody(t *testing.T) {
	g := newGateway(t, "http://127.0.0.1:1/", "")

	_, err := g.Request(context.Background(), http.MethodPost, "habits/", map[string]any{"bad": make(chan int)})
	require.Error(t, err)

	var typeErr *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestGateway_SetTokenSource(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{}`, &got)
	g := newGateway(t, srv.URL, "")

	g.SetTokenSource(TokenSourceFunc(func() models.Token { return "late" }))
	_, err := g.Request(context.Background(), http.MethodGet, "health", nil)

	require.NoError(t, err)
	assert.Equal(t, "Bearer late", got.auth)
}

func TestPayloadOf(t *testing.T) {
	assert.Nil(t, PayloadOf(nil))
	assert.Equal(t, models.ErrorPayload{"detail": "plain"}, PayloadOf(errors.New("plain")))
}
