// Package session owns the client's credential tokens and the status of
// the authentication intents.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/client/api"
	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/dmitrijs2005/habitkeeper/internal/client/tokens"
	"github.com/dmitrijs2005/habitkeeper/internal/logging"
)

// AuthClient is the authentication half of the habit API.
type AuthClient interface {
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)
	Register(ctx context.Context, acc models.NewAccount) (models.Account, error)
	RefreshToken(ctx context.Context, refresh models.Token) (models.TokenPair, error)
}

// Revoker invalidates a refresh token on the server.
type Revoker interface {
	Logout(ctx context.Context, refresh models.Token) error
}

const revokeTimeout = 5 * time.Second

type Option func(*Store)

// WithServerLogout makes Logout ask the server to revoke the refresh token
// before the local clear. The outcome of that call is only logged.
func WithServerLogout(r Revoker) Option {
	return func(s *Store) { s.revoker = r }
}

type State struct {
	AccessToken  models.Token
	RefreshToken models.Token
	Status       models.Status
	ErrorDetail  models.ErrorPayload
}

type Store struct {
	client  AuthClient
	tokens  tokens.Store
	logger  logging.Logger
	revoker Revoker

	mu    sync.Mutex
	state State
}

// NewStore builds a session seeded with previously persisted tokens.
func NewStore(client AuthClient, ts tokens.Store, initial models.TokenPair, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		client: client,
		tokens: ts,
		logger: logger.With("component", "session"),
		state: State{
			AccessToken:  initial.Access,
			RefreshToken: initial.Refresh,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AccessToken makes Store usable as the gateway's token source.
func (s *Store) AccessToken() models.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = models.StatusPending
	s.state.ErrorDetail = nil
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = models.StatusError
	s.state.ErrorDetail = api.PayloadOf(err)
}

func (s *Store) acceptTokens(ctx context.Context, pair models.TokenPair) {
	if err := s.tokens.Save(ctx, pair); err != nil {
		s.logger.Warn(ctx, "tokens not persisted", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = pair.Access
	s.state.RefreshToken = pair.Refresh
	s.state.Status = models.StatusIdle
}

// Login exchanges credentials for a token pair. On failure the previous
// tokens stay in place and the server's payload lands in ErrorDetail.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	s.begin()

	pair, err := s.client.Login(ctx, creds)
	if err != nil {
		s.logger.Info(ctx, "login rejected", "error", err)
		s.fail(err)
		return models.TokenPair{}, err
	}

	s.acceptTokens(ctx, pair)
	s.logger.Info(ctx, "logged in")
	return pair, nil
}

// Register creates an account. It does not log in.
func (s *Store) Register(ctx context.Context, acc models.NewAccount) (models.Account, error) {
	s.begin()

	created, err := s.client.Register(ctx, acc)
	if err != nil {
		s.logger.Info(ctx, "registration rejected", "error", err)
		s.fail(err)
		return models.Account{}, err
	}

	s.mu.Lock()
	s.state.Status = models.StatusIdle
	s.mu.Unlock()

	s.logger.Info(ctx, "registered", "username", created.Username)
	return created, nil
}

// Refresh trades the refresh token for a new pair.
func (s *Store) Refresh(ctx context.Context) (models.TokenPair, error) {
	s.begin()

	s.mu.Lock()
	refresh := s.state.RefreshToken
	s.mu.Unlock()

	if refresh == "" {
		err := &api.APIError{Payload: models.DetailPayload("refresh token is absent")}
		s.fail(err)
		return models.TokenPair{}, err
	}

	pair, err := s.client.RefreshToken(ctx, refresh)
	if err != nil {
		s.logger.Info(ctx, "token refresh rejected", "error", err)
		s.fail(err)
		return models.TokenPair{}, err
	}

	s.acceptTokens(ctx, pair)
	s.logger.Debug(ctx, "tokens refreshed")
	return pair, nil
}

// Logout forgets both tokens locally and in persistence. It never fails.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.state
	s.mu.Unlock()

	if s.revoker != nil && prev.AccessToken != "" && prev.RefreshToken != "" {
		rctx, cancel := context.WithTimeout(ctx, revokeTimeout)
		if err := s.revoker.Logout(rctx, prev.RefreshToken); err != nil {
			s.logger.Warn(ctx, "server logout failed", "error", err)
		}
		cancel()
	}

	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "persisted tokens not cleared", "error", err)
	}
	s.logger.Info(ctx, "logged out")
}
