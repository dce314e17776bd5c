package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name the tokens live under.
const KeyringService = "habitkeeper"

// KeyringStore keeps tokens in the OS credential store.
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = KeyringService
	}
	return &KeyringStore{service: service}
}

func (s *KeyringStore) get(key string) (models.Token, error) {
	v, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keyring get %q error: %w", key, err)
	}
	return models.Token(v), nil
}

func (s *KeyringStore) del(key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete %q error: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Load(_ context.Context) (models.TokenPair, error) {
	access, err := s.get(AccessTokenKey)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.get(RefreshTokenKey)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *KeyringStore) Save(_ context.Context, pair models.TokenPair) error {
	for _, kv := range []struct {
		key   string
		value models.Token
	}{{AccessTokenKey, pair.Access}, {RefreshTokenKey, pair.Refresh}} {
		if kv.value == "" {
			if err := s.del(kv.key); err != nil {
				return err
			}
			continue
		}
		if err := keyring.Set(s.service, kv.key, string(kv.value)); err != nil {
			return fmt.Errorf("keyring set %q error: %w", kv.key, err)
		}
	}
	return nil
}

func (s *KeyringStore) Clear(_ context.Context) error {
	if err := s.del(AccessTokenKey); err != nil {
		return err
	}
	return s.del(RefreshTokenKey)
}
