package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/smsman-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/smsman-cli/internal/adapters/secrets/pass"
	"github.com/bnema/smsman-cli/internal/ports"
)

// Store tries each backend in order. Reads and writes stop at the first
// backend that succeeds; deletes reach every backend so a token written to a
// fallback earlier does not linger.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNoBackends = errors.New("secret store chain has no backends")
	errNilBackend = errors.New("secret store backend is nil")
)

func NewStore(backends ...ports.SecretStore) *Store {
	store, err := NewStoreChecked(backends...)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("backend %d: %w", i, errNilBackend)
		}
	}

	return &Store{backends: backends}, nil
}

func NewPassFirstWithFileFallback(pass passstore.Options, fileRoot string) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(pass), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for i, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d put failed: %w", i, err))
	}

	return errors.Join(errs...)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldSkipFallback(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("backend %d get failed: %w", i, err))
	}

	return "", errors.Join(errs...)
}

// Delete succeeds when at least one backend removed (or never had) the key.
func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	deleted := false
	for i, backend := range s.backends {
		err := backend.Delete(ctx, key)
		if err == nil {
			deleted = true
			continue
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d delete failed: %w", i, err))
	}

	if deleted {
		return nil
	}
	return errors.Join(errs...)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
