package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
	"go.uber.org/zap"
)

// StateListener observes every published state replacement, in order. It
// runs while the store's writer lock is held and must not write to the store.
type StateListener func(prev, next domain.State)

// Store owns the shared client state. Readers get the latest published
// snapshot without locking; writers are serialized and each one replaces the
// whole state in a single step.
type Store struct {
	mu        sync.Mutex
	current   atomic.Pointer[domain.State]
	repo      ports.StateRepository
	listeners []StateListener
}

func NewStore(initial domain.State, repo ports.StateRepository) *Store {
	s := &Store{repo: repo}
	s.current.Store(&initial)
	return s
}

func (s *Store) Snapshot() domain.State {
	return *s.current.Load()
}

func (s *Store) Subscribe(listener StateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, listener)
}

// update applies mutate to the current state. When mutate reports a change,
// the persisted subset is saved first (if persist is set) and the new state
// is published; a failed save publishes nothing.
func (s *Store) update(ctx context.Context, persist bool, mutate func(domain.State) (domain.State, bool)) (domain.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := *s.current.Load()
	next, changed := mutate(prev)
	if !changed {
		return prev, false, nil
	}

	if persist && s.repo != nil {
		if err := s.repo.Save(ctx, next.Persisted()); err != nil {
			return prev, false, fmt.Errorf("save state: %w", err)
		}
	}

	s.current.Store(&next)
	for _, listener := range s.listeners {
		listener(prev, next)
	}

	return next, true, nil
}

// LoadState reads the persisted state and resolves each account token from
// the secret store. A token that cannot be read leaves the account without
// one instead of failing the whole load.
func LoadState(ctx context.Context, repo ports.StateRepository, secrets ports.SecretStore, logger *zap.Logger) (domain.State, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	persisted, err := repo.Load(ctx)
	if err != nil {
		return domain.State{}, fmt.Errorf("load state: %w", err)
	}

	accounts := make([]domain.Account, 0, len(persisted.Accounts))
	for _, account := range persisted.Accounts {
		if account.TokenRef != "" && secrets != nil {
			token, err := secrets.Get(ctx, account.TokenRef)
			if err != nil {
				logger.Warn("account token unavailable",
					zap.String("account_id", string(account.ID)),
					zap.Error(err),
				)
			} else {
				account.Token = token
			}
		}
		accounts = append(accounts, account)
	}
	persisted.Accounts = accounts

	return domain.StateFromPersisted(persisted), nil
}
