package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minIDPrefix = 4

var ErrAmbiguousAccount = errors.New("account reference is ambiguous")

type Registry struct {
	store   *Store
	secrets ports.SecretStore
	clock   ports.Clock
	logger  *zap.Logger
	newID   func() domain.AccountID
}

func NewRegistry(store *Store, secrets ports.SecretStore, clock ports.Clock, logger *zap.Logger) *Registry {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		store:   store,
		secrets: secrets,
		clock:   clock,
		logger:  logger,
		newID: func() domain.AccountID {
			return domain.AccountID(uuid.NewString())
		},
	}
}

func (r *Registry) List() []domain.Account {
	return r.store.Snapshot().Accounts
}

func (r *Registry) Active() (domain.Account, bool) {
	return r.store.Snapshot().ActiveAccount()
}

func (r *Registry) Add(ctx context.Context, cmd AddAccountCommand) (domain.Account, error) {
	id := cmd.ID
	if id == "" {
		id = r.newID()
	}

	account := domain.Account{
		ID:        id,
		Label:     strings.TrimSpace(cmd.Label),
		Token:     strings.TrimSpace(cmd.Token),
		TokenRef:  domain.TokenRefFor(id),
		CreatedAt: r.clock.Now(),
	}
	if err := account.Validate(); err != nil {
		return domain.Account{}, fmt.Errorf("add account: %w", err)
	}
	if !account.HasToken() {
		return domain.Account{}, fmt.Errorf("add account: %w", domain.ErrMissingToken)
	}
	if _, exists := r.store.Snapshot().Account(id); exists {
		return domain.Account{}, fmt.Errorf("add account %s: %w", id, domain.ErrDuplicateAccount)
	}

	if err := r.secrets.Put(ctx, account.TokenRef, account.Token); err != nil {
		return domain.Account{}, fmt.Errorf("store account token: %w", err)
	}

	_, changed, err := r.store.update(ctx, true, func(state domain.State) (domain.State, bool) {
		return state.WithAccount(account)
	})
	if err == nil && !changed {
		err = domain.ErrDuplicateAccount
	}
	if err != nil {
		if rollbackErr := r.secrets.Delete(ctx, account.TokenRef); rollbackErr != nil {
			return domain.Account{}, fmt.Errorf("save account and rollback stored token: %w", errors.Join(err, rollbackErr))
		}
		return domain.Account{}, fmt.Errorf("save account: %w", err)
	}

	r.logger.Info("account added", zap.String("account_id", string(id)), zap.String("label", account.Label))
	return account, nil
}

// Update merges label and token changes. Unknown ids are ignored.
func (r *Registry) Update(ctx context.Context, cmd UpdateAccountCommand) error {
	current, ok := r.store.Snapshot().Account(cmd.ID)
	if !ok {
		return nil
	}

	patch := domain.AccountPatch{}
	if cmd.Label != nil {
		label := strings.TrimSpace(*cmd.Label)
		if label == "" {
			return fmt.Errorf("update account: account label is required")
		}
		patch.Label = &label
	}

	tokenRef := current.TokenRef
	if tokenRef == "" {
		tokenRef = domain.TokenRefFor(current.ID)
	}
	patch.TokenRef = &tokenRef

	if cmd.Token != nil {
		token := strings.TrimSpace(*cmd.Token)
		if token == "" {
			return fmt.Errorf("update account: %w", domain.ErrMissingToken)
		}
		if err := r.secrets.Put(ctx, tokenRef, token); err != nil {
			return fmt.Errorf("store account token: %w", err)
		}
		patch.Token = &token
	}

	_, _, err := r.store.update(ctx, true, func(state domain.State) (domain.State, bool) {
		return state.WithAccountPatch(cmd.ID, patch)
	})
	if err != nil {
		if cmd.Token != nil && current.HasToken() {
			if rollbackErr := r.secrets.Put(ctx, tokenRef, current.Token); rollbackErr != nil {
				return fmt.Errorf("save account and restore previous token: %w", errors.Join(err, rollbackErr))
			}
		}
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

// Remove deletes the account together with its rentals and history. The last
// remaining account cannot be removed.
func (r *Registry) Remove(ctx context.Context, id domain.AccountID) error {
	var refusal error
	var removed domain.Account
	_, changed, err := r.store.update(ctx, true, func(state domain.State) (domain.State, bool) {
		account, ok := state.Account(id)
		if !ok {
			refusal = domain.ErrAccountNotFound
			return state, false
		}
		if len(state.Accounts) <= 1 {
			refusal = domain.ErrLastAccount
			return state, false
		}
		removed = account
		return state.WithoutAccount(id)
	})
	if err != nil {
		return fmt.Errorf("remove account %s: %w", id, err)
	}
	if !changed {
		return fmt.Errorf("remove account %s: %w", id, refusal)
	}

	tokenRef := removed.TokenRef
	if tokenRef == "" {
		tokenRef = domain.TokenRefFor(id)
	}
	if err := r.secrets.Delete(ctx, tokenRef); err != nil {
		return fmt.Errorf("delete account token: %w", err)
	}

	r.logger.Info("account removed", zap.String("account_id", string(id)))
	return nil
}

func (r *Registry) SetActive(ctx context.Context, id domain.AccountID) error {
	var missing bool
	_, _, err := r.store.update(ctx, true, func(state domain.State) (domain.State, bool) {
		if _, ok := state.Account(id); !ok {
			missing = true
			return state, false
		}
		if state.ActiveAccountID == id {
			return state, false
		}
		return state.WithActiveAccount(id), true
	})
	if err != nil {
		return fmt.Errorf("set active account: %w", err)
	}
	if missing {
		return fmt.Errorf("set active account %s: %w", id, domain.ErrAccountNotFound)
	}

	return nil
}

// Resolve finds an account by exact id, label (case-insensitive) or a unique
// id prefix of at least four characters.
func (r *Registry) Resolve(ref string) (domain.Account, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Account{}, fmt.Errorf("account reference is empty")
	}

	accounts := r.List()
	for _, account := range accounts {
		if string(account.ID) == ref {
			return account, nil
		}
	}

	var matches []domain.Account
	for _, account := range accounts {
		if strings.EqualFold(account.Label, ref) {
			matches = append(matches, account)
		}
	}
	if len(matches) == 0 && len(ref) >= minIDPrefix {
		for _, account := range accounts {
			if strings.HasPrefix(string(account.ID), ref) {
				matches = append(matches, account)
			}
		}
	}

	switch len(matches) {
	case 0:
		return domain.Account{}, fmt.Errorf("account %q: %w", ref, domain.ErrAccountNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.Account{}, fmt.Errorf("account %q: %w", ref, ErrAmbiguousAccount)
	}
}
